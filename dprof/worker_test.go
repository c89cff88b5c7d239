package dprof

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"
)

func sendSession(t *testing.T, conn net.Conn, info AppInfo, features []FeatureData) {
	t.Helper()
	v := VersionMsg{Version: ProtocolVersion}
	if err := SendMessage(conn, Message{ID: MessageVersion, Data: v.Encode()}); err != nil {
		t.Error(err)
		return
	}
	if err := SendMessage(conn, Message{ID: MessageAppInfo, Data: info.Encode()}); err != nil {
		t.Error(err)
		return
	}
	for _, fd := range features {
		if err := SendMessage(conn, Message{ID: MessageFeatureData, Data: fd.Encode()}); err != nil {
			t.Error(err)
			return
		}
	}
	conn.Close()
}

func TestProcessConnectionFullSession(t *testing.T) {
	client, server := net.Pipe()
	info := AppInfo{AppName: "myapp", Hash: 7, PID: 99}
	features := []FeatureData{
		{Name: "heap", Data: []byte{1, 2, 3}},
		{Name: "cpu", Data: []byte{4, 5}},
	}
	go sendSession(t, client, info, features)

	app, err := ProcessConnection(server)
	if err != nil {
		t.Fatal(err)
	}
	if app.Name != info.AppName || app.Hash != info.Hash || app.PID != info.PID {
		t.Fatalf("got %+v, want %+v", app, info)
	}
	if !bytes.Equal(app.Features["heap"], []byte{1, 2, 3}) || !bytes.Equal(app.Features["cpu"], []byte{4, 5}) {
		t.Fatalf("Features = %v", app.Features)
	}
}

func TestProcessConnectionRejectsWrongVersion(t *testing.T) {
	client, server := net.Pipe()
	go func() {
		v := VersionMsg{Version: "v999"}
		_ = SendMessage(client, Message{ID: MessageVersion, Data: v.Encode()})
		client.Close()
	}()

	if _, err := ProcessConnection(server); err == nil {
		t.Fatal("expected error for unsupported protocol version")
	}
}

func TestWorkerProcessesEnqueuedConnection(t *testing.T) {
	storage, err := OpenStorage(t.TempDir(), true)
	if err != nil {
		t.Fatal(err)
	}
	w := NewWorker(storage, 4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	client, server := net.Pipe()
	info := AppInfo{AppName: "worked", Hash: 1, PID: 1}
	go sendSession(t, client, info, nil)

	if !w.Enqueue(ctx, server) {
		t.Fatal("Enqueue returned false before context was cancelled")
	}

	deadline := time.After(time.Second)
	for {
		found := false
		_ = storage.ForEach(func(a *AppData) bool {
			if a.Name == "worked" {
				found = true
			}
			return true
		})
		if found {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for worker to persist session")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
}

func TestWorkerEnqueueReturnsFalseAfterCancel(t *testing.T) {
	storage, err := OpenStorage(t.TempDir(), true)
	if err != nil {
		t.Fatal(err)
	}
	w := NewWorker(storage, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, server := net.Pipe()
	defer server.Close()
	if w.Enqueue(ctx, server) {
		t.Fatal("expected Enqueue to return false once context is cancelled")
	}
}
