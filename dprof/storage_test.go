package dprof

import (
	"bytes"
	"testing"
)

func TestAppDataToBufferRoundTrip(t *testing.T) {
	in := NewAppData("myapp", 0xCAFE, 1234, map[string][]byte{
		"heap":  {1, 2, 3},
		"stack": {4, 5},
	})

	out, err := AppDataFromBuffer(in.ToBuffer())
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != in.Name || out.Hash != in.Hash || out.PID != in.PID {
		t.Fatalf("got %+v, want %+v", out, in)
	}
	if len(out.Features) != len(in.Features) {
		t.Fatalf("Features = %v, want %v", out.Features, in.Features)
	}
	for name, data := range in.Features {
		if !bytes.Equal(out.Features[name], data) {
			t.Fatalf("feature %q = %v, want %v", name, out.Features[name], data)
		}
	}
}

func TestAppDataFromBufferRejectsResidualBytes(t *testing.T) {
	buf := NewAppData("a", 1, 1, nil).ToBuffer()
	buf = append(buf, 0xFF)
	if _, err := AppDataFromBuffer(buf); err == nil {
		t.Fatal("expected error on residual trailing byte")
	}
}

func TestOpenStorageRequiresDir(t *testing.T) {
	if _, err := OpenStorage("", true); err != ErrStorageDirRequired {
		t.Fatalf("err = %v, want ErrStorageDirRequired", err)
	}
}

func TestOpenStorageCreatesMissingDir(t *testing.T) {
	dir := t.TempDir() + "/sessions"
	if _, err := OpenStorage(dir, true); err != nil {
		t.Fatal(err)
	}
}

func TestOpenStorageFailsWhenCreateDirFalseAndMissing(t *testing.T) {
	dir := t.TempDir() + "/missing"
	if _, err := OpenStorage(dir, false); err == nil {
		t.Fatal("expected error: directory does not exist and createDir is false")
	}
}

func TestAppDataStorageSaveAndForEach(t *testing.T) {
	storage, err := OpenStorage(t.TempDir(), true)
	if err != nil {
		t.Fatal(err)
	}

	want := []*AppData{
		NewAppData("alpha", 1, 100, map[string][]byte{"f": {1}}),
		NewAppData("beta", 2, 200, map[string][]byte{"g": {2}}),
	}
	for _, a := range want {
		if err := storage.Save(a); err != nil {
			t.Fatal(err)
		}
	}

	seen := make(map[string]bool)
	if err := storage.ForEach(func(a *AppData) bool {
		seen[a.Name] = true
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if !seen["alpha"] || !seen["beta"] {
		t.Fatalf("seen = %v, want alpha and beta", seen)
	}
}

func TestAppDataStorageForEachStopsEarly(t *testing.T) {
	storage, err := OpenStorage(t.TempDir(), true)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "b", "c"} {
		if err := storage.Save(NewAppData(name, 1, 1, nil)); err != nil {
			t.Fatal(err)
		}
	}

	count := 0
	if err := storage.ForEach(func(*AppData) bool {
		count++
		return false
	}); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
