package dprof

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/avalon-vm/panda"
)

// ErrUnsupportedVersion is returned when a client's handshake declares a
// protocol version this daemon does not speak (daemon/main.cpp's
// CheckVersion).
var ErrUnsupportedVersion = errors.New("dprof: unsupported protocol version")

// ErrUnexpectedMessage is returned when a frame arrives out of the
// version -> app info -> feature-data* sequence.
var ErrUnexpectedMessage = errors.New("dprof: unexpected message in handshake sequence")

// ProcessConnection runs one session's handshake to completion: a version
// frame, an app-info frame, then zero or more feature-data frames until the
// peer closes the connection. It mirrors daemon/main.cpp's
// ProcessingConnect, replacing its raw socket reads with RecvMessage.
func ProcessConnection(conn net.Conn) (*AppData, error) {
	versionMsg, err := RecvMessage(conn, DefaultRecvTimeout)
	if err != nil {
		return nil, fmt.Errorf("dprof: recv version: %w", err)
	}
	if versionMsg.ID != MessageVersion {
		return nil, ErrUnexpectedMessage
	}
	version, err := DecodeVersionMsg(versionMsg.Data)
	if err != nil {
		return nil, fmt.Errorf("dprof: decode version: %w", err)
	}
	if version.Version != ProtocolVersion {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrUnsupportedVersion, version.Version, ProtocolVersion)
	}

	appInfoMsg, err := RecvMessage(conn, DefaultRecvTimeout)
	if err != nil {
		return nil, fmt.Errorf("dprof: recv app info: %w", err)
	}
	if appInfoMsg.ID != MessageAppInfo {
		return nil, ErrUnexpectedMessage
	}
	appInfo, err := DecodeAppInfo(appInfoMsg.Data)
	if err != nil {
		return nil, fmt.Errorf("dprof: decode app info: %w", err)
	}

	features := make(map[string][]byte)
	for {
		msg, err := RecvMessage(conn, DefaultRecvTimeout)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("dprof: recv feature data: %w", err)
		}
		if msg.ID != MessageFeatureData {
			return nil, ErrUnexpectedMessage
		}
		fd, err := DecodeFeatureData(msg.Data)
		if err != nil {
			return nil, fmt.Errorf("dprof: decode feature data: %w", err)
		}
		features[fd.Name] = fd.Data
	}

	return NewAppData(appInfo.AppName, appInfo.Hash, appInfo.PID, features), nil
}

// Worker drains a bounded queue of accepted connections, processing each
// to completion and persisting the result. Unlike daemon/main.cpp's Worker
// (a mutex+condvar-guarded queue drained by a pool of std::thread workers
// and stopped via an explicit Stop() call), shutdown here is driven
// entirely by context cancellation: Enqueue and Run both select on
// ctx.Done(), so there is no separate stop flag or channel-close race to
// guard against.
type Worker struct {
	conns   chan net.Conn
	storage *AppDataStorage
	logger  panda.Logger
}

// NewWorker creates a Worker that saves completed sessions to storage and
// accepts up to queueSize pending connections before Enqueue blocks. A nil
// logger discards all messages.
func NewWorker(storage *AppDataStorage, queueSize int, logger panda.Logger) *Worker {
	if logger == nil {
		logger = panda.NopLogger()
	}
	return &Worker{
		conns:   make(chan net.Conn, queueSize),
		storage: storage,
		logger:  logger,
	}
}

// Enqueue hands conn to the worker, blocking until there is queue room or
// ctx is done. It returns false if ctx was cancelled before the connection
// could be accepted, in which case the caller owns closing conn.
func (w *Worker) Enqueue(ctx context.Context, conn net.Conn) bool {
	select {
	case w.conns <- conn:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run drains the queue until ctx is cancelled, at which point it finishes
// any connection already being processed and returns without draining the
// rest of the queue.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case conn := <-w.conns:
			w.process(conn)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) process(conn net.Conn) {
	defer conn.Close()

	app, err := ProcessConnection(conn)
	if err != nil {
		w.logger.Errorf("dprof: session from %s failed: %v", conn.RemoteAddr(), err)
		return
	}
	if err := w.storage.Save(app); err != nil {
		w.logger.Errorf("dprof: saving app data for %s failed: %v", app.Name, err)
	}
}
