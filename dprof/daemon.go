package dprof

import (
	"context"
	"fmt"
	"net"
	"os/signal"

	"github.com/avalon-vm/panda"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// DefaultQueueSize bounds how many accepted connections may wait for a
// free worker slot before Accept blocks.
const DefaultQueueSize = 64

// Daemon accepts profiling-client connections on a listener and hands
// each to a Worker, grounded on daemon/main.cpp's Main: set up signal
// handling, start the worker, then loop accepting connections until
// asked to stop. SIGINT/SIGHUP/SIGTERM (SetupSignals' signal set) trigger
// graceful shutdown via context cancellation rather than the original's
// signal-handler-sets-a-flag approach.
type Daemon struct {
	ln      net.Listener
	worker  *Worker
	storage *AppDataStorage
	logger  panda.Logger
}

// NewDaemon creates a Daemon serving ln, persisting completed sessions to
// storage. A nil logger discards all messages.
func NewDaemon(ln net.Listener, storage *AppDataStorage, logger panda.Logger) *Daemon {
	if logger == nil {
		logger = panda.NopLogger()
	}
	return &Daemon{
		ln:      ln,
		worker:  NewWorker(storage, DefaultQueueSize, logger),
		storage: storage,
		logger:  logger,
	}
}

// Run serves connections until ctx is cancelled or SIGINT/SIGHUP/SIGTERM
// is received, whichever happens first. It always returns after a clean
// shutdown; the listener is closed before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, unix.SIGINT, unix.SIGHUP, unix.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		d.worker.Run(ctx)
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		return d.ln.Close()
	})

	group.Go(func() error {
		d.logger.Infof("dprof: daemon is ready for connections on %s", d.ln.Addr())
		for {
			conn, err := d.ln.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
					return fmt.Errorf("dprof: accept: %w", err)
				}
			}
			if !d.worker.Enqueue(ctx, conn) {
				conn.Close()
			}
		}
	})

	err := group.Wait()
	d.logger.Infof("dprof: daemon stopped")
	return err
}
