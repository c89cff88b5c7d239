package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/avalon-vm/panda"
	"github.com/avalon-vm/panda/dprof"
	"github.com/avalon-vm/panda/pandargs"
)

func main() {
	parser := pandargs.NewParser()
	storageDir := pandargs.NewString("storage-dir", "", "directory completed profiling sessions are written to")
	listenPath := pandargs.NewString("listen", "/tmp/pandaprofd.sock", "unix socket path to accept client connections on")
	logLevel := pandargs.NewString("log-level", "info", "log level: debug, info, warn, error")
	parser.Add(storageDir)
	parser.Add(listenPath)
	parser.Add(logLevel)

	if !parser.Parse(os.Args[1:]) {
		fmt.Fprintln(os.Stderr, parser.ErrorString())
		help(parser)
		os.Exit(1)
	}
	if storageDir.Value().Str == "" {
		fmt.Fprintln(os.Stderr, "pandaprofd: option \"storage-dir\" is not set")
		help(parser)
		os.Exit(1)
	}

	logger, err := newLeveledLogger(logLevel.Value().Str)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pandaprofd: %v\n", err)
		os.Exit(1)
	}

	storage, err := dprof.OpenStorage(storageDir.Value().Str, true)
	if err != nil {
		logger.Errorf("pandaprofd: cannot init storage: %v", err)
		os.Exit(1)
	}

	sockPath := listenPath.Value().Str
	_ = os.Remove(sockPath)
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		logger.Errorf("pandaprofd: cannot create socket: %v", err)
		os.Exit(1)
	}
	defer os.Remove(sockPath)

	daemon := dprof.NewDaemon(ln, storage, logger)
	if err := daemon.Run(context.Background()); err != nil {
		logger.Errorf("pandaprofd: %v", err)
		os.Exit(1)
	}
}

func help(p *pandargs.Parser) {
	fmt.Fprintln(os.Stderr, "Usage: pandaprofd [OPTIONS]")
	fmt.Fprintln(os.Stderr, "optional arguments:")
	fmt.Fprint(os.Stderr, p.HelpString())
}

// levelLogger wraps panda.Logger, dropping Debugf/Infof/Warnf calls below
// the configured threshold; Errorf always passes (original_source's
// Logger::InitializeStdLogging
// takes the equivalent level from GetLogLevel()).
type levelLogger struct {
	panda.Logger
	level int
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

func newLeveledLogger(name string) (panda.Logger, error) {
	var level int
	switch name {
	case "debug":
		level = levelDebug
	case "info":
		level = levelInfo
	case "warn":
		level = levelWarn
	case "error":
		level = levelError
	default:
		return nil, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", name)
	}
	return levelLogger{Logger: panda.NewStdLogger(nil), level: level}, nil
}

func (l levelLogger) Debugf(format string, args ...interface{}) {
	if l.level <= levelDebug {
		l.Logger.Debugf(format, args...)
	}
}

func (l levelLogger) Infof(format string, args ...interface{}) {
	if l.level <= levelInfo {
		l.Logger.Infof(format, args...)
	}
}

func (l levelLogger) Warnf(format string, args ...interface{}) {
	if l.level <= levelWarn {
		l.Logger.Warnf(format, args...)
	}
}
