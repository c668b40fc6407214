package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/indigo-web/speed"
	"github.com/indigo-web/speed/config"
	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/status"
)

var (
	addr      = flag.String("addr", "127.0.0.1:8080", "address to listen on")
	multi     = flag.Bool("multi", false, "serve every connection on its own goroutine")
	workers   = flag.Int("workers", 0, "maximal number of simultaneously served connections in multi mode, 0 is unlimited")
	keepAlive = flag.Bool("keepalive", false, "serve multiple requests over a single connection")
	debug     = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mode := speed.SingleThread
	if *multi {
		mode = speed.MultiThread
	}

	cfg := config.Default()
	cfg.Server.MaxWorkers = *workers
	cfg.NET.KeepAlive = *keepAlive
	cfg.Headers.Default["Server"] = "speed-echo"

	server := speed.New(mode, *addr).
		Tune(cfg).
		Logger(logger).
		InsertHandler(Echo).
		OnHandlerError(func(request *http.Request, err error) {
			logger.Warn("responded with an error",
				"path", request.Path,
				"code", status.CodeOf(err, status.InternalServerError),
			)
		})

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals

		if err := server.Shutdown(); err != nil {
			logger.Error("failed to stop", "error", err)
		}
	}()

	err := server.Listen(func() {
		logger.Info("ready", "addr", server.Addr().String())
	})
	if err != nil && !errors.Is(err, status.ErrShutdown) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
