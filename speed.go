package speed

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/indigo-web/speed/config"
	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/status"
	httpserver "github.com/indigo-web/speed/internal/server/http"
	"github.com/indigo-web/speed/internal/server/tcp"
)

// Mode defines how accepted connections are served. It's fixed at construction.
type Mode uint8

const (
	// SingleThread serves connections one by one, inline on the accepting goroutine.
	SingleThread Mode = iota + 1
	// MultiThread serves every connection on its own goroutine. The handler must be safe
	// for concurrent use then.
	MultiThread
)

func (m Mode) String() string {
	switch m {
	case SingleThread:
		return "single-thread"
	case MultiThread:
		return "multi-thread"
	default:
		return "unknown"
	}
}

// Server is a minimal HTTP/1.x server dispatching every request to a single handler.
type Server struct {
	mode    Mode
	addr    string
	handler http.Handler
	cfg     *config.Config
	logger  *slog.Logger
	onError httpserver.OnError

	mu      sync.Mutex
	tcp     *tcp.Server
	stopped bool
}

// New returns a new Server instance. The address isn't bound until Listen is called.
func New(mode Mode, addr string) *Server {
	if mode != SingleThread && mode != MultiThread {
		panic(fmt.Errorf("speed: unknown mode: %d", mode))
	}

	return &Server{
		mode:   mode,
		addr:   addr,
		cfg:    config.Default(),
		logger: slog.Default(),
	}
}

// InsertHandler registers the handler. Calling it again replaces the previous one.
// Without a handler, every request is answered with 404 Not Found.
func (s *Server) InsertHandler(handler http.Handler) *Server {
	s.handler = handler
	return s
}

// Tune replaces default config.
func (s *Server) Tune(cfg *config.Config) *Server {
	s.cfg = cfg
	return s
}

// Logger replaces the default slog logger.
func (s *Server) Logger(logger *slog.Logger) *Server {
	s.logger = logger
	return s
}

// OnHandlerError registers a callback, which is called every time the handler returns
// an error. The response is sent as is anyway.
func (s *Server) OnHandlerError(cb func(request *http.Request, err error)) *Server {
	s.onError = cb
	return s
}

// Listen binds the address and serves connections until Stop is called, in which
// case status.ErrShutdown is returned. The onReady callback, if passed, is called
// after the address is bound, but before the first connection is accepted.
func (s *Server) Listen(onReady func()) error {
	sock, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("speed: listen %s: %w", s.addr, err)
	}

	return s.serve(sock, onReady)
}

// Serve does the same as Listen, but over an already bound listener.
func (s *Server) Serve(sock net.Listener) error {
	return s.serve(sock, nil)
}

func (s *Server) serve(sock net.Listener, onReady func()) error {
	cfg := s.cfg
	handler := s.handler
	if handler == nil {
		handler = http.Respond
	}

	httpServer := httpserver.NewServer(cfg, handler, s.onError, s.logger)
	server := tcp.NewServer(limitListener(sock, s.mode, cfg.Server), func(conn net.Conn) {
		httpServer.Serve(newClient(cfg.NET, conn))
	}, s.logger)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		_ = sock.Close()
		return status.ErrShutdown
	}
	s.tcp = server
	s.mu.Unlock()

	s.logger.Info("listening",
		slog.String("addr", sock.Addr().String()),
		slog.String("mode", s.mode.String()),
	)

	if onReady != nil {
		onReady()
	}

	var err error
	switch s.mode {
	case SingleThread:
		err = server.SingleThread()
	case MultiThread:
		err = server.MultiThread()
	}

	s.logger.Info("stopped", slog.Any("reason", err))

	return err
}

// Addr returns the bound address, or nil if the server isn't listening yet. Useful
// when listening on port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tcp == nil {
		return nil
	}

	return s.tcp.Addr()
}

// Stop closes the listener and all the alive connections. Listen returns as soon as
// all the connections are done. Stopping a server, that didn't start yet, prevents it
// from starting.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.tcp == nil {
		return nil
	}

	return s.tcp.Stop()
}

// Shutdown closes the listener, but lets alive connections finish. Listen returns
// once the last of them is closed. Like Stop, it prevents a server that didn't start
// yet from starting.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.tcp == nil {
		return nil
	}

	return s.tcp.GracefulShutdown()
}
