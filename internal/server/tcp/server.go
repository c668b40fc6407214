package tcp

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indigo-web/speed/http/status"
)

type OnConnection func(net.Conn)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server runs the accept loop. Connections are served either inline, one at a time, or
// each on its own goroutine.
type Server struct {
	sock     net.Listener
	onConn   OnConnection
	logger   *slog.Logger
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
	shutdown atomic.Bool
}

func NewServer(sock net.Listener, onConn OnConnection, logger *slog.Logger) *Server {
	return &Server{
		sock:   sock,
		onConn: onConn,
		logger: logger,
		conns:  map[net.Conn]struct{}{},
	}
}

// SingleThread serves every accepted connection inline, so the next one is accepted
// only after the previous one is closed.
func (s *Server) SingleThread() error {
	return s.loop(func(conn net.Conn) {
		s.serve(conn)
	})
}

// MultiThread serves every accepted connection on its own goroutine. The number of
// simultaneously served connections is bounded only by the listener.
func (s *Server) MultiThread() error {
	return s.loop(func(conn net.Conn) {
		s.wg.Add(1)
		go func() {
			s.serve(conn)
			s.wg.Done()
		}()
	})
}

func (s *Server) loop(dispatch func(net.Conn)) error {
	var delay time.Duration

	for {
		conn, err := s.sock.Accept()
		if err != nil {
			if s.shutdown.Load() {
				s.wg.Wait()
				return status.ErrShutdown
			}

			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return err
			}

			// the listener is still alive, so the error is temporary. Most likely, the
			// file descriptors limit is exhausted
			delay = min(max(2*delay, minAcceptDelay), maxAcceptDelay)
			s.logger.Warn("accept failed", "error", err, "retry_in", delay)
			time.Sleep(delay)

			continue
		}

		delay = 0
		s.track(conn)
		dispatch(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	s.onConn(conn)
	s.untrack(conn)
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Addr returns the address the listener is bound to.
func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}

func (s *Server) stopListener() error {
	s.shutdown.Store(true)

	return s.sock.Close()
}

// Stop shuts listener and ALL the connections down
func (s *Server) Stop() error {
	if err := s.stopListener(); err != nil {
		return err
	}

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// GracefulShutdown stops a listener, but leaving all the connections free to end their
// lives peacefully
func (s *Server) GracefulShutdown() error {
	return s.stopListener()
}
