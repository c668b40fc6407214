package http

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/speed/config"
	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/status"
	"github.com/indigo-web/speed/internal/protocol/http1"
	"github.com/indigo-web/speed/internal/server/tcp"
)

// OnError observes errors returned by the handler. It isn't able to alter the response.
type OnError func(request *http.Request, err error)

// Server drives the lifecycle of HTTP/1.x connections. It is safe to serve multiple
// connections concurrently, as the only shared state is read-only.
type Server struct {
	cfg     *config.Config
	handler http.Handler
	onError OnError
	logger  *slog.Logger
}

func NewServer(cfg *config.Config, handler http.Handler, onError OnError, logger *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		onError: onError,
		logger:  logger,
	}
}

// Serve processes requests coming from the client until the connection must be closed,
// and closes it.
func (s *Server) Serve(client tcp.Client) {
	c := s.newConn(client)
	c.logger.Debug("connection accepted")

	for c.HandleRequest() {
	}

	if err := client.Close(); err != nil {
		c.logger.Debug("failed to close the connection", "error", err)
	}

	c.logger.Debug("connection closed")
}

type conn struct {
	*Server
	client     tcp.Client
	logger     *slog.Logger
	parser     *http1.Parser
	serializer *http1.Serializer
	// data accumulates bytes of the request being parsed. Requests reference it, so
	// it's never reused; a fresh buffer is allocated for every request instead.
	data []byte
}

func (s *Server) newConn(client tcp.Client) *conn {
	return &conn{
		Server: s,
		client: client,
		logger: s.logger.With(
			slog.String("conn", uniuri.NewLen(8)),
			slog.Any("remote", client.Remote()),
		),
		parser:     http1.NewParser(s.cfg),
		serializer: http1.NewSerializer(s.cfg, make([]byte, 0, s.cfg.NET.ReadBufferSize)),
	}
}

// HandleRequest serves exactly one request. It returns false if the connection must be
// closed afterward.
func (c *conn) HandleRequest() (ok bool) {
	request, err := c.readRequest()
	switch {
	case err == nil:
	case errors.Is(err, errDisconnected):
		return false
	default:
		c.logger.Debug("bad request", "error", err)
		c.write(nil, http.NewResponse().Code(status.CodeOf(err, status.BadRequest)), true)
		return false
	}

	request.Remote = c.client.Remote()
	response, panicked := c.invoke(request)
	keepAlive := !panicked && c.cfg.NET.KeepAlive && http1.KeepAlive(request)

	return c.write(request, response, !keepAlive) && keepAlive
}

var errDisconnected = errors.New("client disconnected")

// readRequest reads from the client until a complete request is parsed or an error
// occurs. Any read error, including an expired deadline, results in errDisconnected.
func (c *conn) readRequest() (*http.Request, error) {
	var readErr error

	for {
		if len(c.data) > 0 {
			request, n, err := c.parser.Parse(c.data)
			switch err {
			case nil:
				// the request keeps referencing the old buffer
				c.data = slices.Clone(c.data[n:])
				return request, nil
			case http1.ErrIncomplete:
			default:
				return nil, err
			}
		}

		if readErr != nil {
			if len(c.data) > 0 {
				c.logger.Debug("disconnected mid-request", "error", readErr, "received", len(c.data))
			}

			return nil, fmt.Errorf("%w: %w", errDisconnected, readErr)
		}

		var data []byte
		// bytes returned along with an error are still parsed
		data, readErr = c.client.Read()
		c.data = append(c.data, data...)
	}
}

// invoke calls the handler, recovering from its panic.
func (c *conn) invoke(request *http.Request) (response *http.Response, panicked bool) {
	response = http.NewResponse()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("handler panicked",
				"panic", r,
				"method", request.Method.String(),
				"path", request.Path,
				"stack", string(debug.Stack()),
			)
			response, panicked = http.NewResponse().Error(status.ErrInternalServerError), true
		}
	}()

	_, resp, err := c.handler(request, response)
	if resp != nil {
		response = resp
	}

	if err != nil {
		c.logger.Error("handler returned an error",
			"error", err,
			"method", request.Method.String(),
			"path", request.Path,
		)

		if c.onError != nil {
			c.onError(request, err)
		}
	}

	return response, false
}

func (c *conn) write(request *http.Request, response *http.Response, closeConn bool) bool {
	if err := c.serializer.Write(c.client, request, response, closeConn); err != nil {
		c.logger.Warn("failed to write the response", "error", err)
		return false
	}

	return true
}
