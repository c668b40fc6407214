package config

import "time"

type (
	Headers struct {
		// MaxNumber limits how many header lines a single request may carry.
		MaxNumber int
		// MaxSpace limits the size of the request line and the header block together,
		// in bytes, including line terminators.
		MaxSpace int
		// Default headers are included into every response implicitly, unless explicitly
		// overridden by the handler.
		Default map[string]string `test:"nullable"`
	}

	Body struct {
		// MaxSize describes the maximal size of a body, that can be processed. Bigger
		// declared or decoded bodies are rejected with 413 Request Entity Too Large.
		MaxSize int
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout is set as a deadline before every read from the socket. A client
		// stalled for longer is disconnected without a response. Zero disables it.
		ReadTimeout time.Duration
		// WriteTimeout bounds writing a single response. Zero disables it.
		WriteTimeout time.Duration `test:"nullable"`
		// KeepAlive enables serving multiple sequential requests over a single connection.
		// When disabled, every connection serves exactly one request and every response
		// carries Connection: close.
		KeepAlive bool `test:"nullable"`
	}

	Server struct {
		// MaxWorkers bounds the number of connections served simultaneously in the
		// multi-threaded mode. Zero means unbounded, spawning a goroutine per connection.
		MaxWorkers int `test:"nullable"`
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Headers Headers
	Body    Body
	NET     NET
	Server  Server
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		Headers: Headers{
			MaxNumber: 100,
			// most web-entities limit request line and headers to 8-16kb, except some
			// cookie-heavy cases.
			MaxSpace: 64 * 1024,
			Default:  make(map[string]string),
		},
		Body: Body{
			MaxSize: 64 * 1024 * 1024,
		},
		NET: NET{
			ReadBufferSize: 4 * 1024,
			ReadTimeout:    90 * time.Second,
		},
	}
}
