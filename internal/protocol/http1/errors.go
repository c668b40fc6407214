package http1

import (
	"errors"

	"github.com/indigo-web/speed/http/status"
)

// ErrIncomplete isn't terminal: the data doesn't contain a whole request yet, so
// the caller must read more bytes and try again.
var ErrIncomplete = errors.New("request is incomplete")

// Terminal parse errors. Each one carries the status the client is answered with.
var (
	ErrMalformed          = status.NewError(status.BadRequest, "malformed request")
	ErrUnsupportedVersion = status.NewError(status.BadRequest, "unsupported protocol version")
	ErrInvalidHeader      = status.NewError(status.BadRequest, "invalid header line")
)
