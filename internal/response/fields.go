package response

import (
	"github.com/indigo-web/speed/http/headers"
	"github.com/indigo-web/speed/http/status"
)

// DefaultStatus is the status of a response the handler never set one for.
var DefaultStatus = status.FromCode(status.NotFound)

// Fields holds everything a response builder collected. The serializer consumes it
// as is.
type Fields struct {
	Status  status.Status
	Headers *headers.Headers
	Body    []byte
}

func (f *Fields) Clear() {
	f.Status = DefaultStatus
	f.Headers.Clear()
	f.Body = nil
}
