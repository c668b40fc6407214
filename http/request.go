package http

import (
	"context"
	"net"

	"github.com/indigo-web/speed/http/headers"
	"github.com/indigo-web/speed/http/method"
	"github.com/indigo-web/speed/http/proto"
)

// Request represents a parsed HTTP request. It holds only what was received over
// the wire; any derived data (query parameters, decoded bodies, etc.) is computed
// by free functions operating on the request, see packages query and decode.
type Request struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the request target exactly as it was received, including the query.
	Path string
	// Proto is the protocol version the request was made with.
	Proto proto.Proto
	// Headers holds the header pairs. Lookup is case-insensitive, one value per name.
	Headers *headers.Headers
	// Body holds the whole request body. It is empty if neither Content-Length nor
	// chunked Transfer-Encoding were presented.
	Body []byte
	// ContentLength obtains the value from Content-Length header. It holds the value of 0
	// if isn't presented. For chunked requests it equals the decoded body length.
	ContentLength int
	// Chunked tells whether the body was transferred using chunked encoding.
	Chunked bool
	// Remote holds the remote address. Please note that this is generally not a good
	// parameter to identify a user, because there might be proxies in the middle.
	Remote net.Addr
	// Ctx is a user-managed context, an open slot for extensions to attach their values
	// via context.WithValue. Lives as long as the request does.
	Ctx context.Context
}

func NewRequest() *Request {
	return &Request{
		Method:  method.Unknown,
		Proto:   proto.HTTP11,
		Headers: headers.New(),
		Ctx:     context.Background(),
	}
}

// WithValue attaches a value to the request context. This is the way extensions
// carry computed data along with the request.
func (r *Request) WithValue(key, value any) *Request {
	r.Ctx = context.WithValue(r.Ctx, key, value)
	return r
}

// Value returns a value previously attached via WithValue.
func (r *Request) Value(key any) any {
	return r.Ctx.Value(key)
}
