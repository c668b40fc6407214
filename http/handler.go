package http

// Handler is the only extension point of the server. It receives exclusive ownership
// of the request and a fresh response, and must hand both back. A non-nil error
// doesn't cancel the response: the returned one is still written to the client as
// is, so the handler is expected to set an appropriate status (e.g. 500) before
// returning the error. The error itself never reaches the wire.
//
// In the multi-threaded mode the handler is called concurrently, so any state it
// closes over must be either read-only or synchronized.
type Handler func(request *Request, response *Response) (*Request, *Response, error)

// Respond is a dummy handler. It hands the response back untouched, so the client gets
// 404 Not Found with an empty body.
func Respond(request *Request, response *Response) (*Request, *Response, error) {
	return request, response, nil
}
