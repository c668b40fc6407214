package httptest

import (
	"strconv"

	"github.com/indigo-web/speed/http"
)

// Dump renders the request the way a client would put it on the wire. Content-Length
// is added when the request carries a body and doesn't define the header itself.
func Dump(request *http.Request) []byte {
	var buff []byte

	buff = append(buff, request.Method.String()...)
	buff = space(buff)
	buff = append(buff, request.Path...)
	buff = space(buff)
	buff = append(buff, request.Proto.String()...)
	buff = crlf(buff)

	for key, value := range request.Headers.Iter() {
		buff = header(buff, key, value)
	}

	if len(request.Body) > 0 && !request.Headers.Has("Content-Length") {
		buff = header(buff, "Content-Length", strconv.Itoa(len(request.Body)))
	}

	buff = crlf(buff)

	return append(buff, request.Body...)
}

// DumpChunked does the same as Dump, but transfers the body in chunks of the given size.
func DumpChunked(request *http.Request, chunkSize int) []byte {
	clone := *request
	clone.Headers = request.Headers.Clone().
		Delete("Content-Length").
		Set("Transfer-Encoding", "chunked")
	clone.Body = nil
	buff := Dump(&clone)

	for body := request.Body; len(body) > 0; {
		chunk := body[:min(chunkSize, len(body))]
		body = body[len(chunk):]
		buff = strconv.AppendInt(buff, int64(len(chunk)), 16)
		buff = crlf(buff)
		buff = append(buff, chunk...)
		buff = crlf(buff)
	}

	return append(buff, "0\r\n\r\n"...)
}

func space(b []byte) []byte {
	return append(b, ' ')
}

func crlf(b []byte) []byte {
	return append(b, '\r', '\n')
}

func header(b []byte, key, value string) []byte {
	b = append(b, key...)
	b = colonsp(b)
	b = append(b, value...)

	return crlf(b)
}

func colonsp(b []byte) []byte {
	return append(b, ':', ' ')
}
