package http1

import (
	"slices"
	"strconv"
	"strings"

	"github.com/indigo-web/speed/config"
	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/headers"
	"github.com/indigo-web/speed/http/method"
	"github.com/indigo-web/speed/http/mime"
	"github.com/indigo-web/speed/http/proto"
	"github.com/indigo-web/speed/internal/response"
	"github.com/indigo-web/utils/strcomp"
)

const crlf = "\r\n"

// Writer is where serialized responses go. Usually, it's a tcp.Client.
type Writer interface {
	Write([]byte) error
}

// Serializer renders responses into their wire representation. A single instance
// belongs to a single connection, as it reuses its internal buffer.
type Serializer struct {
	buff           []byte
	defaultHeaders []headers.Header
}

func NewSerializer(cfg *config.Config, buff []byte) *Serializer {
	return &Serializer{
		buff:           buff[:0],
		defaultHeaders: preprocessDefaultHeaders(cfg.Headers.Default),
	}
}

// Write serializes the response and writes it at once. The request is used to pick the
// protocol version and to find out, whether the body must be omitted. It may be nil,
// in case the request wasn't parsed; HTTP/1.1 is used then.
func (s *Serializer) Write(w Writer, request *http.Request, response *http.Response, closeConn bool) error {
	s.buff = s.Append(s.buff[:0], request, response, closeConn)
	return w.Write(s.buff)
}

// Append appends the serialized response to buff and returns the extended buffer.
func (s *Serializer) Append(buff []byte, request *http.Request, response *http.Response, closeConn bool) []byte {
	fields := response.Reveal()
	protocol, isHead := proto.HTTP11, false
	if request != nil {
		isHead = request.Method == method.HEAD
		if request.Proto != proto.Unknown {
			protocol = request.Proto
		}
	}

	buff = appendStatusLine(buff, protocol, fields)
	_, lengthSet := response.ContentLength()

	for key, value := range fields.Headers.Iter() {
		if !lengthSet && strcomp.EqualFold(key, "Content-Length") {
			// invalid value is replaced by the actual body length
			continue
		}

		buff = appendHeader(buff, key, value)
	}

	for _, header := range s.defaultHeaders {
		if !fields.Headers.Has(header.Key) {
			buff = appendHeader(buff, header.Key, header.Value)
		}
	}

	if !fields.Headers.Has("Content-Type") {
		buff = appendHeader(buff, "Content-Type", mime.OctetStream)
	}

	if !lengthSet {
		buff = append(buff, "Content-Length: "...)
		buff = strconv.AppendInt(buff, int64(len(fields.Body)), 10)
		buff = append(buff, crlf...)
	}

	if closeConn && !hasToken(fields.Headers.Value("Connection"), "close") {
		buff = appendHeader(buff, "Connection", "close")
	}

	buff = append(buff, crlf...)

	if !isHead {
		buff = append(buff, fields.Body...)
	}

	return buff
}

func appendStatusLine(buff []byte, protocol proto.Proto, fields *response.Fields) []byte {
	buff = append(buff, protocol.String()...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(fields.Status.Code()), 10)
	buff = append(buff, ' ')
	buff = append(buff, fields.Status.Reason()...)

	return append(buff, crlf...)
}

func appendHeader(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, ':', ' ')
	buff = append(buff, value...)

	return append(buff, crlf...)
}

// preprocessDefaultHeaders fixes the order of default headers, so equal responses
// are always serialized byte-identically.
func preprocessDefaultHeaders(defaults map[string]string) []headers.Header {
	processed := make([]headers.Header, 0, len(defaults))
	for key, value := range defaults {
		processed = append(processed, headers.Header{Key: key, Value: value})
	}

	slices.SortFunc(processed, func(a, b headers.Header) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		default:
			return 0
		}
	})

	return processed
}

// hasToken reports whether a comma-separated header value contains the token.
func hasToken(value, token string) bool {
	for len(value) > 0 {
		var elem string
		elem, value, _ = strings.Cut(value, ",")
		if strcomp.EqualFold(strings.TrimSpace(elem), token) {
			return true
		}
	}

	return false
}

// KeepAlive reports whether the connection may serve another request after this one.
// HTTP/1.1 connections are persistent unless the client asks otherwise, HTTP/1.0 ones
// are persistent only if the client explicitly asks for it.
func KeepAlive(request *http.Request) bool {
	conn := request.Headers.Value("Connection")

	switch request.Proto {
	case proto.HTTP11:
		return !hasToken(conn, "close")
	case proto.HTTP10:
		return hasToken(conn, "keep-alive")
	default:
		return false
	}
}
