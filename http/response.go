package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/indigo-web/speed/http/headers"
	"github.com/indigo-web/speed/http/mime"
	"github.com/indigo-web/speed/http/status"
	"github.com/indigo-web/speed/internal/response"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// why 7? I don't know. There's no theory behind this number nor researches.
const preallocRespHeaders = 7

// Response is a builder filled by the handler. It is created fresh for every request
// and is owned by the handler until it returns.
type Response struct {
	fields *response.Fields
}

// NewResponse returns a new instance of the Response object with status code set to
// 404 Not Found and pre-allocated space for response headers. Handlers are expected
// to set the status explicitly.
func NewResponse() *Response {
	return &Response{
		&response.Fields{
			Status:  response.DefaultStatus,
			Headers: headers.NewPrealloc(preallocRespHeaders),
		},
	}
}

// Code sets a response status code with its registered reason phrase. A code out of
// range 100-599 results in 500 Internal Server Error.
func (r *Response) Code(code status.Code) *Response {
	s, err := status.New(code, "")
	if err != nil {
		s = status.FromCode(status.InternalServerError)
	}

	return r.Status(s)
}

// Status sets the status with a custom reason phrase. Reason phrases are usually
// ignored by clients, so there's no real reason to use this except some rare cases.
func (r *Response) Status(s status.Status) *Response {
	if !s.IsZero() {
		r.fields.Status = s
	}

	return r
}

// Header sets the header value. A value already set by the same (case-insensitive)
// key is overwritten. Line breaks are replaced by spaces in the value and dropped
// from the key, so a header can never span multiple lines on the wire.
func (r *Response) Header(key, value string) *Response {
	r.fields.Headers.Set(strings.TrimSpace(stripLineBreaks(key)), stripLineBreaks(value))
	return r
}

func stripLineBreaks(str string) string {
	if !strings.ContainsAny(str, "\r\n") {
		return str
	}

	str = strings.ReplaceAll(str, "\r\n", " ")
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}

		return r
	}, str)
}

// ContentType is a shorthand for setting the Content-Type header.
func (r *Response) ContentType(value string) *Response {
	return r.Header("Content-Type", value)
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Write implements io.Writer interface, appending to the body. It always returns
// n=len(b) and err=nil
func (r *Response) Write(b []byte) (n int, err error) {
	r.fields.Body = append(r.fields.Body, b...)
	return len(b), nil
}

// TryJSON receives a model and serializes it into the body, setting the Content-Type
// to application/json
func (r *Response) TryJSON(model any) (*Response, error) {
	// the body may alias a string passed via String(), so it must never be written in place
	r.fields.Body = nil
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)

	return r.ContentType(mime.JSON), err
}

// JSON does the same as TryJSON does, except returned error is being implicitly wrapped
// by Error
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error fills the response from the error. If an instance of status.HTTPError is passed,
// its code is used and the message becomes the body. Otherwise, 500 Internal Server Error
// is set with the error text as body. Nil error leaves the response untouched.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	code := status.InternalServerError
	var httpErr status.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}

	return r.
		Code(code).
		ContentType(mime.Plain).
		String(err.Error())
}

// Reveal returns a struct with values, filled by builder. Used mostly in internal purposes
func (r *Response) Reveal() *response.Fields {
	return r.fields
}

// Clear discards everything was done with Response object before
func (r *Response) Clear() *Response {
	r.fields.Clear()
	return r
}

// ContentLength returns an explicitly set Content-Length, if any.
func (r *Response) ContentLength() (length int, set bool) {
	value, found := r.fields.Headers.Get("Content-Length")
	if !found {
		return 0, false
	}

	length, err := strconv.Atoi(value)
	return length, err == nil && length >= 0
}
