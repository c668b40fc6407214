package status

import "errors"

// HTTPError is an error carrying the status code it must be answered with.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf extracts the status code of an HTTPError, or returns fallback for any other error.
func CodeOf(err error, fallback Code) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return fallback
}

var (
	ErrInvalidCode   = errors.New("status code must be in range 100-599")
	ErrInvalidReason = errors.New("reason phrase must not contain line breaks")
	ErrShutdown      = errors.New("server has been shut down")

	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders       = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
	ErrBadQuery             = NewError(BadRequest, "bad URI params")
	ErrURLDecoding          = NewError(BadRequest, "invalid urlencoded sequence")
	ErrUnsupportedMediaType = NewError(UnsupportedMediaType, "unsupported media type")
)
