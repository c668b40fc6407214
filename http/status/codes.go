package status

type Code uint16

// HTTP status codes as registered with IANA.
// See: https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml
const (
	Continue           Code = 100 // RFC 9110, 15.2.1
	SwitchingProtocols Code = 101 // RFC 9110, 15.2.2
	Processing         Code = 102 // RFC 2518, 10.1
	EarlyHints         Code = 103 // RFC 8297

	OK                   Code = 200 // RFC 9110, 15.3.1
	Created              Code = 201 // RFC 9110, 15.3.2
	Accepted             Code = 202 // RFC 9110, 15.3.3
	NonAuthoritativeInfo Code = 203 // RFC 9110, 15.3.4
	NoContent            Code = 204 // RFC 9110, 15.3.5
	ResetContent         Code = 205 // RFC 9110, 15.3.6
	PartialContent       Code = 206 // RFC 9110, 15.3.7

	MultipleChoices   Code = 300 // RFC 9110, 15.4.1
	MovedPermanently  Code = 301 // RFC 9110, 15.4.2
	Found             Code = 302 // RFC 9110, 15.4.3
	SeeOther          Code = 303 // RFC 9110, 15.4.4
	NotModified       Code = 304 // RFC 9110, 15.4.5
	TemporaryRedirect Code = 307 // RFC 9110, 15.4.8
	PermanentRedirect Code = 308 // RFC 9110, 15.4.9

	BadRequest                  Code = 400 // RFC 9110, 15.5.1
	Unauthorized                Code = 401 // RFC 9110, 15.5.2
	Forbidden                   Code = 403 // RFC 9110, 15.5.4
	NotFound                    Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed            Code = 405 // RFC 9110, 15.5.6
	NotAcceptable               Code = 406 // RFC 9110, 15.5.7
	RequestTimeout              Code = 408 // RFC 9110, 15.5.9
	Conflict                    Code = 409 // RFC 9110, 15.5.10
	Gone                        Code = 410 // RFC 9110, 15.5.11
	LengthRequired              Code = 411 // RFC 9110, 15.5.12
	PreconditionFailed          Code = 412 // RFC 9110, 15.5.13
	RequestEntityTooLarge       Code = 413 // RFC 9110, 15.5.14
	RequestURITooLong           Code = 414 // RFC 9110, 15.5.15
	UnsupportedMediaType        Code = 415 // RFC 9110, 15.5.16
	ExpectationFailed           Code = 417 // RFC 9110, 15.5.18
	Teapot                      Code = 418 // RFC 9110, 15.5.19 (Unused)
	UnprocessableEntity         Code = 422 // RFC 9110, 15.5.21
	UpgradeRequired             Code = 426 // RFC 9110, 15.5.22
	TooManyRequests             Code = 429 // RFC 6585, 4
	RequestHeaderFieldsTooLarge Code = 431 // RFC 6585, 5

	InternalServerError     Code = 500 // RFC 9110, 15.6.1
	NotImplemented          Code = 501 // RFC 9110, 15.6.2
	BadGateway              Code = 502 // RFC 9110, 15.6.3
	ServiceUnavailable      Code = 503 // RFC 9110, 15.6.4
	GatewayTimeout          Code = 504 // RFC 9110, 15.6.5
	HTTPVersionNotSupported Code = 505 // RFC 9110, 15.6.6
)

const (
	// MinCode and MaxCode bound the codes a Status may carry.
	MinCode Code = 100
	MaxCode Code = 599

	unknownText = "Unknown Status Code"
)

var texts = [MaxCode + 1]string{
	Continue:           "Continue",
	SwitchingProtocols: "Switching Protocols",
	Processing:         "Processing",
	EarlyHints:         "Early Hints",

	OK:                   "OK",
	Created:              "Created",
	Accepted:             "Accepted",
	NonAuthoritativeInfo: "Non-Authoritative Information",
	NoContent:            "No Content",
	ResetContent:         "Reset Content",
	PartialContent:       "Partial Content",

	MultipleChoices:   "Multiple Choices",
	MovedPermanently:  "Moved Permanently",
	Found:             "Found",
	SeeOther:          "See Other",
	NotModified:       "Not Modified",
	TemporaryRedirect: "Temporary Redirect",
	PermanentRedirect: "Permanent Redirect",

	BadRequest:                  "Bad Request",
	Unauthorized:                "Unauthorized",
	Forbidden:                   "Forbidden",
	NotFound:                    "Not Found",
	MethodNotAllowed:            "Method Not Allowed",
	NotAcceptable:               "Not Acceptable",
	RequestTimeout:              "Request Timeout",
	Conflict:                    "Conflict",
	Gone:                        "Gone",
	LengthRequired:              "Length Required",
	PreconditionFailed:          "Precondition Failed",
	RequestEntityTooLarge:       "Request Entity Too Large",
	RequestURITooLong:           "Request URI Too Long",
	UnsupportedMediaType:        "Unsupported Media Type",
	ExpectationFailed:           "Expectation Failed",
	Teapot:                      "I'm a teapot",
	UnprocessableEntity:         "Unprocessable Entity",
	UpgradeRequired:             "Upgrade Required",
	TooManyRequests:             "Too Many Requests",
	RequestHeaderFieldsTooLarge: "Request Header Fields Too Large",

	InternalServerError:     "Internal Server Error",
	NotImplemented:          "Not Implemented",
	BadGateway:              "Bad Gateway",
	ServiceUnavailable:      "Service Unavailable",
	GatewayTimeout:          "Gateway Timeout",
	HTTPVersionNotSupported: "HTTP Version Not Supported",
}

// KnownCodes lists every code having a registered reason phrase.
var KnownCodes = func() (codes []Code) {
	for code, text := range texts {
		if len(text) > 0 {
			codes = append(codes, Code(code))
		}
	}

	return codes
}()

// Valid reports whether the code falls into the range of HTTP status codes.
func (c Code) Valid() bool {
	return c >= MinCode && c <= MaxCode
}

// Text returns a reason phrase for the code. Codes without a registered phrase
// produce "Unknown Status Code".
func Text(code Code) string {
	if code > MaxCode || len(texts[code]) == 0 {
		return unknownText
	}

	return texts[code]
}
