package httptest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/indigo-web/speed/http/headers"
)

// Response is a response parsed strictly, exactly as it was received.
type Response struct {
	Proto   string
	Code    int
	Status  string
	Headers *headers.Headers
	Body    string
}

// ParseResponse parses a single complete response. Every response the server writes
// must carry Content-Length, so its absence is an error, as well as any bytes past
// the body.
func ParseResponse(raw string) (response Response, err error) {
	var found bool
	response.Headers = headers.New()

	response.Proto, raw, found = strings.Cut(raw, " ")
	if !found || len(raw) == 0 {
		return response, fmt.Errorf("bad status line: lacking code and status")
	}

	var code string
	code, raw, found = strings.Cut(raw, " ")
	response.Code, err = strconv.Atoi(code)
	if err != nil {
		return response, err
	}

	if !found {
		return response, fmt.Errorf("bad status line: lacking reason")
	}

	response.Status, raw, found = strings.Cut(raw, "\r\n")
	if !found {
		return response, fmt.Errorf("bad response: only status line is presented")
	}

	for {
		var headerLine string
		headerLine, raw, found = strings.Cut(raw, "\r\n")
		if !found {
			return response, fmt.Errorf("bad header line %s: no breaking CRLF", headerLine)
		}

		if len(headerLine) == 0 {
			break
		}

		key, value, err := parseHeaderLine(headerLine)
		if err != nil {
			return response, err
		}

		if response.Headers.Has(key) {
			return response, fmt.Errorf("bad response: duplicate header %s", key)
		}

		response.Headers.Set(key, value)
	}

	response.Body, err = processBody(response, raw)

	return response, err
}

func parseHeaderLine(line string) (key, value string, err error) {
	var found bool
	key, value, found = strings.Cut(line, ": ")
	if !found {
		return "", "", fmt.Errorf("bad header %s: no value", line)
	}

	if len(key) == 0 {
		return "", "", fmt.Errorf("bad header %s: empty key", line)
	}

	return key, value, nil
}

func processBody(response Response, data string) (string, error) {
	value, found := response.Headers.Get("Content-Length")
	if !found {
		return "", fmt.Errorf("bad response: no Content-Length")
	}

	length, err := strconv.Atoi(value)
	if err != nil {
		return "", err
	}

	switch {
	case len(data) > length:
		return "", fmt.Errorf("got extra body: %q", data[length:])
	case len(data) < length:
		return "", fmt.Errorf("body is shorter than Content-Length: %d < %d", len(data), length)
	default:
		return data, nil
	}
}
