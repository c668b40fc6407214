package main

import (
	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/decode"
	"github.com/indigo-web/speed/http/method"
	"github.com/indigo-web/speed/http/mime"
	"github.com/indigo-web/speed/http/query"
	"github.com/indigo-web/speed/http/status"
)

// Reflection describes the received request.
type Reflection struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Proto   string            `json:"proto"`
	Params  map[string]string `json:"params,omitempty"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body,omitempty"`
}

// Echo answers with the JSON reflection of the request. JSON and urlencoded bodies are
// decoded, any other is echoed as a string.
func Echo(request *http.Request, response *http.Response) (*http.Request, *http.Response, error) {
	path, params, err := query.Parse(request)
	if err != nil {
		return request, response.Error(err), err
	}

	reflection := Reflection{
		Method:  request.Method.String(),
		Path:    path,
		Proto:   request.Proto.String(),
		Params:  toMap(params.Iter()),
		Headers: toMap(request.Headers.Iter()),
	}

	if request.Method == method.POST || request.Method == method.PUT || request.Method == method.PATCH {
		if reflection.Body, err = decodeBody(request); err != nil {
			return request, response.Error(err), err
		}
	}

	return request, response.Code(status.OK).JSON(reflection), nil
}

func decodeBody(request *http.Request) (any, error) {
	switch contentType := request.Headers.Value("Content-Type"); {
	case len(request.Body) == 0:
		return nil, nil
	case len(contentType) == 0:
		return string(request.Body), nil
	case mime.Complies(mime.JSON, contentType):
		var body any
		err := decode.JSON(request, &body)
		return body, err
	case mime.Complies(mime.FormUrlencoded, contentType):
		form, err := decode.Form(request)
		if err != nil {
			return nil, err
		}

		return toMap(form.Iter()), nil
	default:
		return string(request.Body), nil
	}
}

func toMap(seq func(yield func(string, string) bool)) map[string]string {
	m := make(map[string]string)
	for key, value := range seq {
		m[key] = value
	}

	return m
}
