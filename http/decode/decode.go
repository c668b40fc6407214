// Package decode turns request bodies into Go values.
package decode

import (
	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/headers"
	"github.com/indigo-web/speed/http/mime"
	"github.com/indigo-web/speed/http/status"
	"github.com/indigo-web/speed/internal/urlencoded"
	json "github.com/json-iterator/go"
)

// JSON unmarshalls the body into the model. A request with Content-Type other than
// application/json is rejected with status.ErrUnsupportedMediaType; a request without
// Content-Type is accepted.
func JSON(request *http.Request, model any) error {
	if err := expect(request, mime.JSON); err != nil {
		return err
	}

	if err := json.ConfigDefault.Unmarshal(request.Body, model); err != nil {
		return status.NewError(status.BadRequest, err.Error())
	}

	return nil
}

// Form parses the urlencoded body. Key lookups are case-insensitive, and the last
// occurrence of a key wins.
func Form(request *http.Request) (*headers.Headers, error) {
	if err := expect(request, mime.FormUrlencoded); err != nil {
		return nil, err
	}

	form := headers.New()
	// the body is copied, as decoded values may reference it
	_, err := urlencoded.Parse(append([]byte(nil), request.Body...), nil, func(key, value string) {
		form.Set(key, value)
	})

	return form, err
}

func expect(request *http.Request, want mime.MIME) error {
	if !mime.Complies(want, request.Headers.Value("Content-Type")) {
		return status.ErrUnsupportedMediaType
	}

	return nil
}
