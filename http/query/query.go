// Package query extracts the path and the query parameters from the request target.
// The request itself is never modified: results are computed on demand and cached in
// the request's context.
package query

import (
	"strings"

	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/headers"
	"github.com/indigo-web/speed/internal/urlencoded"
	"github.com/indigo-web/utils/uf"
)

type ctxKey struct{}

type parsed struct {
	path   string
	params *headers.Headers
	err    error
}

// Parse splits the request target into the decoded path and parameters. The fragment,
// if presented, is dropped. Parameter lookups are case-insensitive, and the last
// occurrence of a key wins.
func Parse(request *http.Request) (path string, params *headers.Headers, err error) {
	if cached, ok := request.Value(ctxKey{}).(*parsed); ok {
		return cached.path, cached.params, cached.err
	}

	p := parse(request.Path)
	request.WithValue(ctxKey{}, p)

	return p.path, p.params, p.err
}

// Path returns the decoded path without the query.
func Path(request *http.Request) (string, error) {
	path, _, err := Parse(request)
	return path, err
}

// Params returns the decoded query parameters.
func Params(request *http.Request) (*headers.Headers, error) {
	_, params, err := Parse(request)
	return params, err
}

// Raw returns the query as it was received, without the leading question mark.
func Raw(request *http.Request) string {
	_, query := split(request.Path)
	return query
}

func parse(target string) *parsed {
	rawPath, rawQuery := split(target)
	p := &parsed{params: headers.New()}

	path, buff, err := urlencoded.Decode(uf.S2B(rawPath), nil)
	if err != nil {
		p.err = err
		return p
	}

	p.path = string(path)
	// the query is copied, as decoded values may reference it
	_, p.err = urlencoded.Parse([]byte(rawQuery), buff[:0], func(key, value string) {
		p.params.Set(key, value)
	})

	return p
}

func split(target string) (path, query string) {
	if hash := strings.IndexByte(target, '#'); hash != -1 {
		target = target[:hash]
	}

	path, query, _ = strings.Cut(target, "?")

	return path, query
}
