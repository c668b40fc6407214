package query

import (
	"testing"

	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/status"
	"github.com/stretchr/testify/require"
)

func newRequest(path string) *http.Request {
	request := http.NewRequest()
	request.Path = path

	return request
}

func TestQuery(t *testing.T) {
	t.Run("path and params", func(t *testing.T) {
		request := newRequest("/hello%20world?hello=world&foo=bar+baz#fragment")
		path, params, err := Parse(request)
		require.NoError(t, err)
		require.Equal(t, "/hello world", path)
		require.Equal(t, 2, params.Len())
		require.Equal(t, "world", params.Value("hello"))
		require.Equal(t, "bar baz", params.Value("foo"))
		require.Equal(t, "/hello%20world?hello=world&foo=bar+baz#fragment", request.Path)
	})

	t.Run("get non-existing key", func(t *testing.T) {
		params, err := Params(newRequest("/?hello=world"))
		require.NoError(t, err)
		value, found := params.Get("lorem")
		require.False(t, found)
		require.Empty(t, value)
	})

	t.Run("no query", func(t *testing.T) {
		request := newRequest("/index.html")
		path, err := Path(request)
		require.NoError(t, err)
		require.Equal(t, "/index.html", path)
		params, err := Params(request)
		require.NoError(t, err)
		require.True(t, params.Empty())
		require.Empty(t, Raw(request))
	})

	t.Run("raw", func(t *testing.T) {
		require.Equal(t, "a=1&b", Raw(newRequest("/?a=1&b#c")))
	})

	t.Run("cached", func(t *testing.T) {
		request := newRequest("/?a=1")
		_, first, err := Parse(request)
		require.NoError(t, err)
		_, second, err := Parse(request)
		require.NoError(t, err)
		require.Same(t, first, second)
	})

	t.Run("bad path", func(t *testing.T) {
		_, err := Path(newRequest("/%zz"))
		require.ErrorIs(t, err, status.ErrURLDecoding)
	})

	t.Run("bad query", func(t *testing.T) {
		_, err := Params(newRequest("/?=nokey"))
		require.ErrorIs(t, err, status.ErrBadQuery)
	})
}
