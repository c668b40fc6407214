package http1

import (
	"bufio"
	"bytes"
	"io"
	stdhttp "net/http"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/speed/config"
	"github.com/indigo-web/speed/http"
	"github.com/indigo-web/speed/http/method"
	"github.com/indigo-web/speed/http/proto"
	"github.com/indigo-web/speed/http/status"
	"github.com/indigo-web/speed/internal/httptest"
	"github.com/stretchr/testify/require"
)

func getSerializer(defaultHeaders map[string]string) *Serializer {
	cfg := config.Default()
	cfg.Headers.Default = defaultHeaders

	return NewSerializer(cfg, make([]byte, 0, 1024))
}

func newRequest(m method.Method, protocol proto.Proto) *http.Request {
	request := http.NewRequest()
	request.Method = m
	request.Proto = protocol

	return request
}

type accumulativeWriter struct {
	Data []byte
}

func (a *accumulativeWriter) Write(b []byte) error {
	a.Data = append(a.Data, b...)
	return nil
}

func readResponse(t *testing.T, data []byte, m string) *stdhttp.Response {
	stdreq, err := stdhttp.NewRequest(m, "/", nil)
	require.NoError(t, err)
	resp, err := stdhttp.ReadResponse(bufio.NewReader(bytes.NewBuffer(data)), stdreq)
	require.NoError(t, err)

	return resp
}

func TestSerializer_Write(t *testing.T) {
	request := newRequest(method.GET, proto.HTTP11)

	t.Run("default builder", func(t *testing.T) {
		writer := new(accumulativeWriter)
		serializer := getSerializer(nil)
		require.NoError(t, serializer.Write(writer, request, http.NewResponse(), false))

		resp := readResponse(t, writer.Data, stdhttp.MethodGet)
		require.Equal(t, 404, resp.StatusCode)
		require.Equal(t, "404 Not Found", resp.Status)
		require.Equal(t, 2, len(resp.Header))
		require.Equal(t, "0", resp.Header.Get("Content-Length"))
		require.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Empty(t, body)
	})

	t.Run("exact bytes", func(t *testing.T) {
		serializer := getSerializer(nil)
		response := http.NewResponse().
			Code(status.OK).
			ContentType("text/plain").
			String("hello")
		data := serializer.Append(nil, request, response, true)

		want := "HTTP/1.1 200 OK\r\n" +
			"Content-Type: text/plain\r\n" +
			"Content-Length: 5\r\n" +
			"Connection: close\r\n" +
			"\r\n" +
			"hello"
		require.Equal(t, want, string(data))
	})

	t.Run("headers order", func(t *testing.T) {
		serializer := getSerializer(nil)
		response := http.NewResponse().
			Code(status.OK).
			Header("B", "1").
			Header("A", "2").
			Header("b", "3")
		data := serializer.Append(nil, request, response, false)

		want := "HTTP/1.1 200 OK\r\n" +
			"b: 3\r\n" +
			"A: 2\r\n" +
			"Content-Type: application/octet-stream\r\n" +
			"Content-Length: 0\r\n" +
			"\r\n"
		require.Equal(t, want, string(data))
	})

	testWithHeaders := func(t *testing.T, serializer *Serializer, writer *accumulativeWriter) {
		response := http.NewResponse().
			Code(status.OK).
			Header("Hello", "nether")

		require.NoError(t, serializer.Write(writer, request, response, false))
		resp := readResponse(t, writer.Data, stdhttp.MethodGet)
		require.Equal(t, 200, resp.StatusCode)

		require.Equal(t, []string{"nether"}, resp.Header["Hello"], resp.Header)
		require.Equal(t, []string{"speed"}, resp.Header["Server"], resp.Header)
		require.Equal(t, []string{"ipsum, something else"}, resp.Header["Lorem"], resp.Header)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Empty(t, body)
		_ = resp.Body.Close()
	}

	t.Run("default headers", func(t *testing.T) {
		defHeaders := map[string]string{
			"Hello":  "world",
			"Server": "speed",
			"Lorem":  "ipsum, something else",
		}
		serializer := getSerializer(defHeaders)
		testWithHeaders(t, serializer, new(accumulativeWriter))
		testWithHeaders(t, serializer, new(accumulativeWriter))
	})

	t.Run("default headers are stable", func(t *testing.T) {
		defHeaders := map[string]string{
			"A": "1", "B": "2", "C": "3", "D": "4", "E": "5",
		}
		serializer := getSerializer(defHeaders)
		response := http.NewResponse().String("Hello, world!")
		first := serializer.Append(nil, request, response, false)

		for i := 0; i < 10; i++ {
			require.Equal(t, first, getSerializer(defHeaders).Append(nil, request, response, false))
		}
	})

	t.Run("HEAD request", func(t *testing.T) {
		const body = "Hello, world!"
		writer := new(accumulativeWriter)
		serializer := getSerializer(nil)
		response := http.NewResponse().Code(status.OK).String(body)

		require.NoError(t, serializer.Write(writer, newRequest(method.HEAD, proto.HTTP11), response, false))
		require.False(t, bytes.HasSuffix(writer.Data, []byte(body)))

		resp := readResponse(t, writer.Data, stdhttp.MethodHead)
		require.Equal(t, len(body), int(resp.ContentLength))
		fullBody, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Empty(t, fullBody)
	})

	t.Run("HTTP/1.0", func(t *testing.T) {
		serializer := getSerializer(nil)
		data := serializer.Append(nil, newRequest(method.GET, proto.HTTP10), http.NewResponse(), true)
		require.True(t, bytes.HasPrefix(data, []byte("HTTP/1.0 404 Not Found\r\n")))

		resp := readResponse(t, data, stdhttp.MethodGet)
		require.True(t, resp.Close)
	})

	t.Run("no request", func(t *testing.T) {
		serializer := getSerializer(nil)
		response := http.NewResponse().Error(ErrMalformed)
		data := serializer.Append(nil, nil, response, true)
		require.True(t, bytes.HasPrefix(data, []byte("HTTP/1.1 400 Bad Request\r\n")))
	})

	t.Run("explicit content length", func(t *testing.T) {
		serializer := getSerializer(nil)
		response := http.NewResponse().
			Header("content-length", "5").
			String("hello")
		data := serializer.Append(nil, request, response, false)
		require.Equal(t, 1, bytes.Count(bytes.ToLower(data), []byte("content-length")))

		resp := readResponse(t, data, stdhttp.MethodGet)
		require.Equal(t, int64(5), resp.ContentLength)
	})

	t.Run("invalid content length", func(t *testing.T) {
		for _, value := range []string{"abc", "-1", ""} {
			serializer := getSerializer(nil)
			response := http.NewResponse().
				Code(status.OK).
				Header("Content-Length", value).
				String("hello")
			data := serializer.Append(nil, request, response, false)
			require.Equal(t, 1, bytes.Count(bytes.ToLower(data), []byte("content-length")), value)
			require.Contains(t, string(data), "Content-Length: 5\r\n", value)

			resp := readResponse(t, data, stdhttp.MethodGet)
			require.Equal(t, int64(5), resp.ContentLength)
		}
	})

	t.Run("connection close is not duplicated", func(t *testing.T) {
		serializer := getSerializer(nil)
		response := http.NewResponse().Header("Connection", "close")
		data := serializer.Append(nil, request, response, true)
		require.Equal(t, 1, bytes.Count(data, []byte("close")))
	})

	t.Run("custom reason", func(t *testing.T) {
		serializer := getSerializer(nil)
		s, err := status.New(status.InternalServerError, "This is not a bug. It is a feature.")
		require.NoError(t, err)
		data := serializer.Append(nil, request, http.NewResponse().Status(s), false)

		resp := readResponse(t, data, stdhttp.MethodGet)
		require.Equal(t, "500 This is not a bug. It is a feature.", resp.Status)
	})

	t.Run("write error", func(t *testing.T) {
		serializer := getSerializer(nil)
		err := serializer.Write(failingWriter{}, request, http.NewResponse(), false)
		require.ErrorIs(t, err, io.ErrClosedPipe)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) error {
	return io.ErrClosedPipe
}

func TestRoundTrip(t *testing.T) {
	cfg := config.Default()
	request := newRequest(method.POST, proto.HTTP11)
	request.Path = "/echo?name=speed"
	request.Headers.
		Set("Host", "localhost").
		Set("Content-Type", "text/plain").
		Set(uniuri.New(), uniuri.New())
	request.Body = []byte("Hello, world!")

	compare := func(t *testing.T, raw []byte) {
		parsed, n, err := Parse(raw, cfg)
		require.NoError(t, err)
		require.Equal(t, len(raw), n)

		require.Equal(t, request.Method, parsed.Method)
		require.Equal(t, request.Path, parsed.Path)
		require.Equal(t, request.Proto, parsed.Proto)
		require.Equal(t, string(request.Body), string(parsed.Body))
		for key, value := range request.Headers.Iter() {
			require.Equal(t, value, parsed.Headers.Value(key))
		}
	}

	t.Run("plain", func(t *testing.T) {
		compare(t, httptest.Dump(request))
	})

	t.Run("chunked", func(t *testing.T) {
		compare(t, httptest.DumpChunked(request, 4))
	})
}
