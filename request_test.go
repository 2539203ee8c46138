package shim

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/proto"
)

func TestServerRequest(t *testing.T) {
	t.Run("plain translation", func(t *testing.T) {
		headers := kv.New().
			Add("Host", "indigo.dev").
			Add("Content-Length", "11")

		req, _ := NewPair(nil, "POST", "/submit", proto.HTTP11, headers, strings.NewReader("hello world"))

		require.Equal(t, "POST", req.Method)
		require.Equal(t, "/submit", req.Target)
		require.Equal(t, proto.HTTP11, req.Protocol)
		require.Equal(t, "indigo.dev", req.Headers.Value("host"))

		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.Equal(t, "hello world", string(body))
	})

	t.Run("content length", func(t *testing.T) {
		req := &ServerRequest{Headers: kv.New().Add("Content-Length", "42")}
		length, ok := req.ContentLength()
		require.True(t, ok)
		require.Equal(t, int64(42), length)

		req = &ServerRequest{Headers: kv.New()}
		_, ok = req.ContentLength()
		require.False(t, ok)

		req = &ServerRequest{Headers: kv.New().Add("Content-Length", "-1")}
		_, ok = req.ContentLength()
		require.False(t, ok)

		req = &ServerRequest{Headers: kv.New().Add("Content-Length", "a lot")}
		_, ok = req.ContentLength()
		require.False(t, ok)
	})

	t.Run("keep alive defaults", func(t *testing.T) {
		req := &ServerRequest{Protocol: proto.HTTP11, Headers: kv.New()}
		require.True(t, req.KeepAlive())

		req = &ServerRequest{Protocol: proto.HTTP10, Headers: kv.New()}
		require.False(t, req.KeepAlive())

		req = &ServerRequest{Protocol: proto.HTTP10, Headers: kv.New().Add("Connection", "keep-alive")}
		require.True(t, req.KeepAlive())

		req = &ServerRequest{Protocol: proto.HTTP11, Headers: kv.New().Add("Connection", "close")}
		require.False(t, req.KeepAlive())
	})

	t.Run("empty body defaults to an empty reader", func(t *testing.T) {
		req, _ := NewPair(nil, "GET", "/", proto.HTTP11, nil, nil)
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.Empty(t, body)
	})
}
