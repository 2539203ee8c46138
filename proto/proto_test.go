package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	require.Equal(t, HTTP10, Parse(1, 0))
	require.Equal(t, HTTP11, Parse(1, 1))
	require.Equal(t, HTTP2, Parse(2, 0))
	require.Equal(t, Unknown, Parse(0, 9))
	require.Equal(t, Unknown, Parse(3, 1))
	require.Equal(t, Unknown, Parse(250, 250))
}

func TestString(t *testing.T) {
	require.Equal(t, "HTTP/1.0", HTTP10.String())
	require.Equal(t, "HTTP/1.1", HTTP11.String())
	require.Equal(t, "HTTP/2", HTTP2.String())
	require.Equal(t, "", Unknown.String())
}

func TestDefaults(t *testing.T) {
	require.False(t, HTTP10.KeepAlive())
	require.True(t, HTTP11.KeepAlive())
	require.False(t, HTTP10.Chunked())
	require.True(t, HTTP11.Chunked())
	require.False(t, Unknown.KeepAlive())
}
