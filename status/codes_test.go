package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	require.Equal(t, Status("OK"), Text(OK))
	require.Equal(t, Status("Early Hints"), Text(EarlyHints))
	require.Equal(t, Status("I'm a teapot"), Text(Teapot))
	require.Equal(t, Status("unknown"), Text(Code(793)))
}

func TestValid(t *testing.T) {
	for _, code := range []Code{100, 200, 404, 599, 999} {
		require.True(t, Valid(code), code)
	}

	for _, code := range []Code{0, 1, 99, 1000, 9999} {
		require.False(t, Valid(code), code)
	}
}

func TestBodyless(t *testing.T) {
	require.True(t, Bodyless(NoContent))
	require.True(t, Bodyless(NotModified))

	for code := Code(100); code < 200; code++ {
		require.True(t, Bodyless(code), code)
	}

	for _, code := range []Code{OK, Created, MovedPermanently, NotFound, InternalServerError} {
		require.False(t, Bodyless(code), code)
	}
}
