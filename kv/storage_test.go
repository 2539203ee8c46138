package kv

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	getHeaders := func() *Storage {
		return New().
			Add("Foo", "bar").
			Add("Hello", "World").
			Add("Lorem", "ipsum").
			Add("hello", "Pavlo")
	}

	t.Run("delete", func(t *testing.T) {
		kv := getHeaders().Delete("HELLO")

		want := []Pair{
			{"Foo", "bar"},
			{"Lorem", "ipsum"},
		}

		require.Equal(t, want, kv.Expose())
	})

	t.Run("set", func(t *testing.T) {
		kv := getHeaders().Set("HELLO", "no more Pavlo")

		want := []Pair{
			{"Foo", "bar"},
			{"HELLO", "no more Pavlo"},
			{"Lorem", "ipsum"},
		}

		require.Equal(t, want, kv.Expose())
	})

	t.Run("set new key", func(t *testing.T) {
		kv := New().
			Add("Pavlo", "the best").
			Set("Glory to", "Ukraine")

		want := []Pair{
			{"Pavlo", "the best"},
			{"Glory to", "Ukraine"},
		}

		require.Equal(t, want, kv.Expose())
	})

	t.Run("values", func(t *testing.T) {
		kv := getHeaders()

		require.Equal(t, []string{"World", "Pavlo"}, slices.Collect(kv.Values("hello")))
		require.Nil(t, slices.Collect(kv.Values("missing")))
	})

	t.Run("get", func(t *testing.T) {
		kv := getHeaders()

		value, found := kv.Get("FOO")
		require.True(t, found)
		require.Equal(t, "bar", value)

		_, found = kv.Get("missing")
		require.False(t, found)
		require.Equal(t, "fallback", kv.ValueOr("missing", "fallback"))
	})

	t.Run("keys", func(t *testing.T) {
		keys := slices.Collect(getHeaders().Keys())
		require.Equal(t, []string{"Foo", "Hello", "Lorem"}, keys)
	})

	t.Run("pairs order", func(t *testing.T) {
		var keys []string
		for key := range getHeaders().Pairs() {
			keys = append(keys, key)
		}

		require.Equal(t, []string{"Foo", "Hello", "Lorem", "hello"}, keys)
	})

	t.Run("clone is deep", func(t *testing.T) {
		original := getHeaders()
		clone := original.Clone()
		clone.Set("Foo", "modified")

		require.Equal(t, "bar", original.Value("foo"))
		require.Equal(t, "modified", clone.Value("foo"))
	})

	t.Run("from map", func(t *testing.T) {
		kv := NewFromMap(map[string][]string{
			"Hello": {"World", "Pavlo"},
		})

		require.Equal(t, 2, kv.Len())
		require.Equal(t, []string{"World", "Pavlo"}, slices.Collect(kv.Values("hello")))
	})
}
