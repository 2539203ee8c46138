package config

type (
	Headers struct {
		// Prealloc is the number of pre-allocated seats for response headers.
		Prealloc int
	}

	Bridge struct {
		// ChannelCapacity bounds the number of body chunks in flight between the
		// writing side and a consumer which hasn't pulled them yet. Once the limit
		// is reached, writes block until the consumer catches up, so the buffer
		// cannot grow without bounds.
		ChannelCapacity int
	}
)

type Config struct {
	Headers Headers
	Bridge  Bridge
}

// Default returns the default configuration. Modify it before constructing
// anything with it, not after.
func Default() *Config {
	return &Config{
		Headers: Headers{
			// why 7? I don't know. There's no theory behind this number nor researches.
			Prealloc: 7,
		},
		Bridge: Bridge{
			ChannelCapacity: 64,
		},
	}
}
