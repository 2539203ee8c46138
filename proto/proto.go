package proto

type Protocol uint8

const (
	Unknown Protocol = 0
	HTTP10  Protocol = 1 << iota
	HTTP11
	HTTP2

	HTTP1 = HTTP10 | HTTP11
)

func (p Protocol) String() string {
	lut := [...]string{HTTP10: "HTTP/1.0", HTTP11: "HTTP/1.1", HTTP2: "HTTP/2"}
	if int(p) >= len(lut) {
		return ""
	}

	return lut[p]
}

// KeepAlive reports the default connection persistence for the protocol:
// HTTP/1.0 connections close unless asked otherwise, everything newer persists.
func (p Protocol) KeepAlive() bool {
	return p != Unknown && p != HTTP10
}

// Chunked reports whether the protocol allows chunked transfer encoding,
// which is the default framing for bodies of unknown length since HTTP/1.1.
func (p Protocol) Chunked() bool {
	return p != Unknown && p != HTTP10
}

var majorMinorLUT = [10][10]Protocol{
	1: {0: HTTP10, 1: HTTP11},
	2: {0: HTTP2},
}

// Parse maps a major/minor version pair onto the protocol enum,
// resulting in Unknown if the version isn't supported.
func Parse(major, minor uint8) Protocol {
	if major > 9 || minor > 9 {
		return Unknown
	}

	return majorMinorLUT[major][minor]
}
