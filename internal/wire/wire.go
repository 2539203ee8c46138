// Package wire renders status lines and header blocks into caller-owned
// buffers and validates header contents against the character sets HTTP/1
// allows on the wire. It holds no state and does no I/O.
package wire

import (
	"strconv"

	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/proto"
	"github.com/indigo-web/shim/status"
)

const (
	sp    = ' '
	colon = ": "
	crlf  = "\r\n"
)

// tokenChars marks tchar as of RFC 9110, i.e. characters allowed in header names.
var tokenChars = func() (lut [256]bool) {
	for c := '0'; c <= '9'; c++ {
		lut[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		lut[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		lut[c] = true
	}
	for _, c := range "!#$%&'*+-.^_`|~" {
		lut[c] = true
	}

	return lut
}()

// valueChars marks characters allowed in header values and reason phrases:
// horizontal tab, visible ASCII and obs-text (the high-byte range).
var valueChars = func() (lut [256]bool) {
	lut['\t'] = true
	for c := 0x20; c <= 0x7e; c++ {
		lut[c] = true
	}
	for c := 0x80; c <= 0xff; c++ {
		lut[c] = true
	}

	return lut
}()

// ValidKey reports whether the header name consists of token characters only.
// Empty names are rejected as well.
func ValidKey(key string) bool {
	if len(key) == 0 {
		return false
	}

	for i := 0; i < len(key); i++ {
		if !tokenChars[key[i]] {
			return false
		}
	}

	return true
}

// ValidValue reports whether the header value (or a reason phrase) is free of
// forbidden control characters.
func ValidValue(value string) bool {
	for i := 0; i < len(value); i++ {
		if !valueChars[value[i]] {
			return false
		}
	}

	return true
}

// CheckValues validates a multi-value header list as a whole. An empty list is
// malformed, a forbidden character in any element poisons the whole list.
func CheckValues(values []string) error {
	if len(values) == 0 {
		return status.ErrInvalidHeaderValue
	}

	for _, value := range values {
		if !ValidValue(value) {
			return status.ErrInvalidHeaderChar
		}
	}

	return nil
}

// AppendStatusLine renders `HTTP/<major>.<minor> <code> <reason>\r\n` ontop
// of the passed buffer. Empty reason falls back to the default phrase of
// the code.
func AppendStatusLine(
	buff []byte, protocol proto.Protocol, code status.Code, reason status.Status,
) []byte {
	buff = append(buff, protocol.String()...)
	buff = append(buff, sp)
	buff = strconv.AppendInt(buff, int64(code), 10)
	buff = append(buff, sp)

	if len(reason) == 0 {
		reason = status.Text(code)
	}

	buff = append(buff, reason...)

	return append(buff, crlf...)
}

// AppendHeader renders a single `key: value\r\n` line ontop of the passed buffer.
func AppendHeader(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, colon...)
	buff = append(buff, value...)

	return append(buff, crlf...)
}

// AppendHeaderBlock renders all the pairs followed by the empty line
// terminating the block.
func AppendHeaderBlock(buff []byte, pairs []kv.Pair) []byte {
	for _, pair := range pairs {
		buff = AppendHeader(buff, pair.Key, pair.Value)
	}

	return append(buff, crlf...)
}

// Render produces a complete head of a response: the status line, the header
// block and the terminating empty line.
func Render(
	protocol proto.Protocol, code status.Code, reason status.Status, pairs []kv.Pair,
) []byte {
	buff := AppendStatusLine(nil, protocol, code, reason)
	return AppendHeaderBlock(buff, pairs)
}
