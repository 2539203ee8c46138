package shim

import (
	"io"
	"strconv"

	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/proto"
	"github.com/indigo-web/utils/strcomp"
)

// ServerRequest is the read side of the pair: a plain translation of the
// hosting environment's request value into the shape legacy handlers expect.
// There is no state machine here, all fields are ready the moment the pair
// is constructed.
type ServerRequest struct {
	Method   string
	Target   string
	Protocol proto.Protocol
	Headers  *kv.Storage
	Body     io.Reader
}

// ContentLength parses the Content-Length header. The flag tells whether the
// header was present and well-formed.
func (r *ServerRequest) ContentLength() (length int64, ok bool) {
	value, found := r.Headers.Get("Content-Length")
	if !found {
		return 0, false
	}

	length, err := strconv.ParseInt(value, 10, 64)
	if err != nil || length < 0 {
		return 0, false
	}

	return length, true
}

// KeepAlive reports whether the connection is expected to persist, accounting
// for an explicit Connection header overriding the protocol default.
func (r *ServerRequest) KeepAlive() bool {
	switch connection := r.Headers.Value("Connection"); {
	case strcomp.EqualFold(connection, "close"):
		return false
	case strcomp.EqualFold(connection, "keep-alive"):
		return true
	default:
		return r.Protocol.KeepAlive()
	}
}
