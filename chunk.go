package shim

import (
	"github.com/indigo-web/shim/status"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"golang.org/x/text/encoding/htmlindex"
)

// pendingWrite is a single unit of outgoing body data: either text in some
// charset or raw bytes, plus the stream position it was written at and an
// optional completion callback.
type pendingWrite struct {
	index    int
	text     string
	encoding string
	raw      []byte
	isText   bool
	done     func(error)
}

func textWrite(index int, text, encoding string, done func(error)) pendingWrite {
	return pendingWrite{
		index:    index,
		text:     text,
		encoding: encoding,
		isText:   true,
		done:     done,
	}
}

func rawWrite(index int, raw []byte, done func(error)) pendingWrite {
	return pendingWrite{
		index: index,
		raw:   raw,
		done:  done,
	}
}

// materialize converts the payload into wire bytes. Raw bytes pass through
// untouched, text is converted with its charset, which is UTF-8 unless stated
// otherwise.
func (w pendingWrite) materialize() ([]byte, error) {
	if !w.isText {
		return w.raw, nil
	}

	if len(w.encoding) == 0 || isUTF8(w.encoding) {
		return uf.S2B(w.text), nil
	}

	enc, err := htmlindex.Get(w.encoding)
	if err != nil {
		return nil, status.ErrUnsupportedEncoding
	}

	converted, err := enc.NewEncoder().Bytes(uf.S2B(w.text))
	if err != nil {
		return nil, status.ErrUnsupportedEncoding
	}

	return converted, nil
}

func isUTF8(encoding string) bool {
	return strcomp.EqualFold(encoding, "utf-8") || strcomp.EqualFold(encoding, "utf8")
}
