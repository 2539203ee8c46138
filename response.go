package shim

import (
	"net"
	"slices"

	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/internal/wire"
	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/proto"
	"github.com/indigo-web/shim/status"
	json "github.com/json-iterator/go"
)

type state uint8

const (
	// stateOpen: the headers are still mutable.
	stateOpen state = iota
	// stateSent: the status line and the header block are computed and immutable.
	stateSent
	// stateFinished: no more body will be produced.
	stateFinished
)

// ServerResponse mimics the outgoing half of a traditional server API:
// headers are mutated freely until the first body write (or an explicit
// WriteHead) pins them, then body chunks flow until End. Everything a handler
// does to it is translated into the single resolved response value which
// ResponseOf hands to the hosting runtime.
//
// A ServerResponse is driven by one logical producer; its methods must not be
// called concurrently.
type ServerResponse struct {
	cfg           *config.Config
	protocol      proto.Protocol
	state         state
	code          status.Code
	reason        status.Status
	headers       *kv.Storage
	bridge        *bridge
	informational [][]byte
	nextIndex     int
	bodyless      bool
	keepAlive     bool
	chunked       bool
}

func newServerResponse(cfg *config.Config, protocol proto.Protocol, keepAlive bool) *ServerResponse {
	return &ServerResponse{
		cfg:       cfg,
		protocol:  protocol,
		code:      status.OK,
		headers:   kv.NewPrealloc(cfg.Headers.Prealloc),
		bridge:    newBridge(cfg),
		keepAlive: keepAlive,
	}
}

// SetHeader replaces all values of the header with the passed ones.
func (r *ServerResponse) SetHeader(key string, values ...string) error {
	if err := r.checkMutable(key, values); err != nil {
		return err
	}

	r.headers.Delete(key)
	for _, value := range values {
		r.headers.Add(key, value)
	}

	return nil
}

// AppendHeader adds the values to the header without removing the present ones.
func (r *ServerResponse) AppendHeader(key string, values ...string) error {
	if err := r.checkMutable(key, values); err != nil {
		return err
	}

	for _, value := range values {
		r.headers.Add(key, value)
	}

	return nil
}

// RemoveHeader removes all values of the header.
func (r *ServerResponse) RemoveHeader(key string) error {
	if r.state != stateOpen {
		return status.ErrHeadersSent
	}

	r.headers.Delete(key)
	return nil
}

// Header returns all currently set values of the header.
func (r *ServerResponse) Header(key string) []string {
	return slices.Collect(r.headers.Values(key))
}

// Headers exposes the underlying header storage. Mutating it directly
// bypasses validation, prefer SetHeader and friends.
func (r *ServerResponse) Headers() *kv.Storage {
	return r.headers
}

// HeadersSent tells whether the headers became immutable already.
func (r *ServerResponse) HeadersSent() bool {
	return r.state != stateOpen
}

func (r *ServerResponse) checkMutable(key string, values []string) error {
	if r.state != stateOpen {
		return status.ErrHeadersSent
	}

	if !wire.ValidKey(key) {
		return status.ErrInvalidHeaderChar
	}

	return wire.CheckValues(values)
}

// WriteHead sends the headers explicitly with the passed status code. The
// pairs, if any, are merged into the headers set so far, replacing values of
// matching keys. After the call the headers are immutable.
func (r *ServerResponse) WriteHead(code status.Code, pairs ...kv.Pair) error {
	return r.WriteHeadReason(code, "", pairs...)
}

// WriteHeadReason does what WriteHead does, with a custom reason phrase on top.
func (r *ServerResponse) WriteHeadReason(
	code status.Code, reason status.Status, pairs ...kv.Pair,
) error {
	if r.state != stateOpen {
		return status.ErrHeadersSent
	}

	// validate everything before touching any state, so a failed call
	// leaves the message fully usable
	if !status.Valid(code) {
		return status.ErrInvalidStatusCode
	}

	if !wire.ValidValue(string(reason)) {
		return status.ErrInvalidHeaderChar
	}

	for _, pair := range pairs {
		if !wire.ValidKey(pair.Key) || !wire.ValidValue(pair.Value) {
			return status.ErrInvalidHeaderChar
		}
	}

	r.code, r.reason = code, reason
	for _, pair := range pairs {
		r.headers.Set(pair.Key, pair.Value)
	}

	r.ensureHeadersSent(false)

	return nil
}

// FlushHeaders sends the headers as they are, with the default 200 status if
// none was chosen before.
func (r *ServerResponse) FlushHeaders() error {
	if r.state != stateOpen {
		return status.ErrHeadersSent
	}

	r.ensureHeadersSent(false)
	return nil
}

// ensureHeadersSent is the single owner of the OPEN -> SENT transition, shared
// by the header path and the body write path. When the transition is triggered
// implicitly by a body write, the rendered head is returned, to be carried by
// chunk 0 the way the legacy stream model does it.
func (r *ServerResponse) ensureHeadersSent(implicit bool) (head []byte) {
	if r.state != stateOpen {
		return nil
	}

	r.state = stateSent
	r.bodyless = status.Bodyless(r.code)
	r.chunked = !r.bodyless && !r.headers.Has("Content-Length") && r.protocol.Chunked()

	reason := r.reason
	if len(reason) == 0 {
		reason = status.Text(r.code)
	}

	snapshot := r.headers.Clone()
	if implicit {
		head = wire.Render(r.protocol, r.code, reason, snapshot.Expose())
	}

	r.bridge.headersSent(headerSentEvent{
		code:      r.code,
		reason:    reason,
		headers:   snapshot,
		bodyless:  r.bodyless,
		headerLen: len(head),
	})

	return head
}

// Write pushes raw bytes as the next body chunk, sending the headers
// implicitly if they weren't sent yet.
func (r *ServerResponse) Write(b []byte) error {
	return r.write(rawWrite(r.nextIndex, b, nil))
}

// WriteString pushes UTF-8 text as the next body chunk.
func (r *ServerResponse) WriteString(s string) error {
	return r.write(textWrite(r.nextIndex, s, "", nil))
}

// WriteText pushes text converted with the named charset as the next body chunk.
func (r *ServerResponse) WriteText(s, encoding string) error {
	return r.write(textWrite(r.nextIndex, s, encoding, nil))
}

// WriteAny accepts whatever the legacy write used to: a string or a byte
// slice. Anything else fails with status.ErrInvalidArgumentType, and the
// failure also rejects the pending resolution.
func (r *ServerResponse) WriteAny(v any) error {
	return r.WriteCallback(v, "", nil)
}

// WriteCallback is the fully general write: any supported payload, an optional
// charset applied to text payloads, and an optional completion callback fired
// once the chunk was handed to the consumer side, discarded, or failed.
func (r *ServerResponse) WriteCallback(v any, encoding string, done func(error)) error {
	switch payload := v.(type) {
	case string:
		return r.write(textWrite(r.nextIndex, payload, encoding, done))
	case []byte:
		return r.write(rawWrite(r.nextIndex, payload, done))
	default:
		err := status.ErrInvalidArgumentType
		r.abort(err)
		complete(done, err)

		return err
	}
}

// WriteJSON marshals the model and pushes it as a single chunk, setting the
// Content-Type header unless it was set explicitly before.
func (r *ServerResponse) WriteJSON(model any) error {
	b, err := json.ConfigDefault.Marshal(model)
	if err != nil {
		return err
	}

	if r.state == stateOpen && !r.headers.Has("Content-Type") {
		r.headers.Add("Content-Type", "application/json")
	}

	return r.Write(b)
}

func (r *ServerResponse) write(w pendingWrite) error {
	if r.state == stateFinished {
		complete(w.done, status.ErrWriteAfterEnd)
		return status.ErrWriteAfterEnd
	}

	data, err := w.materialize()
	if err != nil {
		r.abort(err)
		complete(w.done, err)

		return err
	}

	if head := r.ensureHeadersSent(true); len(head) != 0 {
		// in the legacy stream model the header block and the first body
		// bytes share the stream position, so chunk 0 carries both; the
		// consumer side skips the header prefix
		data = append(head, data...)
	}

	r.bridge.push(w.index, data, w.done)
	r.nextIndex++

	return nil
}

// abort couples the write path with the pending resolution: a failure that
// would otherwise be visible to the writer only also rejects the future, so
// whoever awaits the response is never left hanging. Once the headers are
// sent the future is already resolved and the synchronous error alone is
// enough.
func (r *ServerResponse) abort(err error) {
	if r.state == stateOpen {
		r.state = stateFinished
		r.bridge.fail(err)
	}
}

// End finalizes the message: the headers are sent if they weren't yet, the
// body sequence is closed, further writes fail. Repeated calls are no-ops.
func (r *ServerResponse) End() error {
	switch r.state {
	case stateFinished:
		return nil
	case stateOpen:
		r.ensureHeadersSent(false)
	}

	r.state = stateFinished
	r.bridge.finish()

	return nil
}

// EndString writes the final chunk and finalizes the message.
func (r *ServerResponse) EndString(s string) error {
	if err := r.WriteString(s); err != nil {
		return err
	}

	return r.End()
}

// WriteContinue renders a 100 Continue interim response.
func (r *ServerResponse) WriteContinue() error {
	return r.writeInformational(status.Continue, nil)
}

// WriteProcessing renders a 102 Processing interim response.
func (r *ServerResponse) WriteProcessing() error {
	return r.writeInformational(status.Processing, nil)
}

// WriteEarlyHints renders a 103 Early Hints interim response carrying the
// passed Link header values.
func (r *ServerResponse) WriteEarlyHints(links ...string) error {
	if err := wire.CheckValues(links); err != nil {
		return err
	}

	pairs := make([]kv.Pair, 0, len(links))
	for _, link := range links {
		pairs = append(pairs, kv.Pair{Key: "Link", Value: link})
	}

	return r.writeInformational(status.EarlyHints, pairs)
}

// writeInformational renders an interim response. Interim responses cannot
// travel through the singular resolved response value, so the rendered blocks
// are stashed for the hosting runtime to flush on the wire, if it can.
func (r *ServerResponse) writeInformational(code status.Code, pairs []kv.Pair) error {
	if r.state != stateOpen {
		return status.ErrHeadersSent
	}

	r.informational = append(r.informational, wire.Render(r.protocol, code, "", pairs))
	return nil
}

// Informational returns the interim responses rendered so far, in wire format.
func (r *ServerResponse) Informational() [][]byte {
	return r.informational
}

// Hijack exists for interface parity with real server responses only: there
// is no socket to take over.
func (r *ServerResponse) Hijack() (net.Conn, error) {
	return nil, status.ErrMethodNotImplemented
}

// KeepAlive reports whether the connection should persist after this message,
// as decided by the request's protocol version and Connection header.
func (r *ServerResponse) KeepAlive() bool {
	return r.keepAlive
}

// Chunked reports whether the hosting runtime should frame the body with
// chunked transfer encoding. Decided at the headers-sent moment: a body is
// expected, no Content-Length was set, and the protocol supports it.
func (r *ServerResponse) Chunked() bool {
	return r.chunked
}

// Release tears the message down: the consumer side is detached and whatever
// wasn't consumed is dropped. If the response wasn't resolved by this point,
// the future is rejected, so awaiting it doesn't hang forever.
func (r *ServerResponse) Release() {
	r.abort(status.ErrReleased)
	r.state = stateFinished
	r.bridge.teardown()
	// close the body sequence as well, so a consumer in the middle of the
	// already resolved response observes EOF instead of blocking forever
	r.bridge.finish()
}
