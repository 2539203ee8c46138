package shim

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/status"
)

// Response is the resolved outcome of an outgoing message: the final status,
// the headers exactly as they became immutable, and the lazily produced body.
type Response struct {
	Code    status.Code
	Status  status.Status
	Headers *kv.Storage
	Body    *Body
}

// Future is a response which is going to be resolved at some point: once the
// headers of the outgoing message are sent. It resolves exactly once, either
// with a Response or with the error that broke the message.
type Future struct {
	done     chan struct{}
	resp     *Response
	err      error
	resolved bool
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Done returns a channel which is closed at the resolution moment.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the response is resolved or the context expires.
func (f *Future) Await(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// complete must be called by the producing side only. Repeated calls are no-ops.
func (f *Future) complete(resp *Response, err error) {
	if f.resolved {
		return
	}

	f.resolved = true
	f.resp, f.err = resp, err
	close(f.done)
}

// headerSentEvent is the immutable snapshot taken at the moment headers stop
// being mutable. headerLen is non-zero only when the headers were synthesized
// implicitly by the first body write, in which case chunk 0 carries that many
// header bytes in front of the actual body data.
type headerSentEvent struct {
	code      status.Code
	reason    status.Status
	headers   *kv.Storage
	bodyless  bool
	headerLen int
}

// bridge connects the push-driven write side of an outgoing message with the
// pull-driven consumer of the resolved response. All of its methods are driven
// by the single logical producer; the consumer only ever touches the channels.
type bridge struct {
	future   *Future
	ch       chan []byte
	stop     chan struct{}
	stopOnce *sync.Once
	next     int
	resolved bool
	bodyless bool
	finished bool
}

func newBridge(cfg *config.Config) *bridge {
	return &bridge{
		future:   newFuture(),
		ch:       make(chan []byte, cfg.Bridge.ChannelCapacity),
		stop:     make(chan struct{}),
		stopOnce: new(sync.Once),
	}
}

// headersSent resolves the future with the event's status, reason and headers.
// The body sequence stays open unless the status forbids a body, in which case
// it is terminal from the start.
func (b *bridge) headersSent(ev headerSentEvent) {
	if b.resolved {
		return
	}

	b.resolved = true
	b.bodyless = ev.bodyless

	body := &Body{
		src:  b.ch,
		stop: b.teardown,
		skip: ev.headerLen,
	}

	if ev.bodyless {
		b.finished = true
		close(b.ch)
	}

	b.future.complete(&Response{
		Code:    ev.code,
		Status:  ev.reason,
		Headers: ev.headers,
		Body:    body,
	}, nil)
}

// push hands a materialized chunk over to the consumer side. Chunks arriving
// after a no-body status are discarded. If the consumer fell behind by more
// than the channel capacity, push blocks until it catches up or abandons the
// body.
func (b *bridge) push(index int, data []byte, done func(error)) {
	if index != b.next {
		panic(fmt.Sprintf("shim: chunk %d was pushed while %d was expected", index, b.next))
	}

	b.next++

	if b.bodyless || b.finished {
		complete(done, nil)
		return
	}

	select {
	case b.ch <- data:
		complete(done, nil)
	case <-b.stop:
		complete(done, status.ErrReleased)
	}
}

// finish closes the body sequence. No chunks may be pushed afterwards.
func (b *bridge) finish() {
	if b.finished {
		return
	}

	b.finished = true
	close(b.ch)
}

// fail rejects the pending resolution, so a failure on the write side can
// never leave whoever awaits the future hanging. Has no effect once the
// future is resolved.
func (b *bridge) fail(err error) {
	if b.resolved {
		return
	}

	b.resolved = true
	b.finished = true
	b.future.complete(nil, err)
	b.teardown()
}

func (b *bridge) teardown() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
}

func complete(done func(error), err error) {
	if done != nil {
		done(err)
	}
}

// Body is a pull-driven sequence of body chunks. A single consumer, usually
// running on another goroutine than the writer, drains it chunk by chunk.
type Body struct {
	src      <-chan []byte
	stop     func()
	leftover []byte
	skip     int
}

// Next returns the following chunk of the body, blocking until the writing
// side produces one. io.EOF signals the regular end of the body.
func (b *Body) Next() ([]byte, error) {
	for {
		data, ok := <-b.src
		if !ok {
			return nil, io.EOF
		}

		if b.skip > 0 {
			// chunk 0 shares the stream position with the implicitly
			// synthesized header block, which is not body data
			if b.skip >= len(data) {
				b.skip -= len(data)
				continue
			}

			data = data[b.skip:]
			b.skip = 0
		}

		if len(data) == 0 {
			continue
		}

		return data, nil
	}
}

// Read implements io.Reader over the chunk sequence.
func (b *Body) Read(p []byte) (n int, err error) {
	if len(b.leftover) == 0 {
		chunk, err := b.Next()
		if err != nil {
			return 0, err
		}

		b.leftover = chunk
	}

	n = copy(p, b.leftover)
	b.leftover = b.leftover[n:]

	return n, nil
}

// Bytes drains the body to its end and returns everything as a single slice.
func (b *Body) Bytes() ([]byte, error) {
	var buff []byte

	for {
		chunk, err := b.Next()
		switch err {
		case nil:
			buff = append(buff, chunk...)
		case io.EOF:
			return buff, nil
		default:
			return buff, err
		}
	}
}

// Close abandons the body. The writing side stops blocking on the consumer
// and discards everything produced afterwards. May be called at any point,
// also concurrently with a blocked writer.
func (b *Body) Close() error {
	b.stop()
	return nil
}
