// Package shim adapts handler code written against a traditional server
// request/response API to hosting environments which instead expect a single
// asynchronously resolved response value with a pull-based body.
//
// The hosting runtime constructs a pair via NewPair, hands it to the handler,
// and awaits the outcome:
//
//	req, resp := shim.NewPair(nil, "GET", "/", proto.HTTP11, headers, body)
//	go handler(req, resp)
//	future, _ := shim.ResponseOf(resp)
//	response, err := future.Await(ctx)
//
// The handler side mutates headers, writes body chunks and finalizes the
// message exactly as it would against a real server response; the moment its
// headers become immutable, the future resolves.
package shim

import (
	"bytes"
	"io"

	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/proto"
	"github.com/indigo-web/shim/status"
)

// NewPair constructs the legacy-shaped request/response objects for an
// incoming request. Nil cfg falls back to config.Default(), nil headers to an
// empty set, nil body to an empty reader.
func NewPair(
	cfg *config.Config,
	method, target string,
	protocol proto.Protocol,
	headers *kv.Storage,
	body io.Reader,
) (*ServerRequest, *ServerResponse) {
	if cfg == nil {
		cfg = config.Default()
	}
	if headers == nil {
		headers = kv.New()
	}
	if body == nil {
		body = bytes.NewReader(nil)
	}

	request := &ServerRequest{
		Method:   method,
		Target:   target,
		Protocol: protocol,
		Headers:  headers,
		Body:     body,
	}

	return request, newServerResponse(cfg, protocol, request.KeepAlive())
}

// ResponseOf returns the asynchronously resolved response value of a message
// produced by NewPair. Passing anything else is a usage error.
func ResponseOf(v any) (*Future, error) {
	resp, ok := v.(*ServerResponse)
	if !ok {
		return nil, status.ErrInvalidArgumentType
	}

	return resp.bridge.future, nil
}
