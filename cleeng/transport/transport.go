// Package transport delivers encoded JSON-RPC batches to a Cleeng endpoint.
//
// HTTP and WS talk to the network. Cached, Breaker and Limited wrap
// another Caller and can be stacked in any order.
package transport

import "context"

// Caller sends one request body to endpoint and returns the raw response
// body. It has the same method set as cleeng.Transport.
type Caller interface {
	Call(ctx context.Context, endpoint string, body []byte) ([]byte, error)
}

// Func adapts a plain function into a Caller
type Func func(ctx context.Context, endpoint string, body []byte) ([]byte, error)

// Call implements Caller
func (f Func) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	return f(ctx, endpoint, body)
}
