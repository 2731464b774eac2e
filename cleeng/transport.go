package cleeng

import "context"

// Transport delivers one encoded batch to endpoint and returns the raw
// response body. Errors are handed to the caller of the dispatching
// operation unchanged.
type Transport interface {
	Call(ctx context.Context, endpoint string, body []byte) ([]byte, error)
}

// TransportFunc adapts a function into a Transport
type TransportFunc func(ctx context.Context, endpoint string, body []byte) ([]byte, error)

// Call implements Transport
func (f TransportFunc) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	return f(ctx, endpoint, body)
}
