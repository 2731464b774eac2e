package script

import (
	"context"
	"fmt"
)

// Transport answers client batches in-process with a Manager. It satisfies
// cleeng.Transport; the endpoint is ignored.
type Transport struct {
	manager *Manager
}

// NewTransport creates a Transport backed by m
func NewTransport(m *Manager) *Transport {
	return &Transport{manager: m}
}

// Call runs body through the manager
func (t *Transport) Call(ctx context.Context, _ string, body []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := t.manager.HandleBatch(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("script transport: %w", err)
	}
	return resp, nil
}
