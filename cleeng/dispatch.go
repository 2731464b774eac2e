package cleeng

import (
	"context"
	"fmt"
	"reflect"

	"cleengo/cleeng/entity"
	"cleengo/internal/jsonrpc"
)

// Call queues method with params and returns placeholder, or a new
// entity.Base when placeholder is nil. Outside batch mode the ledger is
// flushed before Call returns. params must encode to a JSON object; nil
// is sent as {}.
func (c *Client) Call(ctx context.Context, method string, params any, placeholder entity.Entity) (entity.Entity, error) {
	if method == "" {
		return nil, &ArgumentError{Msg: "method name is required"}
	}
	if placeholder == nil {
		placeholder = entity.NewBase()
	} else if rv := reflect.ValueOf(placeholder); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, &ArgumentError{Msg: fmt.Sprintf("placeholder must not be a nil %T", placeholder)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	call := c.ledger.add(method, params, placeholder)
	c.logger.Debug().Str("method", method).Int64("id", call.id).Bool("batch", c.batchMode).Msg("call queued")

	if c.batchMode {
		return placeholder, nil
	}
	return placeholder, c.flushLocked(ctx)
}

// Commit sends every queued call as one batch and reconciles the response.
// The ledger is empty afterwards whatever the outcome. An empty ledger is
// still sent, as an empty array.
func (c *Client) Commit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked(ctx)
}

// Batch runs fn in batch mode and commits the calls it queued. The
// previous mode is restored. If fn fails nothing is sent, the queued calls
// are dropped and fn's error is returned.
func (c *Client) Batch(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	prev := c.batchMode
	c.batchMode = true
	c.mu.Unlock()

	err := fn()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchMode = prev
	if err != nil {
		c.logger.Debug().Int("calls", c.ledger.len()).Msg("batch discarded")
		c.ledger.reset()
		return err
	}
	return c.flushLocked(ctx)
}

// Discard drops every queued call without sending it
func (c *Client) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger.reset()
}

func (c *Client) flushLocked(ctx context.Context) error {
	defer c.ledger.reset()

	body, err := c.ledger.encode()
	if err != nil {
		return err
	}

	c.lastRequest = body
	c.lastResponse = nil
	c.logger.Debug().Int("calls", c.ledger.len()).Int("bytes", len(body)).Msg("dispatching batch")

	resp, err := c.transport.Call(ctx, c.endpoint, body)
	c.lastResponse = resp
	if err != nil {
		return err
	}

	if err := c.reconcile(resp); err != nil {
		return err
	}
	c.logger.Debug().Int("calls", c.ledger.len()).Msg("batch reconciled")
	return nil
}

// reconcile applies each response element to its call by id. Elements
// are checked first and placeholders filled only when no element failed, so
// a failing batch leaves every placeholder pending.
func (c *Client) reconcile(raw []byte) error {
	elems, err := jsonrpc.SplitBatch(raw)
	if err != nil {
		return &ProtocolError{Reason: ReasonInvalidJSON, Raw: raw}
	}
	if len(elems) == 0 {
		return &ProtocolError{Reason: ReasonEmptyResponse, Raw: raw}
	}

	commits := make([]func() error, 0, len(elems))

	for _, elem := range elems {
		resp, err := jsonrpc.ParseResponse(elem)
		if err != nil || resp.ID.IsNull() {
			return &ProtocolError{Reason: ReasonMissingID, Raw: raw}
		}

		id, ok := resp.ID.Int64()
		var call *pendingCall
		if ok {
			call, ok = c.ledger.lookup(id)
		}
		if !ok {
			c.logger.Warn().Str("id", resp.ID.String()).Msg("ignoring response for unknown call id")
			continue
		}

		if resp.HasError() {
			e := resp.ErrorObject()
			return &APIError{
				Method:  call.method,
				ID:      call.id,
				Code:    e.Code,
				Message: e.Message,
				Data:    e.Data,
			}
		}

		if !resp.ResultIsStructured() {
			c.logger.Debug().Str("method", call.method).Str("type", resp.ResultType()).Msg("unexpected result type")
			return &APIError{Method: call.method, ID: call.id, Message: MsgInvalidResultType}
		}

		commit, err := entity.Prepare(call.entity, resp.Result)
		if err != nil {
			return err
		}
		commits = append(commits, commit)
	}

	for _, commit := range commits {
		if err := commit(); err != nil {
			return err
		}
	}
	return nil
}
