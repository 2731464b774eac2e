package cleeng

import (
	"bytes"
	"fmt"

	"cleengo/cleeng/entity"
	"cleengo/internal/jsonrpc"
)

// pendingCall is one queued invocation. The payload is encoded when the
// call is queued; an encoding failure is kept and reported at dispatch.
type pendingCall struct {
	id      int64
	method  string
	payload []byte
	encErr  error
	entity  entity.Entity
}

// ledger holds the calls of the current cycle in insertion order. Ids are
// 1..N within a cycle and restart at 1 after reset.
type ledger struct {
	lastID int64
	calls  []*pendingCall
	byID   map[int64]*pendingCall
}

func (l *ledger) add(method string, params any, e entity.Entity) *pendingCall {
	if l.byID == nil {
		l.byID = make(map[int64]*pendingCall)
	}
	l.lastID++
	call := &pendingCall{
		id:     l.lastID,
		method: method,
		entity: e,
	}
	call.payload, call.encErr = encodeCall(method, params, call.id)

	l.calls = append(l.calls, call)
	l.byID[call.id] = call
	return call
}

func (l *ledger) lookup(id int64) (*pendingCall, bool) {
	call, ok := l.byID[id]
	return call, ok
}

func (l *ledger) len() int {
	return len(l.calls)
}

// encode joins the queued payloads into one batch array in id order
func (l *ledger) encode() ([]byte, error) {
	encoded := make([][]byte, 0, len(l.calls))
	for _, call := range l.calls {
		if call.encErr != nil {
			return nil, &ArgumentError{
				Msg: fmt.Sprintf("cannot encode params of %s (call %d)", call.method, call.id),
				Err: call.encErr,
			}
		}
		encoded = append(encoded, call.payload)
	}
	return jsonrpc.MarshalBatchRequest(encoded), nil
}

func (l *ledger) reset() {
	l.lastID = 0
	l.calls = nil
	l.byID = nil
}

func encodeCall(method string, params any, id int64) ([]byte, error) {
	req, err := jsonrpc.NewRequest(method, params, jsonrpc.NewIDInt(id))
	if err != nil {
		return nil, err
	}
	if p := bytes.TrimSpace(req.Params); len(p) == 0 || p[0] != '{' {
		return nil, fmt.Errorf("params must encode to a JSON object, got %s", clip(req.Params))
	}
	return req.Bytes()
}
