package cleeng

import (
	"encoding/json"
	"fmt"

	"cleengo/cleeng/entity"
)

// Placeholder errors live in package entity; they are re-exported so that
// callers of the client only need one import.
type (
	ArgumentError = entity.ArgumentError
	StateError    = entity.StateError
)

var (
	ErrNotPopulated = entity.ErrNotPopulated
	ErrNoSuchField  = entity.ErrNoSuchField
)

// Protocol failure reasons
const (
	ReasonInvalidJSON   = "invalid-json"
	ReasonEmptyResponse = "empty-response"
	ReasonMissingID     = "missing-id"
)

// ProtocolError reports a response body that is not a usable JSON-RPC
// batch. Raw holds the body as received.
type ProtocolError struct {
	Reason string
	Raw    []byte
}

// Sentinels for errors.Is; they match any ProtocolError with the same Reason
var (
	ErrInvalidJSON   = &ProtocolError{Reason: ReasonInvalidJSON}
	ErrEmptyResponse = &ProtocolError{Reason: ReasonEmptyResponse}
	ErrMissingID     = &ProtocolError{Reason: ReasonMissingID}
)

func (e *ProtocolError) Error() string {
	switch e.Reason {
	case ReasonInvalidJSON:
		return fmt.Sprintf("%s: expected a JSON array, received: %s", e.Reason, clip(e.Raw))
	case ReasonEmptyResponse:
		return e.Reason + ": empty response received"
	case ReasonMissingID:
		return e.Reason + ": response element has no JSON-RPC id"
	default:
		return e.Reason
	}
}

// Is matches on Reason
func (e *ProtocolError) Is(target error) bool {
	t, ok := target.(*ProtocolError)
	return ok && t.Reason == e.Reason
}

// MsgInvalidResultType is the APIError message for a result that is not an
// object or array
const MsgInvalidResultType = "invalid-result-type"

// APIError is a failure reported by the server for one call of a batch, or
// a result of the wrong shape. Error returns Message unchanged.
type APIError struct {
	Method  string
	ID      int64
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	return e.Message
}

// PreconditionError is returned by a convenience method invoked before the
// token it needs was configured. Nothing is queued.
type PreconditionError struct {
	Method string
	Token  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot call %s: %s token must be set first", e.Method, e.Token)
}

func clip(raw []byte) string {
	const max = 256
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
