package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotArray is returned by SplitBatch when the body is not a JSON array
var ErrNotArray = errors.New("response is not a JSON array")

// Response represents a JSON-RPC response.
//
// Error is kept raw: servers in the wild send null, false or an empty
// object for "no error", and only a truthy value counts as a failure.
type Response struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
	ID      ID              `json:"id"`
}

// HasError returns true if the response carries a non-empty error value
func (r *Response) HasError() bool {
	return truthy(r.Error)
}

// ErrorObject decodes the error member. A bare string error becomes the
// message; any other shape is carried verbatim as the message.
func (r *Response) ErrorObject() *Error {
	if !r.HasError() {
		return nil
	}
	raw := bytes.TrimSpace(r.Error)
	switch raw[0] {
	case '{':
		var e Error
		if err := json.Unmarshal(raw, &e); err == nil {
			return &e
		}
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return &Error{Message: s}
		}
	}
	return &Error{Message: string(raw)}
}

// ResultIsStructured returns true if the result is a JSON object or array
func (r *Response) ResultIsStructured() bool {
	raw := trimWhitespace(r.Result)
	return len(raw) > 0 && (raw[0] == '{' || raw[0] == '[')
}

// ResultType names the JSON type of the result, for error messages
func (r *Response) ResultType() string {
	raw := trimWhitespace(r.Result)
	if len(raw) == 0 {
		return "missing"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// NewResponseRaw creates a response with raw JSON result
func NewResponseRaw(id ID, result json.RawMessage) *Response {
	return &Response{
		JSONRPC: Version,
		Result:  result,
		ID:      id,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(id ID, err *Error) *Response {
	raw, _ := json.Marshal(err)
	return &Response{
		JSONRPC: Version,
		Error:   raw,
		ID:      id,
	}
}

// ParseResponse parses a JSON-RPC response from bytes
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SplitBatch decodes a batch response body into its raw elements without
// interpreting them, so callers can validate element by element.
func SplitBatch(data []byte) ([]json.RawMessage, error) {
	data = trimWhitespace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, ErrNotArray
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	return elems, nil
}

// ParseBatchResponse parses a batch of JSON-RPC responses
func ParseBatchResponse(data []byte) ([]*Response, bool, error) {
	data = trimWhitespace(data)
	if len(data) == 0 {
		return nil, false, ErrInvalidRequest
	}

	if data[0] == '[' {
		var responses []*Response
		if err := json.Unmarshal(data, &responses); err != nil {
			return nil, true, err
		}
		return responses, true, nil
	}

	resp, err := ParseResponse(data)
	if err != nil {
		return nil, false, err
	}
	return []*Response{resp}, false, nil
}

// MarshalBatchResponse marshals multiple responses as a JSON array
func MarshalBatchResponse(responses []*Response) ([]byte, error) {
	return json.Marshal(responses)
}

// Bytes returns the response as JSON bytes
func (r *Response) Bytes() ([]byte, error) {
	return json.Marshal(r)
}

// truthy reports whether raw JSON would count as set: null, false, 0,
// "", "0", [] and {} do not.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", `""`, `"0"`:
		return false
	}
	switch raw[0] {
	case '[', '{':
		inner := bytes.TrimSpace(raw[1 : len(raw)-1])
		return len(inner) > 0
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f != 0
		}
	}
	return true
}
