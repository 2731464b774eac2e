package entity

import "errors"

// StateError reports use of a placeholder in the wrong lifecycle state
type StateError struct {
	Msg string
}

// Error implements the error interface
func (e *StateError) Error() string {
	return e.Msg
}

// ErrNotPopulated is returned by every guarded accessor while the
// placeholder is still waiting for its response.
var ErrNotPopulated = &StateError{Msg: "not yet populated"}

// ErrNoSuchField is wrapped by the ArgumentError returned when a populated
// placeholder is asked for a field the server never sent.
var ErrNoSuchField = errors.New("property does not exist")

// ArgumentError reports malformed input handed to Populate or to a call
type ArgumentError struct {
	Msg string
	Err error
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap returns the wrapped cause
func (e *ArgumentError) Unwrap() error {
	return e.Err
}
