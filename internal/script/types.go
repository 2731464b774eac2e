package script

// Handler is one loaded JavaScript method handler
type Handler struct {
	Name   string // file name without extension
	Method string // JSON-RPC method it answers
	Script string // JavaScript source
}

// Handler error codes
const (
	ErrCodeExecution   = -32002
	ErrCodeTimeout     = -32003
	ErrCodeInvalidArgs = -32004
)

// Error is a failure raised by a handler. Scripts produce one by throwing
// an object with code and message.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}
