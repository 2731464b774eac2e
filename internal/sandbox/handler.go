// Package sandbox serves script handlers as a local Cleeng JSON-RPC
// endpoint over HTTP and WebSocket.
package sandbox

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"cleengo/internal/jsonrpc"
)

// DefaultMaxBodySize bounds one request body
const DefaultMaxBodySize = 1 << 20

// BatchHandler answers a raw JSON-RPC body. A nil response means nothing
// is owed to the caller.
type BatchHandler interface {
	HandleBatch(ctx context.Context, body []byte) ([]byte, error)
}

// Handler handles HTTP JSON-RPC requests
type Handler struct {
	backend     BatchHandler
	maxBodySize int64
	logger      zerolog.Logger
}

// NewHandler creates a new Handler. A non-positive maxBodySize means
// DefaultMaxBodySize.
func NewHandler(backend BatchHandler, maxBodySize int64, logger zerolog.Logger) *Handler {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &Handler{
		backend:     backend,
		maxBodySize: maxBodySize,
		logger:      logger.With().Str("component", "sandbox-http").Logger(),
	}
}

// ServeHTTP handles HTTP requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodySize+1))
	if err != nil {
		h.writeJSONRPCError(w, jsonrpc.NewError(jsonrpc.CodeParseError, "failed to read request body"))
		return
	}
	if int64(len(body)) > h.maxBodySize {
		h.writeJSONRPCError(w, jsonrpc.NewError(jsonrpc.CodeInvalidRequest, "request body too large"))
		return
	}

	data, err := h.backend.HandleBatch(r.Context(), body)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to handle request")
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.logger.Debug().
		Int("requestBytes", len(body)).
		Int("responseBytes", len(data)).
		Msg("request served")
	h.write(w, data)
}

func (h *Handler) write(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// writeJSONRPCError writes a JSON-RPC error response with a null id
func (h *Handler) writeJSONRPCError(w http.ResponseWriter, rpcErr *jsonrpc.Error) {
	data, err := jsonrpc.NewErrorResponse(jsonrpc.NewIDNull(), rpcErr).Bytes()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal response")
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.write(w, data)
}

// writeError writes a plain HTTP error
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}
