package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSConfig configures a WebSocket transport
type WSConfig struct {
	HandshakeTimeout time.Duration
	// MessageTimeout bounds one write+read exchange when ctx has no deadline
	MessageTimeout time.Duration
	Logger         zerolog.Logger
}

// WS sends each batch as one text frame and reads one frame back.
// Connections are dialled on first use, one per endpoint, and calls are
// serialized.
type WS struct {
	cfg    WSConfig
	logger zerolog.Logger

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

// NewWS creates a WebSocket transport
func NewWS(cfg WSConfig) *WS {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.MessageTimeout <= 0 {
		cfg.MessageTimeout = DefaultTimeout
	}
	return &WS{
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "ws-transport").Logger(),
		conns:  make(map[string]*websocket.Conn),
	}
}

// Call implements Caller
func (w *WS) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	conn, err := w.connLocked(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(w.cfg.MessageTimeout)
	}
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		w.dropLocked(endpoint)
		return nil, w.exchangeError(ctx, "write", err)
	}

	conn.SetReadDeadline(deadline)
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			w.dropLocked(endpoint)
			return nil, w.exchangeError(ctx, "read", err)
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (w *WS) exchangeError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	w.logger.Error().Err(err).Str("op", op).Msg("WebSocket exchange failed")
	return fmt.Errorf("WebSocket %s failed: %w", op, err)
}

func (w *WS) connLocked(ctx context.Context, endpoint string) (*websocket.Conn, error) {
	if conn, ok := w.conns[endpoint]; ok {
		return conn, nil
	}

	url := WSURL(endpoint)
	w.logger.Info().Str("url", url).Msg("WebSocket connecting")
	dialer := websocket.Dialer{HandshakeTimeout: w.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		w.logger.Error().Err(err).Str("url", url).Msg("WebSocket dial failed")
		return nil, fmt.Errorf("failed to connect WebSocket: %w", err)
	}
	w.logger.Info().Str("url", url).Msg("WebSocket connected")

	w.conns[endpoint] = conn
	return conn, nil
}

func (w *WS) dropLocked(endpoint string) {
	if conn, ok := w.conns[endpoint]; ok {
		conn.Close()
		delete(w.conns, endpoint)
	}
}

// Close closes every open connection
func (w *WS) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	for endpoint, conn := range w.conns {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(w.conns, endpoint)
	}
	return errors.Join(errs...)
}

// WSURL maps an http(s) endpoint onto the matching ws(s) URL. Other
// schemes are returned unchanged.
func WSURL(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	default:
		return endpoint
	}
}
