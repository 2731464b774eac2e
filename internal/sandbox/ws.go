package sandbox

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = DefaultMaxBodySize
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// WSHandler answers each text frame with one frame carrying the response
type WSHandler struct {
	backend BatchHandler
	logger  zerolog.Logger
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(backend BatchHandler, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		backend: backend,
		logger:  logger.With().Str("component", "sandbox-ws").Logger(),
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	logger := h.logger.With().Str("remoteAddr", r.RemoteAddr).Logger()
	logger.Info().Msg("new WebSocket connection")

	s := &session{conn: conn, backend: h.backend, logger: logger}
	s.run(r.Context())
}

// session serves one connection. Frames are handled in order.
type session struct {
	conn    *websocket.Conn
	backend BatchHandler
	logger  zerolog.Logger
}

func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	frames := make(chan []byte)
	go s.readPump(ctx, frames)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-frames:
			if !ok {
				return
			}
			resp, err := s.backend.HandleBatch(ctx, data)
			if err != nil {
				s.logger.Error().Err(err).Msg("failed to handle message")
				return
			}
			if resp == nil {
				continue
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, resp); err != nil {
				s.logger.Debug().Err(err).Msg("write error")
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) readPump(ctx context.Context, frames chan<- []byte) {
	defer close(frames)
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("read error")
			}
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		select {
		case frames <- data:
		case <-ctx.Done():
			return
		}
	}
}
