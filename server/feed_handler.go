package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/pkg/feed"
)

const (
	EventTypeConnected = "connected"
	EventTypeSettled   = "settled"
	EventTypeHeartbeat = "heartbeat"
)

// FeedHandler bridges feed.Service to HTTP routes (SSE + WebSocket).
type FeedHandler struct {
	svc             *feed.Service
	app             *App
	logger          zerolog.Logger
	heartbeatPeriod time.Duration
	upgrader        websocket.Upgrader
}

// NewFeedHandler creates a settlement feed handler.
func NewFeedHandler(app *App, svc *feed.Service) *FeedHandler {
	return &FeedHandler{
		svc:             svc,
		app:             app,
		logger:          app.logger.With().Str("handler", "feed").Logger(),
		heartbeatPeriod: 30 * time.Second,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// FeedEvent is one message on the settlement stream.
type FeedEvent struct {
	Type      string        `json:"type"`
	Timestamp int64         `json:"timestamp"`
	Rounds    []feed.Update `json:"rounds,omitempty"`
}

// StreamUpdates opens an SSE connection and streams settled rounds.
// Route: GET /api/feed/updates
func (h *FeedHandler) StreamUpdates(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.WriteHeader(http.StatusOK)

	sender := &sseSender{writer: c.Writer}
	h.stream(c, sender, nil)
}

// StreamUpdatesWebSocket opens a WebSocket connection and streams settled rounds.
// Route: GET /api/feed/updates/ws
func (h *FeedHandler) StreamUpdatesWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}
	defer conn.Close() //nolint:errcheck

	writeDeadline := 10 * time.Second
	conn.SetWriteDeadline(time.Now().Add(writeDeadline)) //nolint:errcheck

	done := make(chan struct{})

	// Detect connection close
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(10 * time.Minute)) //nolint:errcheck
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket connection closed unexpectedly")
			} else {
				h.logger.Debug().Err(err).Msg("WebSocket closed normally")
			}
		}
	}()

	pingTicker := time.NewTicker(30 * time.Second)
	go func() {
		defer pingTicker.Stop()
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				deadline := time.Now().Add(5 * time.Second)
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, deadline); err != nil {
					h.logger.Debug().Err(err).Msg("Failed to send ping")
					return
				}
			}
		}
	}()

	sender := &wsSender{
		conn:          conn,
		done:          done,
		logger:        h.logger,
		writeDeadline: writeDeadline,
	}
	h.stream(c, sender, done)
}

// stream handles the common streaming logic for both SSE and WebSocket.
func (h *FeedHandler) stream(c *gin.Context, sender messageSender, doneChan <-chan struct{}) {
	ctx := c.Request.Context()

	batches, cancel := h.svc.Listen(ctx)
	defer cancel()

	if err := sender.Send(&FeedEvent{
		Type:      EventTypeConnected,
		Timestamp: time.Now().Unix(),
	}); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send connected event, stopping stream")
		return
	}

	// Initial snapshot of recent settlements
	if recent := h.svc.Recent(); len(recent) > 0 {
		if err := sender.Send(&FeedEvent{
			Type:      EventTypeSettled,
			Timestamp: time.Now().Unix(),
			Rounds:    recent,
		}); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to send initial snapshot")
			return
		}
	}

	heartbeat := time.NewTicker(h.heartbeatPeriod)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-doneChan:
			h.logger.Debug().Msg("Connection closed, stopping stream")
			return
		case <-heartbeat.C:
			if err := sender.Send(&FeedEvent{
				Type:      EventTypeHeartbeat,
				Timestamp: time.Now().Unix(),
			}); err != nil {
				h.logger.Warn().Err(err).Msg("Failed to send heartbeat, stopping stream")
				return
			}
		case batch, ok := <-batches:
			if !ok {
				return
			}
			if err := sender.Send(&FeedEvent{
				Type:      EventTypeSettled,
				Timestamp: time.Now().Unix(),
				Rounds:    batch,
			}); err != nil {
				h.logger.Warn().Err(err).Int("count", len(batch)).Msg("Failed to send batch, stopping stream")
				return
			}
		}
	}
}

// messageSender interface for sending messages (SSE or WebSocket).
type messageSender interface {
	Send(*FeedEvent) error
}

// sseSender sends messages via SSE.
type sseSender struct {
	writer http.ResponseWriter
}

func (s *sseSender) Send(event *FeedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = s.writer.Write([]byte("data: " + string(payload) + "\n\n"))
	if err != nil {
		return err
	}
	s.writer.(http.Flusher).Flush()
	return nil
}

// wsSender sends messages via WebSocket.
type wsSender struct {
	conn          *websocket.Conn
	done          <-chan struct{}
	logger        zerolog.Logger
	writeDeadline time.Duration
}

func (s *wsSender) Send(event *FeedEvent) error {
	select {
	case <-s.done:
		s.logger.Debug().Str("event_type", event.Type).Msg("Connection already closed, skipping send")
		return io.EOF
	default:
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.writeDeadline)) //nolint:errcheck
	return s.conn.WriteJSON(event)
}
