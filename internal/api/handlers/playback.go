package handlers

import (
	"route-creator/internal/api/dto"
	"route-creator/internal/domain"
	"route-creator/internal/platform/logger"
	"route-creator/internal/playback"
	"route-creator/internal/session"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// PlaybackHandler streams marker positions for the current route. Each
// connection owns one player; "toggle" starts or stops it and "stop" ends it.
type PlaybackHandler struct {
	Session *session.Session
	Options playback.Options
}

// playbackWriteWait bounds each frame write so a client that stops reading
// cannot block the player.
const playbackWriteWait = 2 * time.Second

// frameConn is the subset of *websocket.Conn used to send frames.
type frameConn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
}

// wsSink serializes all writes to one connection.
type wsSink struct {
	mu   sync.Mutex
	conn frameConn
	wait time.Duration
}

func newWSSink(conn frameConn) *wsSink {
	return &wsSink{conn: conn, wait: playbackWriteWait}
}

func (s *wsSink) send(msg dto.PlaybackMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.wait)); err != nil {
		logger.L().Debug("playback write deadline failed", zap.Error(err))
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		logger.L().Debug("playback write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

func (s *wsSink) Move(c domain.Coordinates) {
	lon, lat := c.Lon, c.Lat
	s.send(dto.PlaybackMessage{Type: "move", Lon: &lon, Lat: &lat})
}

func (s *wsSink) Release() {
	s.send(dto.PlaybackMessage{Type: "release"})
}

func (h *PlaybackHandler) Stream(c *websocket.Conn) {
	sink := newWSSink(c)
	player := playback.NewPlayer(h.Options)
	defer player.Stop()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}

		switch strings.TrimSpace(strings.ToLower(string(msg))) {
		case "toggle":
			st := h.Session.Snapshot()
			if !player.Playing() && !st.HasRoute() {
				sink.send(dto.PlaybackMessage{Type: "error", Error: "no route available to play"})
				continue
			}
			playing := player.Toggle(st.Route.Geometry, sink)
			sink.send(dto.PlaybackMessage{Type: "state", Playing: &playing})
		case "stop":
			player.Stop()
			playing := false
			sink.send(dto.PlaybackMessage{Type: "state", Playing: &playing})
		default:
			sink.send(dto.PlaybackMessage{Type: "error", Error: "unknown command"})
		}
	}
}
