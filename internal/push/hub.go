// Package push delivers best-effort notifications to connected clients
// over WebSocket. A client with no open session simply receives
// nothing, the same way a denied OS notification permission silently
// degrades to the persisted-only log.
package push

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/olahol/melody"
	"go.uber.org/zap"

	"fintra/internal/engine"
	"fintra/internal/logger"
)

const sessionUserKey = "user_id"

// Hub owns the WebSocket sessions and broadcasts push requests to the
// sessions belonging to a single user.
type Hub struct {
	m   *melody.Melody
	log *zap.SugaredLogger
}

// NewHub creates a hub with keep-alive settings suitable for proxied
// cloud hosting.
func NewHub() *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &Hub{m: m, log: logger.Named("push")}

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get(sessionUserKey)
		h.log.Infow("push session connected", "user_id", userID)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get(sessionUserKey)
		h.log.Infow("push session disconnected", "user_id", userID)
	})
	m.HandleError(func(s *melody.Session, err error) {
		h.log.Warnw("push session error", "error", err)
	})

	return h
}

// HandleRequest upgrades an authenticated HTTP request to a WebSocket
// session tagged with the user's ID.
func (h *Hub) HandleRequest(w http.ResponseWriter, r *http.Request, userID string) error {
	return h.m.HandleRequestWithKeys(w, r, map[string]interface{}{sessionUserKey: userID})
}

// pushMessage is the wire shape sent to clients.
type pushMessage struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Push implements engine.Pusher: broadcast to the user's sessions.
// Having no connected session is not an error.
func (h *Hub) Push(userID string, req engine.PushRequest) error {
	msg, err := json.Marshal(pushMessage{Type: "notification", Title: req.Title, Body: req.Body})
	if err != nil {
		return err
	}

	return h.m.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, ok := s.Get(sessionUserKey)
		return ok && id == userID
	})
}

// Close shuts down all sessions.
func (h *Hub) Close() error {
	return h.m.Close()
}
