package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/internal/dataset"
	"github.com/wonny/aistocks/internal/selection"
	"github.com/wonny/aistocks/internal/session"
	"github.com/wonny/aistocks/pkg/logger"
)

const (
	// Ping/Pong settings
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	maxMessageSize = 4096
)

// Server message types
const (
	MessageView  = "view"
	MessageError = "error"
)

// ActionResync re-pins the session to the newest dataset, keeping the selection
const ActionResync = "resync"

// ServerMessage is sent to WebSocket clients
type ServerMessage struct {
	Type    string          `json:"type"`
	Version int64           `json:"version,omitempty"`
	View    *selection.View `json:"view,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SessionHandler runs interactive dashboard sessions over WebSocket.
// Every connection owns its selection state; nothing is shared between sessions.
type SessionHandler struct {
	catalog  *contracts.Catalog
	data     *dataset.Store
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(cat *contracts.Catalog, data *dataset.Store, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		catalog: cat,
		data:    data,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: log.WithField("handler", "session"),
	}
}

// ServeWS upgrades the connection and serves one session until the client leaves
// GET /ws
func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := &sessionConn{conn: conn}
	defer conn.Close()

	snap := h.data.Snapshot()
	sess := session.New(h.catalog, snap.Records)
	log := h.logger.WithFields(map[string]interface{}{
		"remote":  r.RemoteAddr,
		"version": snap.Version,
	})
	log.Debug("Session opened")

	done := make(chan struct{})
	defer close(done)
	go c.pingLoop(done)

	if err := c.sendView(snap.Version, sess); err != nil {
		return
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("Session closed unexpectedly")
			}
			break
		}

		var action session.Action
		if err := json.Unmarshal(data, &action); err != nil {
			if c.send(ServerMessage{Type: MessageError, Error: "invalid action: " + err.Error()}) != nil {
				break
			}
			continue
		}

		if action.Type == ActionResync {
			snap = h.data.Snapshot()
			sess.SetRecords(snap.Records)
		} else if err := sess.Apply(action); err != nil {
			if c.send(ServerMessage{Type: MessageError, Error: err.Error()}) != nil {
				break
			}
			continue
		}

		if c.sendView(snap.Version, sess) != nil {
			break
		}
	}

	log.Debug("Session closed")
}

// sessionConn serializes writes from the reader and the pinger
type sessionConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *sessionConn) send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *sessionConn) sendView(version int64, sess *session.Session) error {
	view := sess.View()
	return c.send(ServerMessage{Type: MessageView, Version: version, View: &view})
}

func (c *sessionConn) pingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
