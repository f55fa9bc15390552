package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/alfagnish/docai-api/internal/events"
	"github.com/gorilla/websocket"
)

const (
	feedWriteWait = 10 * time.Second

	// A peer that answers no ping within feedPongWait is dropped.
	feedPongWait   = 60 * time.Second
	feedPingPeriod = feedPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins (CORS is handled at the middleware level).
	CheckOrigin: func(r *http.Request) bool { return true },
	Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		writeMessage(w, status, http.StatusText(status))
	},
}

// FeedHandler streams user registry changes over a WebSocket.
type FeedHandler struct {
	hub        *events.Hub
	pingPeriod time.Duration
	pongWait   time.Duration
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(hub *events.Hub) *FeedHandler {
	return &FeedHandler{
		hub:        hub,
		pingPeriod: feedPingPeriod,
		pongWait:   feedPongWait,
	}
}

// Stream upgrades the connection and writes one JSON text frame per event
// until the client disconnects or stops answering pings. Frames sent by the
// client are discarded.
func (h *FeedHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	sub, cancel := h.hub.Subscribe()
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	// The read loop only exists to notice the client going away and to
	// process pongs.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("websocket read error: %v", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteWait)); err != nil {
				log.Printf("websocket ping error: %v", err)
				return
			}
		case e, ok := <-sub:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				log.Printf("encode event %s: %v", e.ID, err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}
		}
	}
}
