package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/http-server/handlers/event"
	"github.com/fentashot/casino/internal/lib/logger/sl"
)

type Subscription struct {
	Conn    *websocket.Conn
	Channel string
}

type Hub struct {
	Channels  map[string]map[*websocket.Conn]bool
	Broadcast chan event.Message
	Subscribe chan Subscription
	mutex     sync.RWMutex
	log       *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		Channels:  make(map[string]map[*websocket.Conn]bool),
		Broadcast: make(chan event.Message),
		Subscribe: make(chan Subscription),
		log:       log,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (hub *Hub) run() {
	for {
		select {
		case sub := <-hub.Subscribe:
			hub.mutex.Lock()
			if hub.Channels[sub.Channel] == nil {
				hub.Channels[sub.Channel] = make(map[*websocket.Conn]bool)
			}
			hub.Channels[sub.Channel][sub.Conn] = true
			hub.mutex.Unlock()
		case message := <-hub.Broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				hub.log.Error("failed to marshal message", sl.Err(err))

				continue
			}

			hub.mutex.RLock()
			receivers := hub.Channels[message.Channel]

			for conn := range receivers {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					hub.log.Error("failed to write message", sl.Err(err))
				}
			}
			hub.mutex.RUnlock()
		}
	}
}

// HandleConnection upgrades the request and keeps reading subscribe
// frames: {"channel": "..."} registers the socket for that channel.
func (hub *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("failed to upgrade connection", sl.Err(err))

		return
	}
	defer func(ws *websocket.Conn) {
		if err = ws.Close(); err != nil {
			hub.log.Error("failed to close connection", sl.Err(err))
		}

		hub.drop(ws)
	}(ws)

	if channel := r.URL.Query().Get("channel"); channel != "" {
		hub.Subscribe <- Subscription{Conn: ws, Channel: channel}
	}

	for {
		_, p, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var sub struct {
			Channel string `json:"channel"`
		}

		if err = json.Unmarshal(p, &sub); err != nil {
			hub.log.Error("failed to unmarshal message", sl.Err(err))

			continue
		}

		if sub.Channel == "" {
			continue
		}

		hub.log.Info("subscription received", sl.String("channel", sub.Channel))

		hub.Subscribe <- Subscription{Conn: ws, Channel: sub.Channel}
	}
}

func (hub *Hub) drop(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for _, receivers := range hub.Channels {
		delete(receivers, conn)
	}
}

func (hub *Hub) RunServer() {
	go hub.run()
}
