package live

import (
	"encoding/json"
	"log/slog"
)

// Event is the wire format pushed to subscribers of a tournament room.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

type roomMessage struct {
	room string
	data []byte
}

// Hub fans tournament events out to websocket clients grouped by
// tournament id. All room state is owned by the Run goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	rooms      map[string]map[*Client]bool
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("live client registered",
				slog.String("room", client.room),
				slog.Int("clients", len(h.rooms[client.room])),
			)

		case client := <-h.unregister:
			if clients, ok := h.rooms[client.room]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.room] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer: drop it rather than block the hub.
					delete(h.rooms[msg.room], client)
					close(client.send)
				}
			}
		}
	}
}

// Publish sends an event to every client subscribed to the room.
// Safe to call from any goroutine; a full broadcast queue drops the event.
func (h *Hub) Publish(room, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, RoomID: room})
	if err != nil {
		h.logger.Error("failed to encode live event", slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- roomMessage{room: room, data: data}:
	default:
		h.logger.Warn("live broadcast queue full, event dropped", slog.String("room", room))
	}
}
