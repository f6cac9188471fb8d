package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// RoomClient is one participant connection inside a meeting room.
type RoomClient struct {
	UserID int64
	Role   string
	conn   *websocket.Conn
	mu     sync.Mutex
}

func NewRoomClient(userID int64, role string, conn *websocket.Conn) *RoomClient {
	return &RoomClient{UserID: userID, Role: role, conn: conn}
}

func (c *RoomClient) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// RoomHub maintains the participants of each meeting room, keyed by the
// consultation's room name. A room holds at most the requester and the
// consultant.
type RoomHub struct {
	mu    sync.RWMutex
	rooms map[string]map[*RoomClient]struct{}
}

func NewRoomHub() *RoomHub {
	return &RoomHub{rooms: make(map[string]map[*RoomClient]struct{})}
}

func (h *RoomHub) Join(roomName string, c *RoomClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomName] == nil {
		h.rooms[roomName] = make(map[*RoomClient]struct{})
	}
	h.rooms[roomName][c] = struct{}{}
}

func (h *RoomHub) Leave(roomName string, c *RoomClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.rooms[roomName]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.rooms, roomName)
		}
	}
}

// Broadcast sends payload to every participant in the room except sender.
func (h *RoomHub) Broadcast(roomName string, sender *RoomClient, payload []byte) {
	h.mu.RLock()
	peers := make([]*RoomClient, 0, 2)
	for c := range h.rooms[roomName] {
		if c != sender {
			peers = append(peers, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range peers {
		if err := c.Send(payload); err != nil {
			// The read pump notices the broken connection and leaves the room.
			continue
		}
	}
}
