package controller

import (
	"sync"

	"github.com/gorilla/websocket"
)

// hub tracks live websocket connections per room so the controller can tell
// when a room gains its first viewer or loses its last one.
type hub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{
		rooms: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// add registers a connection and reports whether it is the first one for the
// room.
func (h *hub) add(roomId string, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomId]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.rooms[roomId] = conns
	}
	conns[conn] = struct{}{}

	return len(conns) == 1
}

// remove unregisters a connection and reports whether the room is now vacated.
func (h *hub) remove(roomId string, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomId]
	if !ok {
		return true
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.rooms, roomId)
		return true
	}

	return false
}
