package server

import (
	"encoding/json"
	"sync"
)

// Hub tracks which connection belongs to which team room and fans events out
// to everyone in a room. Membership lives here, in an explicit map, never on
// the connection itself.
type Hub struct {
	mu      sync.RWMutex
	nextID  int64
	rooms   map[string]map[int64]chan<- []byte
	members map[int64]string
}

// Subscription is one connection's room membership.
type Subscription struct {
	id  int64
	hub *Hub
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[int64]chan<- []byte),
		members: make(map[int64]string),
	}
}

// Join adds an outbound channel to the team room. The channel is owned by
// the caller; the hub only ever sends to it, dropping when it is full.
func (h *Hub) Join(team string, out chan<- []byte) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.rooms[team] == nil {
		h.rooms[team] = make(map[int64]chan<- []byte)
	}
	h.rooms[team][id] = out
	h.members[id] = team
	return &Subscription{id: id, hub: h}
}

// Close removes the membership. Idempotent.
func (s *Subscription) Close() {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	team, ok := h.members[s.id]
	if !ok {
		return
	}
	delete(h.members, s.id)
	delete(h.rooms[team], s.id)
	if len(h.rooms[team]) == 0 {
		delete(h.rooms, team)
	}
}

// Publish sends a JSON-encoded event to every member of the team room.
// Slow consumers are dropped-from rather than blocked-on.
func (h *Hub) Publish(team string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.rooms[team] {
		select {
		case ch <- data:
		default:
		}
	}
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(team string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[team])
}
