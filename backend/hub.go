package main

import (
	"context"
	"encoding/json"
	"sync"
)

const (
	msgJoinGame = "join_game"
	msgJoined   = "joined"
	msgBotLog   = "bot_log"
	msgPing     = "ping"
	msgError    = "error"
)

// Hub fans websocket messages out to the clients that joined a game room.
type Hub struct {
	mu        sync.Mutex
	rooms     map[string]map[*Client]struct{}
	broadcast chan roomMessage
}

type Client struct {
	hub  *Hub
	send chan []byte
	room string
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type roomMessage struct {
	room string
	msg  wsMessage
}

type joinPayload struct {
	GameID string `json:"game_id"`
}

type botLogPayload struct {
	GameID string `json:"game_id"`
	Log    string `json:"log"`
}

func NewHub() *Hub {
	return &Hub{
		rooms:     make(map[string]map[*Client]struct{}),
		broadcast: make(chan roomMessage, 256),
	}
}

func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case rm := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[rm.room] {
				client.sendJSON(rm.msg)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a message for a room. It never blocks the search; lines
// are dropped when the hub is backed up.
func (h *Hub) Publish(room, typ string, payload any) {
	select {
	case h.broadcast <- roomMessage{room: room, msg: wsMessage{Type: typ, Payload: mustMarshal(payload)}}:
	default:
	}
}

func (h *Hub) NewClient() *Client {
	return &Client{hub: h, send: make(chan []byte, 64)}
}

// Join moves c into room, leaving any previous one.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c)
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.room = room
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c)
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}

func (h *Hub) leaveLocked(c *Client) {
	if c.room == "" {
		return
	}
	if members, ok := h.rooms[c.room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, c.room)
		}
	}
	c.room = ""
}

func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		for c := range members {
			if c.send != nil {
				close(c.send)
				c.send = nil
			}
			c.room = ""
		}
		delete(h.rooms, room)
	}
}

// sendJSON must be called with the hub lock held.
func (c *Client) sendJSON(msg wsMessage) {
	if c.send == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Reply sends msg to c alone.
func (c *Client) Reply(typ string, payload any) {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	c.sendJSON(wsMessage{Type: typ, Payload: mustMarshal(payload)})
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
