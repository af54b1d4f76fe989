// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Outgoing message types.
const (
	MessageTypePong             = "pong"
	MessageTypeEngagementUpdate = "engagement.update"
	MessageTypeMeetingEvent     = "meeting.event"
	MessageTypeError            = "error"
)

// Message is a server to client message.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

type roomMessage struct {
	room string
	msg  Message
}

// Hub tracks clients by meeting room and fans room messages out to them.
// Registration and broadcast are serialized by RunWithContext.
type Hub struct {
	rooms      map[string]map[*Client]bool
	broadcast  chan roomMessage
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub. It does nothing until RunWithContext is running.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan roomMessage, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// RunWithContext serves registrations and broadcasts until ctx is done,
// then closes every client.
//
// Lifecycle events are drained before broadcasts so a client registered
// before a broadcast was queued is guaranteed to see it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case c := <-h.Register:
			h.add(c)
			continue
		case c := <-h.Unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case c := <-h.Register:
			h.add(c)
		case c := <-h.Unregister:
			h.remove(c)
		case m := <-h.broadcast:
			h.broadcastToRoom(m)
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.room]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[c.room] = room
	}
	room[c] = true
	n := len(room)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Debug().Str("code", c.room).Int("room_clients", n).Msg("websocket client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop removes c and closes its send channel. Caller holds h.mu.
func (h *Hub) drop(c *Client) {
	room, ok := h.rooms[c.room]
	if !ok || !room[c] {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.room)
	}
	close(c.send)
	metrics.WSConnections.Dec()
	logging.Debug().Str("code", c.room).Int("room_clients", len(room)).Msg("websocket client disconnected")
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	n := h.GetClientCount()
	h.closeAllClients()
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", n).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sorted returns the clients of room in ID order.
func sorted(room map[*Client]bool) []*Client {
	out := make([]*Client, 0, len(room))
	for c := range room {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// broadcastToRoom delivers m in client ID order. A client whose buffer is
// full is disconnected rather than allowed to stall the room.
func (h *Hub) broadcastToRoom(m roomMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[m.room]
	if !ok {
		return
	}
	for _, c := range sorted(room) {
		select {
		case c.send <- m.msg:
		default:
			metrics.WSMessagesDropped.Inc()
			logging.Warn().Str("code", m.room).Uint64("client_id", c.id).Msg("dropping slow websocket client")
			h.drop(c)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	codes := make([]string, 0, len(h.rooms))
	for code := range h.rooms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		for _, c := range sorted(h.rooms[code]) {
			h.drop(c)
		}
	}
}

// BroadcastToRoom queues a message for every client in the room of code.
// It never blocks; the message is dropped when the queue is full.
func (h *Hub) BroadcastToRoom(code, msgType string, data interface{}) {
	select {
	case h.broadcast <- roomMessage{room: code, msg: Message{Type: msgType, Data: data}}:
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Str("code", code).Str("message_type", msgType).Msg("broadcast channel full, dropping message")
	}
}

// sendTo queues msg for c alone. It is a no-op once c has been dropped,
// since drop closes c.send under the same lock.
func (h *Hub) sendTo(c *Client, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.rooms[c.room][c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		metrics.WSMessagesDropped.Inc()
	}
}

// GetClientCount returns the number of connected clients across all rooms.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, room := range h.rooms {
		n += len(room)
	}
	return n
}

// RoomClientCount returns the number of clients watching code.
func (h *Hub) RoomClientCount(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
