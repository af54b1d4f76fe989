// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package websocket

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/moodmeet/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2 * 1024 * 1024 // frames are base64 images
	dispatchWait   = 10 * time.Second
)

var clientIDCounter atomic.Uint64

// Client is one connection in a meeting room.
type Client struct {
	id         uint64
	hub        *Hub
	conn       *websocket.Conn
	room       string
	send       chan Message
	dispatcher *Dispatcher
}

// NewClient creates a client for the room of code. d may be nil for
// watch-only connections.
func NewClient(hub *Hub, conn *websocket.Conn, code string, d *Dispatcher) *Client {
	return &Client{
		id:         clientIDCounter.Add(1),
		hub:        hub,
		conn:       conn,
		room:       code,
		send:       make(chan Message, 256),
		dispatcher: d,
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 { return c.id }

// Room returns the meeting code the client is attached to.
func (c *Client) Room() string { return c.room }

// reply queues msg for this client only.
func (c *Client) reply(msg Message) {
	c.hub.sendTo(c, msg)
}

func (c *Client) readPump() {
	defer func() {
		// The hub may already be stopped during shutdown.
		select {
		case c.hub.Unregister <- c:
		case <-time.After(writeWait):
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Str("code", c.room).Msg("unexpected websocket close error")
			}
			return
		}
		c.handle(data)
	}
}

func (c *Client) handle(data []byte) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		c.reply(Message{Type: MessageTypeError, Data: ErrorData{Message: "invalid JSON message"}})
		return
	}
	if c.dispatcher == nil {
		if in.Type == MessageTypePing {
			c.reply(Message{Type: MessageTypePong})
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchWait)
	defer cancel()
	out, err := c.dispatcher.Dispatch(ctx, c.room, in)
	if err != nil {
		logging.Debug().Err(err).Str("code", c.room).Str("type", in.Type).Msg("websocket message rejected")
		c.reply(Message{Type: MessageTypeError, Data: ErrorData{Type: in.Type, Message: err.Error()}})
		return
	}
	if out != nil {
		c.reply(*out)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := MarshalMessage(message)
			if err != nil {
				logging.Error().Err(err).Str("type", message.Type).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing. Register the client with the hub first.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
