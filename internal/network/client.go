package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Commands arriving faster than this are ignored.
	minCommandInterval = 200 * time.Millisecond
)

// Command types accepted from observers.
const (
	CommandTogglePause  = "TOGGLE_PAUSE"
	CommandSetSpeed     = "SET_SPEED"
	CommandResolveEvent = "RESOLVE_EVENT"
)

// Command is an incoming request from an observer.
type Command struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply answers a command on the sending connection only.
type Reply struct {
	Type    string      `json:"type"`
	Command string      `json:"command"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Client is one WebSocket observer.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	lastCommand time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
	}
}

// ReadPump reads commands until the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.metrics.RecordWSError()
				c.hub.logger.Warn("websocket read failed", "error", err)
			}
			break
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Warn("failed to parse command", "error", err)
			continue
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd Command) {
	if time.Since(c.lastCommand) < minCommandInterval {
		c.hub.logger.Warn("command rate limit exceeded", "command", cmd.Type)
		return
	}
	c.lastCommand = time.Now()

	reply := Reply{Type: "COMMAND_RESULT", Command: cmd.Type}
	eng := c.hub.commander
	if eng == nil {
		reply.Error = "commands are disabled"
		c.reply(reply)
		return
	}

	switch cmd.Type {
	case CommandTogglePause:
		reply.Result = eng.TogglePause()
	case CommandSetSpeed:
		var p struct {
			Multiplier float64 `json:"multiplier"`
		}
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			reply.Error = "invalid payload"
			break
		}
		reply.Result = eng.SetSpeed(p.Multiplier)
	case CommandResolveEvent:
		var p struct {
			EventID string `json:"event_id"`
			Choice  int    `json:"choice"`
		}
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			reply.Error = "invalid payload"
			break
		}
		if err := eng.ResolveEvent(p.EventID, p.Choice); err != nil {
			reply.Error = err.Error()
		}
	default:
		reply.Error = "unknown command"
	}

	c.hub.logger.Event("OBSERVER_COMMAND", c.conn.RemoteAddr().String(), cmd.Type)
	c.reply(reply)
}

func (c *Client) reply(r Reply) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	// the hub closes send under its lock once a client is dropped
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- b:
	default:
		c.hub.metrics.RecordWSError()
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				c.hub.metrics.RecordWSError()
				return
			}
			w.Write(message)
			c.hub.metrics.RecordWSMessage()

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
				c.hub.metrics.RecordWSMessage()
			}

			if err := w.Close(); err != nil {
				c.hub.metrics.RecordWSError()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
