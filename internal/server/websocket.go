package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/conneroisu/tailplay/internal/errors"
	"github.com/conneroisu/tailplay/internal/logging"
	"github.com/conneroisu/tailplay/internal/preview"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period. A peer that misses a pong within
	// writeWait is disconnected.
	pingPeriod = 30 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 256 << 10

	// Outgoing messages buffered per client.
	sendBuffer = 64
)

// Client is one WebSocket connection.
type Client struct {
	id     string
	conn   *websocket.Conn
	codec  Codec
	send   chan Message
	done   chan struct{}
	once   sync.Once
	server *Server
}

// close stops the client's writer. It is safe to call more than once.
func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// enqueue queues msg for the writer and reports whether it was accepted.
func (c *Client) enqueue(msg Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// Hub tracks connected clients and fans broadcasts out to them.
type Hub struct {
	clients    map[*Client]struct{}
	mutex      sync.RWMutex
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	quit       chan struct{}
	quitOnce   sync.Once
	logger     logging.Logger
}

func newHub(logger logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 16),
		quit:       make(chan struct{}),
		logger:     logger.WithComponent("websocket"),
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Publish queues msg for every client. Messages are dropped when the hub is
// backed up or stopped.
func (h *Hub) Publish(msg Message) {
	select {
	case h.broadcast <- msg:
	case <-h.quit:
	default:
		h.logger.Warn(context.Background(), nil, "Broadcast queue full, dropping message", "type", msg.Type)
	}
}

func (h *Hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return
		case <-h.quit:
			return
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info(ctx, "Client connected", "client", client.id, "codec", client.codec.Name(), "clients", count)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info(ctx, "Client disconnected", "client", client.id, "clients", count)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			var failed []*Client
			for client := range h.clients {
				if !client.enqueue(msg) {
					failed = append(failed, client)
				}
			}
			h.mutex.RUnlock()

			// Slow clients are dropped outside the read lock
			if len(failed) > 0 {
				h.mutex.Lock()
				for _, client := range failed {
					delete(h.clients, client)
					client.conn.Close(websocket.StatusPolicyViolation, "client too slow")
					client.close()
				}
				h.mutex.Unlock()
			}
		}
	}
}

// join registers a client unless the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

// leave unregisters a client unless the hub has stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// stop closes every connection and releases goroutines blocked on the hub.
func (h *Hub) stop() {
	h.quitOnce.Do(func() {
		close(h.quit)

		h.mutex.Lock()
		for client := range h.clients {
			client.conn.Close(websocket.StatusGoingAway, "server shutting down")
			client.close()
		}
		h.clients = make(map[*Client]struct{})
		h.mutex.Unlock()
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Validate origin before accepting connection
	if !s.checkOrigin(r) {
		logging.LogSecurityEvent(s.logger, r.Context(), "websocket_origin_rejected", map[string]interface{}{
			"origin":      logging.SanitizeForLog(r.Header.Get("Origin")),
			"remote_addr": r.RemoteAddr,
		})
		writeErrorStatus(w, http.StatusForbidden, errors.ErrInvalidOrigin(logging.SanitizeForLog(r.Header.Get("Origin"))))
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{SubprotocolMsgPack, "json"},
		// checkOrigin has already applied the configured policy
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &Client{
		id:     uuid.NewString(),
		conn:   conn,
		codec:  codecFor(conn.Subprotocol()),
		send:   make(chan Message, sendBuffer),
		done:   make(chan struct{}),
		server: s,
	}

	if !s.hub.join(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	client.enqueue(Message{Type: TypeWelcome, ID: client.id, Count: countPtr(s.catalog.Len())})

	go client.writePump()
	client.readPump(r.Context())
}

// checkOrigin validates the request origin for security. Same-host origins,
// the configured allowed origins and localhost on the configured port pass.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Reject connections without origin header for security
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	// First check scheme - only allow http/https
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	if originURL.Host == r.Host || s.isAllowedOrigin(origin) {
		return true
	}

	port := s.config.Server.Port
	allowedHosts := []string{
		fmt.Sprintf("%s:%d", s.config.Server.Host, port),
		fmt.Sprintf("localhost:%d", port),
		fmt.Sprintf("127.0.0.1:%d", port),
	}
	for _, allowed := range allowedHosts {
		if originURL.Host == allowed {
			return true
		}
	}

	return false
}

// readPump decodes requests from the connection and answers them until the
// peer goes away.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.server.hub.leave(c)
		c.close()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				c.server.logger.Debug(ctx, "WebSocket read ended", "client", c.id, "error", err.Error())
			}
			return
		}

		var reply Message
		if msg, err := c.codec.Decode(data); err != nil {
			reply = Message{Type: TypeError, Error: "malformed message: " + err.Error()}
		} else {
			reply = c.server.answer(ctx, msg)
		}

		if !c.respond(ctx, reply) {
			return
		}
	}
}

// respond queues a reply to one of the client's own requests. A client that
// has stopped draining its buffer is disconnected.
func (c *Client) respond(ctx context.Context, msg Message) bool {
	if c.enqueue(msg) {
		return true
	}

	select {
	case <-c.done:
	default:
		c.server.logger.Warn(ctx, nil, "Client too slow, disconnecting", "client", c.id)
		c.conn.Close(websocket.StatusPolicyViolation, "client too slow")
		c.close()
	}
	return false
}

// writePump encodes queued messages onto the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := context.Background()

	for {
		select {
		case <-c.done:
			return

		case msg := <-c.send:
			data, err := c.codec.Encode(&msg)
			if err != nil {
				c.server.logger.Error(ctx, err, "Failed to encode message", "type", msg.Type)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err = c.conn.Write(writeCtx, c.codec.FrameType(), data)
			cancel()
			if err != nil {
				c.server.logger.Debug(ctx, "WebSocket write failed", "client", c.id, "error", err.Error())
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// answer produces the reply to a client request.
func (s *Server) answer(ctx context.Context, msg *Message) Message {
	switch msg.Type {
	case TypeConvert:
		res := s.engine.Convert(msg.Markup)
		return Message{Type: TypeResult, ID: msg.ID, Result: &res}

	case TypePreview:
		var panels preview.Panels
		if msg.Panels != nil {
			panels = *msg.Panels
		}
		doc, err := preview.Render(ctx, "Preview", panels)
		if err != nil {
			return Message{Type: TypeError, ID: msg.ID, Error: err.Error()}
		}
		return Message{Type: TypeDocument, ID: msg.ID, Document: doc}

	default:
		return Message{Type: TypeError, ID: msg.ID, Error: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
}
