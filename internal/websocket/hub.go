package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSeatsUpdated  MessageType = "seats_updated"
	MessageTypeFlightRemoved MessageType = "flight_removed"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// SeatUpdate carries the inventory of one seat class
type SeatUpdate struct {
	Class     models.SeatClass `json:"class"`
	Available int              `json:"available"`
	Capacity  int              `json:"capacity"`
}

// Message represents a WebSocket message
type Message struct {
	Type      MessageType         `json:"type"`
	FlightID  int                 `json:"flightId"`
	Status    models.FlightStatus `json:"status,omitempty"`
	Seats     []SeatUpdate        `json:"seats,omitempty"`
	Timestamp int64               `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	flightID int
}

// Hub manages WebSocket connections per flight
type Hub struct {
	clients    map[int]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHub creates a new Hub. Call Run to start delivering messages.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[int]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Run starts the hub's main loop and returns when ctx is done. Connections
// arriving after that are closed straight away.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for flightID, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, flightID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.flightID] == nil {
				h.clients[client.flightID] = make(map[*Client]bool)
			}
			h.clients[client.flightID][client] = true
			h.logger.Debug("WebSocket client registered", "flightID", client.flightID, "total", len(h.clients[client.flightID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal websocket message", "error", err)
				continue
			}

			h.mu.Lock()
			clients := h.clients[message.FlightID]
			h.logger.Debug("Broadcasting", "type", message.Type, "flightID", message.FlightID, "clients", len(clients))
			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// join hands the client to the loop. It reports false once Run has returned.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands the client back to the loop unless Run has already returned
// and closed every client.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// remove drops a client; the caller holds h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.flightID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.flightID)
	}
}

func (h *Hub) publish(msg *Message) {
	msg.Timestamp = time.Now().UnixMilli()
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("WebSocket broadcast queue full, dropping message", "type", msg.Type, "flightID", msg.FlightID)
	}
}

// FlightChanged broadcasts the flight's seat inventory and status to its watchers
func (h *Hub) FlightChanged(f *models.Flight) {
	seats := make([]SeatUpdate, 0, len(models.SeatClasses))
	for _, class := range models.SeatClasses {
		seats = append(seats, SeatUpdate{
			Class:     class,
			Available: f.AvailableSeats[class],
			Capacity:  f.Capacity[class],
		})
	}
	h.publish(&Message{
		Type:     MessageTypeSeatsUpdated,
		FlightID: f.ID,
		Status:   f.Status,
		Seats:    seats,
	})
}

// FlightRemoved notifies watchers that the flight no longer exists
func (h *Hub) FlightRemoved(flightID int) {
	h.publish(&Message{Type: MessageTypeFlightRemoved, FlightID: flightID})
}

// ClientCount returns the number of clients watching a flight
func (h *Hub) ClientCount(flightID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[flightID])
}

// ServeWS upgrades the request and subscribes the connection to the flight
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, flightID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "flightID", flightID, "error", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64), flightID: flightID}
	if !h.join(client) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound frames and unregisters the client on close.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
