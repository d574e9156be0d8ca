package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"novastay/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 256
)

// Event is a reservation change pushed to front-desk screens.
type Event struct {
	Type          string                   `json:"type"`
	ReservationID int64                    `json:"reservation_id"`
	RoomID        int64                    `json:"room_id"`
	GuestID       int64                    `json:"guest_id"`
	Status        domain.ReservationStatus `json:"status"`
	IsActive      bool                     `json:"is_active"`
	CheckIn       string                   `json:"check_in_booking_date"`
	CheckOut      string                   `json:"check_out_booking_date"`
	At            time.Time                `json:"at"`
}

// clientMessage is what a client may send: room filters.
type clientMessage struct {
	Type   string `json:"type"`
	RoomID int64  `json:"room_id"`
}

// connection represents a single WebSocket client
type connection struct {
	staffID int64
	conn    *websocket.Conn
	send    chan []byte
	rooms   map[int64]bool // empty means every room
}

// Hub fans reservation events out to every connected client.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
	upgrader    websocket.Upgrader
	now         func() time.Time
}

func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		connections: make(map[*connection]struct{}),
		now:         func() time.Time { return time.Now().UTC() },
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin] || set["*"]
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// PublishReservation broadcasts a reservation event.
func (h *Hub) PublishReservation(eventType string, r *domain.Reservation) {
	h.Broadcast(&Event{
		Type:          eventType,
		ReservationID: r.ID,
		RoomID:        r.RoomID,
		GuestID:       r.GuestID,
		Status:        r.Status,
		IsActive:      r.IsActive,
		CheckIn:       r.CheckInBookingDate.Format(domain.DateLayout),
		CheckOut:      r.CheckOutBookingDate.Format(domain.DateLayout),
		At:            h.now(),
	})
}

// Broadcast never blocks: a client whose buffer is full misses the event.
func (h *Hub) Broadcast(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("events_marshal_failed type=%s err=%v", event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if len(c.rooms) > 0 && !c.rooms[event.RoomID] {
			continue
		}
		select {
		case c.send <- data:
		default:
			log.Printf("events_client_slow staff_id=%d type=%s", c.staffID, event.Type)
		}
	}
}

// ServeWS upgrades the request and runs the client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, staffID int64) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		staffID: staffID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		rooms:   make(map[int64]bool),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

// Close drops every client. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		delete(h.connections, c)
		close(c.send)
	}
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var m clientMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			continue
		}

		switch m.Type {
		case "subscribe":
			h.mu.Lock()
			c.rooms[m.RoomID] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.rooms, m.RoomID)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
