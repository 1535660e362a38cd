// Package stream mirrors simulation frames to websocket viewers. Viewers
// only receive; messages they send are read and discarded.
package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/systems"
)

// Source is the read-only view of a simulation a frame is built from.
type Source interface {
	Tick() int32
	Size() int
	Cell(x, y int) game.CellView
	Agents() []game.AgentView
	Counts() (prey, pred int)
}

// Hello is sent to each viewer on connect.
type Hello struct {
	Type string `json:"type"` // "config"
	Size int    `json:"size"`
}

// Frame is one broadcast snapshot of the world.
type Frame struct {
	Type      string                `json:"type"` // "frame"
	Tick      int32                 `json:"tick"`
	Size      int                   `json:"size"`
	Prey      int                   `json:"prey"`
	Predators int                   `json:"predators"`
	Agents    []game.AgentView      `json:"agents"`
	Food      []components.Position `json:"food"`
	Obstacles []components.Position `json:"obstacles"`
}

// NewFrame builds a frame from the current state of src.
func NewFrame(src Source) Frame {
	size := src.Size()
	prey, pred := src.Counts()
	f := Frame{
		Type:      "frame",
		Tick:      src.Tick(),
		Size:      size,
		Prey:      prey,
		Predators: pred,
		Agents:    src.Agents(),
	}
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			switch src.Cell(x, y).Content {
			case systems.ContentFood:
				f.Food = append(f.Food, components.Position{X: x, Y: y})
			case systems.ContentObstacle:
				f.Obstacles = append(f.Obstacles, components.Position{X: x, Y: y})
			}
		}
	}
	return f
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// DefaultWriteWait bounds how long one viewer may block a broadcast.
const DefaultWriteWait = 2 * time.Second

type client struct {
	conn *websocket.Conn
	wait time.Duration
	mu   sync.Mutex
}

// send writes v under a deadline so a stalled viewer errors out and is
// dropped instead of blocking the simulation.
func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.wait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub tracks connected viewers and broadcasts frames to them.
type Hub struct {
	size      int
	interval  int32
	writeWait time.Duration

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub for a grid of the given size that broadcasts every
// interval ticks.
func NewHub(size, interval int) *Hub {
	if interval < 1 {
		interval = 1
	}
	return &Hub{
		size:      size,
		interval:  int32(interval),
		writeWait: DefaultWriteWait,
		clients:   make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket and keeps the viewer
// registered until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, wait: h.writeWait}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	if err := c.send(Hello{Type: "config", Size: h.size}); err != nil {
		h.drop(c)
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends v to every viewer, dropping those that fail.
func (h *Hub) Broadcast(v any) {
	h.mu.Lock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.send(v); err != nil {
			slog.Warn("stream client send failed", "error", err)
			h.drop(c)
		}
	}
}

// Publish broadcasts a frame of src when its tick falls on the interval
// and at least one viewer is connected. It reports whether a frame was sent.
func (h *Hub) Publish(src Source) bool {
	if src.Tick()%h.interval != 0 || h.Clients() == 0 {
		return false
	}
	h.Broadcast(NewFrame(src))
	return true
}

// NewServer returns an HTTP server exposing the hub at /ws.
func NewServer(addr string, h *Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
