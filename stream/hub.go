package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/lixenwraith/navagent/logging"
	"github.com/lixenwraith/navagent/status"
	"github.com/lixenwraith/navagent/system"
)

const (
	defaultBuffer = 8
	writeWait     = 2 * time.Second
)

// HubConfig configures a Hub
type HubConfig struct {
	Scene  SceneMessage
	Buffer int // Per-client queued frames before dropping
	Stats  *status.Registry
	Logger logging.Logger
	// Metrics attaches a metrics snapshot to every state message
	Metrics bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans state messages out to websocket observers
// Present never blocks: a client whose queue is full misses that frame
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	upgrader websocket.Upgrader
	scene    []byte
	buffer   int
	stats    *status.Registry
	metrics  bool
	logger   logging.Logger

	statClients *atomic.Int64
	statDropped *atomic.Int64
}

// NewHub creates a hub; the scene message is encoded once
func NewHub(cfg HubConfig) (*Hub, error) {
	scene, err := json.Marshal(cfg.Scene)
	if err != nil {
		return nil, errors.Wrap(err, "encode scene")
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if cfg.Stats == nil {
		cfg.Stats = status.NewRegistry()
	}

	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		scene:       scene,
		buffer:      cfg.Buffer,
		stats:       cfg.Stats,
		metrics:     cfg.Metrics,
		logger:      logging.OrNoOp(cfg.Logger),
		statClients: cfg.Stats.Ints.Get(status.KeyStreamClients),
		statDropped: cfg.Stats.Ints.Get(status.KeyStreamDropped),
	}, nil
}

// Handle upgrades the request and streams until the observer disconnects
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.buffer+1)}
	c.send <- h.scene

	if !h.register(c) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	h.logger.Info("stream client connected", "remote", r.RemoteAddr)

	go h.writePump(c)

	// Observers are read-only; reading only detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
	h.logger.Info("stream client disconnected", "remote", r.RemoteAddr)
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.unregister(c)
			for range c.send {
			}
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.statClients.Store(int64(len(h.clients)))
	return true
}

// unregister removes c and closes its queue; safe to call more than once
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.statClients.Store(int64(len(h.clients)))
}

// Clients returns the connected observer count
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Present implements system.Presenter
func (h *Hub) Present(f *system.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}

	var metrics map[string]float64
	if h.metrics {
		metrics = h.stats.Snapshot()
	}
	data, err := json.Marshal(NewSnapshot(f, metrics))
	if err != nil {
		h.logger.Error("encode snapshot", "tick", f.Tick, "error", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.statDropped.Add(1)
		}
	}
}

// Close disconnects every observer and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.statClients.Store(0)
}
