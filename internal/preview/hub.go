// Package preview streams renders of freshly generated layouts to
// browsers over websockets.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeonshuffle/internal/config"
	"github.com/lawnchairsociety/dungeonshuffle/internal/logger"
)

// sendBuffer is how many frames may queue for a slow viewer before it is
// dropped
const sendBuffer = 16

const writeWait = 5 * time.Second

// Frame is one published render
type Frame struct {
	Name   string    `json:"name"`
	Render string    `json:"render"`
	Time   time.Time `json:"time"`
}

// Hub fans published frames out to every connected viewer. New viewers
// are sent the most recent frame first.
type Hub struct {
	cfg      config.PreviewConfig
	limiter  *connLimiter
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	ip   string
}

// NewHub creates a hub enforcing cfg's origin and connection limits
func NewHub(cfg config.PreviewConfig) *Hub {
	h := &Hub{
		cfg:     cfg,
		limiter: newConnLimiter(cfg.MaxPerIP, cfg.MaxTotal),
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := h.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("preview connection rejected - origin not allowed",
					"origin", origin, "host", r.Host, "remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return h
}

// Publish sends a render to every viewer and keeps it for late joiners
func (h *Hub) Publish(name, render string) {
	data, err := json.Marshal(Frame{Name: name, Render: render, Time: time.Now()})
	if err != nil {
		logger.Error("failed to encode preview frame", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			logger.Warning("dropping slow preview viewer", "client_ip", c.ip)
			h.removeLocked(c)
		}
	}
}

// Clients returns the number of connected viewers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket viewer
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip := realIP(r)
	if !h.limiter.tryAcquire(ip) {
		logger.Warning("preview connection rejected - limit exceeded", "client_ip", ip)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("preview upgrade failed", "error", err)
		h.limiter.release(ip)
		return
	}
	if h.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(h.cfg.MaxMessageSize)
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), ip: ip}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		h.limiter.release(ip)
		return
	}
	if h.last != nil {
		c.send <- h.last
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logger.Info("preview viewer connected", "client_ip", ip)

	go h.writePump(c)
	go h.readPump(c)
}

// readPump discards incoming messages and unregisters the viewer once the
// connection fails
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.limiter.release(c.ip)
}

// Close disconnects every viewer and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// Handler serves the viewer page at / and the socket at /ws
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	})
	return mux
}

// Serve runs the preview server on addr until ctx is done
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("preview server listening", "address", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

const page = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>dungeonshuffle preview</title>
<style>body{background:#111;color:#ddd;font-family:monospace}pre{font-size:20px;line-height:1}</style>
</head>
<body>
<h3 id="name">waiting for a layout</h3>
<pre id="render"></pre>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
  const f = JSON.parse(ev.data);
  document.getElementById("name").textContent = f.name;
  document.getElementById("render").textContent = f.render;
};
</script>
</body>
</html>
`
