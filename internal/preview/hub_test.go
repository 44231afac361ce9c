package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeonshuffle/internal/config"
)

func testHub(t *testing.T, cfg config.PreviewConfig) (*Hub, string) {
	t.Helper()
	hub := NewHub(cfg)
	server := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("bad frame %q: %v", data, err)
	}
	return f
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.Clients(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubReplaysLastFrame(t *testing.T) {
	hub, url := testHub(t, config.DefaultConfig().Preview)
	hub.Publish("first", "┌┐")
	hub.Publish("goa", "└┘")

	conn := dial(t, url, nil)
	f := readFrame(t, conn)
	if f.Name != "goa" || f.Render != "└┘" {
		t.Errorf("frame = %+v, want the latest", f)
	}
}

func TestHubBroadcasts(t *testing.T) {
	hub, url := testHub(t, config.DefaultConfig().Preview)
	a := dial(t, url, nil)
	b := dial(t, url, nil)
	waitForClients(t, hub, 2)

	hub.Publish("goa", "│")
	for _, conn := range []*websocket.Conn{a, b} {
		if f := readFrame(t, conn); f.Name != "goa" || f.Render != "│" {
			t.Errorf("frame = %+v", f)
		}
	}
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	_, url := testHub(t, config.DefaultConfig().Preview)
	header := http.Header{"Origin": []string{"http://evil.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected the handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestHubConnectionLimit(t *testing.T) {
	cfg := config.DefaultConfig().Preview
	cfg.MaxTotal = 1
	hub, url := testHub(t, cfg)
	first := dial(t, url, nil)
	waitForClients(t, hub, 1)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected the second viewer to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("response = %v, want 429", resp)
	}

	first.Close()
	waitForClients(t, hub, 0)
	dial(t, url, nil)
	waitForClients(t, hub, 1)
}

func TestHubClose(t *testing.T) {
	hub, url := testHub(t, config.DefaultConfig().Preview)
	conn := dial(t, url, nil)
	waitForClients(t, hub, 1)

	hub.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}
	if hub.Clients() != 0 {
		t.Errorf("clients = %d after Close", hub.Clients())
	}
	hub.Publish("late", "x")
}

func TestHandlerServesPage(t *testing.T) {
	hub := NewHub(config.DefaultConfig().Preview)
	rec := httptest.NewRecorder()
	hub.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/ws") {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
	rec = httptest.NewRecorder()
	hub.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /missing = %d, want 404", rec.Code)
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:5", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.3 "}, "1.2.3.4:5", "10.0.0.3"},
		{"remote", nil, "1.2.3.4:5", "1.2.3.4"},
		{"bare remote", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := realIP(r); got != tt.want {
				t.Errorf("realIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnLimiter(t *testing.T) {
	l := newConnLimiter(2, 3)
	if !l.tryAcquire("a") || !l.tryAcquire("a") {
		t.Fatal("first two slots for a refused")
	}
	if l.tryAcquire("a") {
		t.Error("third slot for a granted")
	}
	if !l.tryAcquire("b") {
		t.Error("slot for b refused")
	}
	if l.tryAcquire("c") {
		t.Error("slot past the total granted")
	}
	l.release("a")
	if !l.tryAcquire("c") {
		t.Error("slot freed by release refused")
	}
}
