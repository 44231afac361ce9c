package preview

import (
	"net"
	"net/http"
	"strings"
	"sync"
)

// connLimiter caps viewers per IP and in total.
type connLimiter struct {
	mu       sync.Mutex
	ipCounts map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

func newConnLimiter(maxPerIP, maxTotal int) *connLimiter {
	return &connLimiter{
		ipCounts: make(map[string]int),
		maxPerIP: maxPerIP,
		maxTotal: maxTotal,
	}
}

// tryAcquire takes a slot for ip, reporting false when a limit is reached
func (c *connLimiter) tryAcquire(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxTotal > 0 && c.total >= c.maxTotal {
		return false
	}
	if c.maxPerIP > 0 && c.ipCounts[ip] >= c.maxPerIP {
		return false
	}
	c.ipCounts[ip]++
	c.total++
	return true
}

func (c *connLimiter) release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ipCounts[ip] > 0 {
		c.ipCounts[ip]--
		if c.ipCounts[ip] == 0 {
			delete(c.ipCounts, ip)
		}
	}
	if c.total > 0 {
		c.total--
	}
}

// realIP prefers X-Forwarded-For and X-Real-IP over the socket address
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
