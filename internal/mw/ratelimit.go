package mw

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiterPool keeps one token bucket per client+route key and evicts idle
// entries so the map does not grow with every visitor ever seen.
type limiterPool struct {
	mu   sync.Mutex
	m    map[string]*clientLimiter
	r    rate.Limit
	b    int
	ttl  time.Duration
	stop chan struct{}
}

func newLimiterPool(r rate.Limit, burst int, ttl time.Duration) *limiterPool {
	return &limiterPool{
		m:    make(map[string]*clientLimiter),
		r:    r,
		b:    burst,
		ttl:  ttl,
		stop: make(chan struct{}),
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	cl, ok := p.m[key]
	if ok {
		cl.seen = time.Now()
		return cl.lim
	}
	lim := rate.NewLimiter(p.r, p.b)
	p.m[key] = &clientLimiter{lim: lim, seen: time.Now()}
	return lim
}

func (p *limiterPool) gc() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			now := time.Now()
			p.mu.Lock()
			for k, v := range p.m {
				if now.Sub(v.seen) > p.ttl {
					delete(p.m, k)
				}
			}
			p.mu.Unlock()
		}
	}
}

// Stop terminates the eviction goroutine during shutdown.
func (p *limiterPool) Stop() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
}

// RateLimit returns a token-bucket middleware keyed by client IP and route.
// Refusals use the same response envelope as the API proper.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	pool := newLimiterPool(r, burst, 2*time.Minute)
	go pool.gc()
	return func(c *gin.Context) {
		ip := clientIP(c.Request.RemoteAddr)
		key := ip + "|" + c.FullPath()
		if key == ip+"|" {
			key = ip + "|" + c.Request.URL.Path
		}
		if !pool.get(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
			})
			return
		}
		c.Next()
	}
}

func clientIP(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
