package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	loginBurst   = 5
	loginRefill  = rate.Limit(1.0 / 3.0) // one attempt every 3s after the burst
	idleEviction = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerIP throttles credential-guessing on the auth endpoints. State is
// in-process only; everything else in the request path stays stateless.
type PerIP struct {
	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewPerIP() *PerIP {
	l := &PerIP{visitors: make(map[string]*visitor)}
	go l.evictLoop()
	return l
}

func (l *PerIP) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(loginRefill, loginBurst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (l *PerIP) evictLoop() {
	for range time.Tick(idleEviction) {
		l.mu.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) > idleEviction {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware rejects over-limit requests with 429 before any handler or
// store work.
func (l *PerIP) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many attempts, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
