package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// ClientLimiter rate-limits per client IP.
type ClientLimiter struct {
	mu sync.Mutex
	m  map[string]*clientEntry
	r  rate.Limit
	b  int

	// refill is how long an unused bucket takes to fill up again. Entries
	// idle for longer behave like new ones and can be dropped.
	refill time.Duration
	now    func() time.Time
}

func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	if burst <= 0 {
		burst = 1
	}
	cl := &ClientLimiter{
		m:   make(map[string]*clientEntry),
		r:   rate.Limit(reqPerSec),
		b:   burst,
		now: time.Now,
	}
	if reqPerSec > 0 {
		cl.refill = time.Duration(float64(burst) / reqPerSec * float64(time.Second))
	}
	return cl
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if e, ok := cl.m[client]; ok {
		e.seen = now
		return e.lim
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[client] = &clientEntry{lim: lim, seen: now}
	return lim
}

// Prune drops clients whose bucket has refilled since their last request.
func (cl *ClientLimiter) Prune() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cutoff := cl.now().Add(-cl.refill)
	pruned := 0
	for client, e := range cl.m {
		if e.seen.Before(cutoff) {
			delete(cl.m, client)
			pruned++
		}
	}
	return pruned
}

func (cl *ClientLimiter) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.m)
}

// RunPruning calls Prune every interval until ctx is done.
func (cl *ClientLimiter) RunPruning(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cl.Prune()
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (cl *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
