package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestClientLimiterPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewClientLimiter(0.001, 2).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1000"), "other clients have their own bucket")
}

func TestClientLimiterPrunesRefilledClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cl := NewClientLimiter(1, 5)
	cl.now = func() time.Time { return now }

	cl.limiterFor("10.0.0.1")
	now = now.Add(3 * time.Second)
	cl.limiterFor("10.0.0.2")
	assert.Equal(t, 2, cl.Len())

	// the first client's bucket refills after 5s of silence
	now = now.Add(3 * time.Second)
	assert.Equal(t, 1, cl.Prune())
	assert.Equal(t, 1, cl.Len())

	now = now.Add(10 * time.Second)
	assert.Equal(t, 1, cl.Prune())
	assert.Zero(t, cl.Len())
}

func TestClientLimiterRunPruningStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	cl := NewClientLimiter(1000, 1)
	cl.limiterFor("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cl.RunPruning(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return cl.Len() == 0 }, timeout, tick)
	cancel()
	<-done
}
