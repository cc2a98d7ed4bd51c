package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/chainvault/chainvault-api/internal/logger"
	"github.com/chainvault/chainvault-api/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLogger("test")
}

func newAdmissionRouter(limit int, window time.Duration) *gin.Engine {
	admission := NewAdmission(ratelimit.NewLimiter(), AdmissionConfig{
		Limit:  limit,
		Window: window,
	})

	router := gin.New()
	router.Use(admission.Middleware())
	router.GET("/wallets/:userID", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	return router
}

func doRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestAdmission_EnforcesPerUserLimit(t *testing.T) {
	router := newAdmissionRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		w := doRequest(router, "/wallets/123456789012345678")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, fmt.Sprintf("%d", 2-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := doRequest(router, "/wallets/123456789012345678")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestAdmission_UsersLimitedIndependently(t *testing.T) {
	router := newAdmissionRouter(1, time.Minute)

	assert.Equal(t, http.StatusOK, doRequest(router, "/wallets/123456789012345678").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "/wallets/123456789012345678").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "/wallets/876543210987654321").Code)
}

func TestAdmission_HealthEndpointsExempt(t *testing.T) {
	router := newAdmissionRouter(1, time.Minute)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, "/health").Code)
	}
}

func TestAdmission_AdmitsAgainAfterWindow(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewLimiter(ratelimit.WithClock(func() time.Time { return clock }))
	admission := NewAdmission(limiter, AdmissionConfig{Limit: 1, Window: time.Second})

	router := gin.New()
	router.Use(admission.Middleware())
	router.GET("/wallets/:userID", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, doRequest(router, "/wallets/123456789012345678").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "/wallets/123456789012345678").Code)

	clock = clock.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, doRequest(router, "/wallets/123456789012345678").Code)
}

func TestAdmission_SweepsIdleIPBuckets(t *testing.T) {
	admission := NewAdmission(ratelimit.NewLimiter(), AdmissionConfig{Limit: 1, Window: time.Minute})
	defer admission.StopCleanup()

	admission.ipLimiter("203.0.113.7")
	admission.ipLimiter("203.0.113.8")

	countEntries := func() int {
		n := 0
		admission.ipLimiters.Range(func(_, _ interface{}) bool {
			n++
			return true
		})
		return n
	}
	assert.Equal(t, 2, countEntries())

	// A recent sweep keeps fresh buckets.
	admission.sweepIdleIPs(time.Now())
	assert.Equal(t, 2, countEntries())

	// Backdating one bucket past the idle timeout gets it evicted.
	if val, ok := admission.ipLimiters.Load("203.0.113.8"); ok {
		val.(*ipEntry).lastAccess = time.Now().Add(-ipIdleTimeout - time.Minute)
	}
	admission.sweepIdleIPs(time.Now())
	assert.Equal(t, 1, countEntries())

	_, kept := admission.ipLimiters.Load("203.0.113.7")
	assert.True(t, kept)
}
