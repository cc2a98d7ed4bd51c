package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chainvault/chainvault-api/internal/logger"
	"github.com/chainvault/chainvault-api/internal/ratelimit"
)

// UserIDParam is the route parameter carrying the wallet owner's identity.
const UserIDParam = "userID"

const (
	ipSweepInterval = 5 * time.Minute
	ipIdleTimeout   = 10 * time.Minute
)

// AdmissionConfig drives the per-user fixed-window gate.
type AdmissionConfig struct {
	Limit  int
	Window time.Duration
}

// ipEntry pairs an anonymous client's token bucket with its last access
// time so idle buckets can be swept.
type ipEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Admission wraps the fixed-window limiter as gin middleware. Requests
// scoped to a user are admitted per user; requests with no user in the
// route fall back to a per-IP token bucket so anonymous endpoints still
// have burst protection.
type Admission struct {
	limiter *ratelimit.Limiter
	config  AdmissionConfig

	ipLimiters sync.Map // ip -> *ipEntry
	ipRate     rate.Limit
	ipBurst    int

	stopSweep chan struct{}
	stopOnce  sync.Once
}

// NewAdmission creates the middleware state and starts the idle-entry
// sweep for the per-IP map. The fixed-window limiter is shared with the
// caller so its cleanup schedule is owned in one place.
func NewAdmission(limiter *ratelimit.Limiter, config AdmissionConfig) *Admission {
	a := &Admission{
		limiter:   limiter,
		config:    config,
		ipRate:    rate.Limit(50),
		ipBurst:   100,
		stopSweep: make(chan struct{}),
	}

	go a.runSweep()

	return a
}

func (a *Admission) runSweep() {
	ticker := time.NewTicker(ipSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.sweepIdleIPs(time.Now())
		case <-a.stopSweep:
			return
		}
	}
}

// sweepIdleIPs drops per-IP buckets untouched for longer than the idle
// timeout so the map does not grow one entry per client IP forever.
func (a *Admission) sweepIdleIPs(now time.Time) {
	a.ipLimiters.Range(func(key, value interface{}) bool {
		if entry, ok := value.(*ipEntry); ok {
			if now.Sub(entry.lastAccess) > ipIdleTimeout {
				a.ipLimiters.Delete(key)
			}
		}
		return true
	})
}

// StopCleanup stops the idle-entry sweep goroutine.
func (a *Admission) StopCleanup() {
	a.stopOnce.Do(func() {
		close(a.stopSweep)
	})
}

// ipLimiter returns the token bucket for an anonymous client, refreshing
// its last access time.
func (a *Admission) ipLimiter(ip string) *rate.Limiter {
	if val, ok := a.ipLimiters.Load(ip); ok {
		entry := val.(*ipEntry)
		entry.lastAccess = time.Now()
		return entry.limiter
	}

	entry := &ipEntry{
		limiter:    rate.NewLimiter(a.ipRate, a.ipBurst),
		lastAccess: time.Now(),
	}
	actual, _ := a.ipLimiters.LoadOrStore(ip, entry)
	return actual.(*ipEntry).limiter
}

// Middleware admits or rejects the request before any registry work runs.
func (a *Admission) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Health and docs endpoints are never rate limited.
		if c.Request.URL.Path == "/health" || c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}

		if userID := c.Param(UserIDParam); userID != "" {
			if !a.limiter.TryAdmit(userID, a.config.Limit, a.config.Window) {
				logger.Warn("Rate limit exceeded",
					zap.String("user_id", userID),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method))

				c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", a.config.Limit))
				c.Header("X-RateLimit-Remaining", "0")
				c.Header("Retry-After", fmt.Sprintf("%d", int(a.config.Window.Seconds())))

				c.JSON(http.StatusTooManyRequests, gin.H{
					"error": "Too many requests. Please try again later.",
				})
				c.Abort()
				return
			}

			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", a.config.Limit))
			c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", a.limiter.Remaining(userID, a.config.Limit)))
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !a.ipLimiter(ip).Allow() {
			logger.Warn("Anonymous rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
