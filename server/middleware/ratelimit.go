package middleware

import (
	"math"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authgate/errors"
)

const (
	rateWindow = time.Minute
	sweepEvery = 5 * time.Minute
)

// RateLimitConfig limits how often one client may hit the auth endpoints.
type RateLimitConfig struct {
	// RequestsPerMinute per key. Zero or less turns the limiter off.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// KeyFunc picks the key for a request. The client IP by default.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
	Now     func() time.Time          `yaml:"-" mapstructure:"-"`
}

// RateLimit enforces a sliding one-minute window per key and answers 429
// with Retry-After once the window is full.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	key := cfg.KeyFunc
	if key == nil {
		key = IPBasedKey
	}
	clock := cfg.Now
	if clock == nil {
		clock = time.Now
	}
	w := &windows{limit: cfg.RequestsPerMinute, hits: map[string][]time.Time{}}

	return func(c *gin.Context) {
		wait, ok := w.take(key(c), clock())
		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(secs, 1)))
			ae := apperrors.RateLimited()
			c.AbortWithStatusJSON(ae.HTTPStatus, ae.ToResponse())
			return
		}
		c.Next()
	}
}

// IPBasedKey keys requests by client IP, which only honours forwarding
// headers from the engine's trusted proxies.
func IPBasedKey(c *gin.Context) string { return c.ClientIP() }

// windows keeps the accepted hit times per key, oldest first.
type windows struct {
	mu    sync.Mutex
	limit int
	hits  map[string][]time.Time
	swept time.Time
}

// take records a hit for key at now. When the window is full it reports
// how long until the oldest hit ages out.
func (w *windows) take(key string, now time.Time) (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	since := now.Add(-rateWindow)
	if now.Sub(w.swept) >= sweepEvery {
		for k, ts := range w.hits {
			if ts = prune(ts, since); len(ts) == 0 {
				delete(w.hits, k)
			} else {
				w.hits[k] = ts
			}
		}
		w.swept = now
	}

	ts := prune(w.hits[key], since)
	if len(ts) >= w.limit {
		w.hits[key] = ts
		return ts[0].Sub(since), false
	}
	w.hits[key] = append(ts, now)
	return 0, true
}

// prune drops the leading entries at or before since.
func prune(ts []time.Time, since time.Time) []time.Time {
	i := slices.IndexFunc(ts, func(t time.Time) bool { return t.After(since) })
	if i < 0 {
		return ts[:0]
	}
	return ts[i:]
}
