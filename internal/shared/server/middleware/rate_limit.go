package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"latexme/internal/shared/server/respond"
)

// Rate limit groups used by the router.
const (
	defaultRateLimitGroup = "DEFAULT"
	GroupLLM              = "LLM"
	GroupUpload           = "UPLOAD"
	GroupPolling          = "POLLING"
)

// Full buckets are dropped once they have been idle this long.
const bucketSweepInterval = 10 * time.Minute

// RateLimitRule is a token bucket: Rate tokens per second, up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	// KeyFor picks the principal a bucket is charged to. Defaults to
	// OwnerKey.
	KeyFor       func(c *gin.Context, group string) string
	Limiter      *RateLimiter
}

type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	now       func() time.Time
	lastSweep time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
	rule   RateLimitRule
}

// PerMinute converts a per-minute allowance into a RateLimitRule.
func PerMinute(n, burst int) RateLimitRule {
	return RateLimitRule{Rate: float64(n) / 60.0, Burst: burst}
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets:   make(map[string]*rateBucket),
		now:       now,
		lastSweep: now(),
	}
}

// OwnerKey charges the guest owner, falling back to the client IP.
func OwnerKey(c *gin.Context, group string) string {
	if owner := strings.TrimSpace(OwnerIDFromContext(c)); owner != "" {
		return owner
	}
	return ClientIPKey(c, group)
}

// ClientIPKey charges the client IP. Use it where the owner is chosen by the
// client and could be rotated to dodge the limit.
func ClientIPKey(c *gin.Context, group string) string {
	return "ip:" + strings.TrimSpace(c.ClientIP())
}

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		keyFor := cfg.KeyFor
		if keyFor == nil {
			keyFor = OwnerKey
		}
		key := keyFor(c, group) + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.Set(OutcomeKey, "rate_limited")
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, please slow down.", gin.H{
			"group":        group,
			"retryAfterMs": retryAfterMs,
		})
	}
}

func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= bucketSweepInterval {
		l.evictLocked(now)
	}
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{
			tokens: float64(rule.Burst),
			last:   now,
		}
		l.buckets[key] = bucket
	}
	bucket.rule = rule
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, 0
	}
	needed := 1 - bucket.tokens
	waitSec := needed / rule.Rate
	if waitSec < 0 {
		waitSec = 0
	}
	retryAfter := time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
	return false, retryAfter
}

// Len reports how many buckets are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// evictLocked drops buckets that would have refilled completely by now; a
// fresh bucket behaves the same.
func (l *RateLimiter) evictLocked(now time.Time) {
	for key, b := range l.buckets {
		refilled := b.tokens + now.Sub(b.last).Seconds()*b.rule.Rate
		if refilled >= float64(b.rule.Burst) {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
