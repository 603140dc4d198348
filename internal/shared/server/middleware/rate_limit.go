package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"tool-advisor/internal/shared/metrics"
	"tool-advisor/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"
	maxTrackedLimiters    = 10000
	limiterIdleTTL        = 30 * time.Minute
	defaultPerIPFactor    = 4
)

// RateLimitRule is a token bucket: Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
	// PerIPFactor scales a group's rule into the shared budget of every session behind
	// one client IP. Defaults to 4.
	PerIPFactor int
}

// RateLimiter keeps one token bucket per session and route group.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*trackedLimiter
	now      func() time.Time
}

type trackedLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		limiters: make(map[string]*trackedLimiter),
		now:      now,
	}
}

// RateLimit rejects requests over the group's budget with 429 and a Retry-After header.
// A request presenting a session spends from that session's bucket and from a wider
// bucket shared by its client IP. Requests whose session was just issued have nothing
// to tie them together, so they spend from the client IP bucket at the plain rule.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	if cfg.PerIPFactor <= 0 {
		cfg.PerIPFactor = defaultPerIPFactor
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
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
		ip := strings.TrimSpace(c.ClientIP())
		session := SessionIDFromContext(c)
		var allowed bool
		var retryAfter time.Duration
		if session == "" || SessionIssued(c) {
			allowed, retryAfter = cfg.Limiter.Allow("ip:"+ip+"|"+group, rule)
		} else {
			shared := RateLimitRule{Rate: rule.Rate * float64(cfg.PerIPFactor), Burst: rule.Burst * cfg.PerIPFactor}
			allowed, retryAfter = cfg.Limiter.allowAll([]limitKey{
				{key: "session:" + session + "|" + group, rule: rule},
				{key: "ips:" + ip + "|" + group, rule: shared},
			})
		}
		if allowed {
			c.Next()
			return
		}

		metrics.IncRateLimited(group)
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down", gin.H{
			"retryAfterMs": retryAfterMs,
		})
	}
}

type limitKey struct {
	key  string
	rule RateLimitRule
}

// Allow takes one token for key, reporting how long to wait when none is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	return l.allowAll([]limitKey{{key: key, rule: rule}})
}

// allowAll takes one token from every bucket or from none of them. When any bucket is
// empty the longest wait is reported.
func (l *RateLimiter) allowAll(keys []limitKey) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		taken []*rate.Reservation
		wait  time.Duration
		ok    = true
	)
	for _, k := range keys {
		if k.rule.Rate <= 0 || k.rule.Burst <= 0 {
			continue
		}
		res := l.limiterFor(k.key, k.rule, now).ReserveN(now, 1)
		if !res.OK() {
			ok = false
			wait = max(wait, time.Second)
			continue
		}
		taken = append(taken, res)
		if delay := res.DelayFrom(now); delay > 0 {
			ok = false
			wait = max(wait, delay)
		}
	}
	if ok {
		return true, 0
	}
	for i := len(taken) - 1; i >= 0; i-- {
		taken[i].CancelAt(now)
	}
	return false, wait
}

func (l *RateLimiter) limiterFor(key string, rule RateLimitRule, now time.Time) *rate.Limiter {
	tracked, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedLimiters {
			l.evictIdle(now)
		}
		if len(l.limiters) >= maxTrackedLimiters {
			l.evictOldest()
		}
		tracked = &trackedLimiter{lim: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)}
		l.limiters[key] = tracked
	}
	tracked.lastSeen = now
	return tracked.lim
}

func (l *RateLimiter) evictIdle(now time.Time) {
	for key, tracked := range l.limiters {
		if now.Sub(tracked.lastSeen) > limiterIdleTTL {
			delete(l.limiters, key)
		}
	}
}

func (l *RateLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, tracked := range l.limiters {
		if oldestKey == "" || tracked.lastSeen.Before(oldest) {
			oldestKey, oldest = key, tracked.lastSeen
		}
	}
	delete(l.limiters, oldestKey)
}

// Tracked reports how many buckets are held.
func (l *RateLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
