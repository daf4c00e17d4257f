package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/guttosm/investhelper/internal/domain/dto"
)

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP in memory. Each bucket
// holds limit tokens and refills one every window/limit.
// A single instance is meant to be shared by one router.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

// NewRateLimiter allows limit requests per window for each client IP.
// A limit of zero or less disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Allow takes a token for ip and reports whether one was available.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.reserve(ip) == 0
}

// reserve takes a token for ip and returns zero, or the wait until the next
// token when the bucket is empty. A rejected reservation is handed back.
func (rl *RateLimiter) reserve(ip string) time.Duration {
	if rl.limit <= 0 {
		return 0
	}
	now := rl.now()

	rl.mu.Lock()
	cl, ok := rl.clients[ip]
	if !ok {
		every := rate.Every(rl.window / time.Duration(rl.limit))
		cl = &client{lim: rate.NewLimiter(every, rl.limit)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	rl.sweep(now)
	rl.mu.Unlock()

	res := cl.lim.ReserveN(now, 1)
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return d
	}
	return 0
}

// sweep drops clients idle for a full window once the map grows; their
// buckets would be full again anyway.
func (rl *RateLimiter) sweep(now time.Time) {
	if len(rl.clients) < 1024 {
		return
	}
	for ip, cl := range rl.clients {
		if now.Sub(cl.lastSeen) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}

// Handler responds 429 with a dto.ErrorResponse once a client runs out of
// tokens. Retry-After carries the whole seconds until the next token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if wait := rl.reserve(c.ClientIP()); wait > 0 {
			c.Header("Retry-After", retryAfter(wait))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}

func retryAfter(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
