package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = 10 * time.Minute
)

type limiterClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket allowing requests per duration.
// Close stops its cleanup loop.
type RateLimiter struct {
	requests int
	duration time.Duration
	onLimit  fiber.Handler

	clients map[string]*limiterClient
	mu      sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// NewRateLimiter creates a limiter and starts its cleanup loop. onLimit
// answers rejected requests; nil means 429 JSON.
func NewRateLimiter(requests int, duration time.Duration, onLimit fiber.Handler) *RateLimiter {
	if onLimit == nil {
		onLimit = func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}
	}

	rl := &RateLimiter{
		requests: requests,
		duration: duration,
		onLimit:  onLimit,
		clients:  make(map[string]*limiterClient),
		done:     make(chan struct{}),
	}

	go rl.cleanupLoop(limiterCleanupInterval)

	return rl
}

// Handler returns the middleware
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.allow(c.IP(), time.Now()) {
			return rl.onLimit(c)
		}
		return c.Next()
	}
}

// Close stops the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Close() error {
	rl.once.Do(func() { close(rl.done) })
	return nil
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	cl, exists := rl.clients[ip]
	if !exists {
		cl = &limiterClient{
			limiter: rate.NewLimiter(rate.Every(rl.duration/time.Duration(rl.requests)), rl.requests),
		}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	rl.mu.Unlock()

	return cl.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.evict(now)
		case <-rl.done:
			return
		}
	}
}

// evict drops clients idle for longer than limiterIdleTTL
func (rl *RateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(rl.clients, ip)
		}
	}
}
