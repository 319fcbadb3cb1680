package ratelimit

import (
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/videovault/pkg/cache"
)

// ErrInvalidLimit is returned when the rate or burst is not positive.
var ErrInvalidLimit = errors.New("ratelimit: rate and burst must be positive")

// Config describes a per-key token bucket.
type Config struct {
	// Rate is the number of events allowed per second.
	Rate float64 `env:"RATE"`
	// Burst is the bucket size.
	Burst int `env:"BURST"`
	// MaxKeys bounds the number of tracked clients.
	MaxKeys int `env:"MAX_KEYS" envDefault:"10000"`
	// IdleTTL forgets a client after this long without requests.
	IdleTTL time.Duration `env:"IDLE_TTL" envDefault:"10m"`
}

// Result describes a single admission decision.
type Result struct {
	Allowed    bool
	Limit      int
	RetryAfter time.Duration
}

// Limiter keeps one token bucket per key.
type Limiter struct {
	limit   rate.Limit
	burst   int
	buckets *cache.LRUCache[string, *rate.Limiter]
	now     func() time.Time
}

// New creates a per-key limiter.
func New(cfg Config) (*Limiter, error) {
	if cfg.Rate <= 0 || cfg.Burst <= 0 {
		return nil, ErrInvalidLimit
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	var opts []cache.Option
	if cfg.IdleTTL > 0 {
		opts = append(opts, cache.WithTTL(cfg.IdleTTL))
	}
	return &Limiter{
		limit:   rate.Limit(cfg.Rate),
		burst:   cfg.Burst,
		buckets: cache.NewLRUCache[string, *rate.Limiter](cfg.MaxKeys, opts...),
		now:     time.Now,
	}, nil
}

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) Result {
	bucket := l.buckets.GetOrCreate(key, func() *rate.Limiter {
		return rate.NewLimiter(l.limit, l.burst)
	})
	// Touch the entry so an active client is not expired mid-burst.
	l.buckets.Put(key, bucket)

	now := l.now()
	res := bucket.ReserveN(now, 1)
	if !res.OK() {
		return Result{Allowed: false, Limit: l.burst, RetryAfter: time.Second}
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return Result{Allowed: false, Limit: l.burst, RetryAfter: delay}
	}
	return Result{Allowed: true, Limit: l.burst}
}
