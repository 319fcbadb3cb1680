package subscription

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/videovault/pkg/cache"
)

// EventLedger remembers webhook event ids that were already applied.
type EventLedger interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// DefaultLedgerTTL covers the provider's redelivery window.
const DefaultLedgerTTL = 72 * time.Hour

type memoryLedger struct {
	ids *cache.LRUCache[string, struct{}]
}

// NewMemoryLedger keeps up to size event ids in process for ttl.
func NewMemoryLedger(size int, ttl time.Duration) EventLedger {
	return &memoryLedger{ids: cache.NewLRUCache[string, struct{}](size, cache.WithTTL(ttl))}
}

func (l *memoryLedger) Seen(_ context.Context, eventID string) (bool, error) {
	return l.ids.Contains(eventID), nil
}

func (l *memoryLedger) Mark(_ context.Context, eventID string) error {
	l.ids.Add(eventID, struct{}{})
	return nil
}

const redisLedgerPrefix = "videovault:webhook:event:"

type redisLedger struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisLedger stores event ids in redis so every instance shares them.
func NewRedisLedger(client redis.UniversalClient, ttl time.Duration) EventLedger {
	if ttl <= 0 {
		ttl = DefaultLedgerTTL
	}
	return &redisLedger{client: client, ttl: ttl}
}

func (l *redisLedger) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := l.client.Exists(ctx, redisLedgerPrefix+eventID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (l *redisLedger) Mark(ctx context.Context, eventID string) error {
	return l.client.SetNX(ctx, redisLedgerPrefix+eventID, time.Now().UTC().Unix(), l.ttl).Err()
}
