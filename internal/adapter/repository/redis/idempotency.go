package redis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "idempotency:"
	// pendingPrefix marks a claim whose transaction has not been persisted
	// yet. The ULID suffix identifies the claimer; Release compares it
	// before deleting, so a stale release cannot remove another instance's
	// reservation or a recorded outcome.
	pendingPrefix = "pending:"
)

// releaseScript deletes the key only while it still holds the releasing
// claimer's own token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// IdempotencyStore implements usecase.IdempotencyCache on Redis, for
// deployments where submissions may land on any instance.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewIdempotencyStore creates a store with the given TTL. Redis evicts
// expired keys itself, so no sweeper is needed.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		ttl:    ttl,
		tokens: make(map[string]string),
	}
}

// CheckAndReserve atomically claims key via SET NX. Exactly one of many
// racing callers gets the claim; the rest observe either the recorded
// transaction id or a pending marker.
func (s *IdempotencyStore) CheckAndReserve(ctx context.Context, key string) (string, bool, error) {
	token := pendingPrefix + ulid.Make().String()

	set, err := s.client.SetNX(ctx, keyPrefix+key, token, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if set {
		s.mu.Lock()
		s.tokens[key] = token
		s.mu.Unlock()
		return "", true, nil
	}

	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		// The holder expired or released between SetNX and Get. Treat as
		// in-flight; the caller's retry will claim it.
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if strings.HasPrefix(val, pendingPrefix) {
		return "", false, nil
	}

	return val, false, nil
}

// Store records the outcome under key, restarting the TTL.
func (s *IdempotencyStore) Store(ctx context.Context, key, transactionID string) error {
	s.mu.Lock()
	delete(s.tokens, key)
	s.mu.Unlock()

	return s.client.Set(ctx, keyPrefix+key, transactionID, s.ttl).Err()
}

// Release frees a claim whose submission failed. The delete is conditional
// on the key still holding this instance's reservation token, so a release
// arriving after the claim expired and was taken over elsewhere is a no-op.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	token, ok := s.tokens[key]
	delete(s.tokens, key)
	s.mu.Unlock()

	if !ok {
		return nil
	}

	return releaseScript.Run(ctx, s.client, []string{keyPrefix + key}, token).Err()
}
