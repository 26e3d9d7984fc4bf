package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot signals that no blob is stored under the key.
var ErrNoSnapshot = errors.New("snapshot: not found")

// ErrCorruptSnapshot signals that the stored blob could not be decoded.
// Callers recover by falling back to defaults; the store clears the key
// itself so the corruption is not seen twice.
var ErrCorruptSnapshot = errors.New("snapshot: corrupt state")

// Store persists single keyed blobs. Save replaces the whole value; there
// are no partial updates, so a reload never observes a torn write.
type Store interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, into any) error
	Clear(ctx context.Context, key string) error
}

// Memory is a map-backed store for dev and tests.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Save serializes value as JSON and replaces the blob under key.
func (m *Memory) Save(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

// Load decodes the blob under key into into.
func (m *Memory) Load(_ context.Context, key string, into any) error {
	m.mu.Lock()
	b, ok := m.data[key]
	if !ok {
		m.mu.Unlock()
		return ErrNoSnapshot
	}
	m.mu.Unlock()

	if err := json.Unmarshal(b, into); err != nil {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return ErrCorruptSnapshot
	}
	return nil
}

// Clear removes the blob under key. Clearing an absent key is not an error.
func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Put stores a raw blob, bypassing JSON encoding. Test hook for corruption.
func (m *Memory) Put(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
}

// RedisStore keeps snapshots as JSON strings in Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store with an optional key prefix and TTL.
// A zero TTL keeps snapshots until overwritten or cleared.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Save serializes value as JSON and replaces the blob under key.
func (s *RedisStore) Save(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), b, s.ttl).Err()
}

// Load decodes the blob under key. A malformed blob is deleted and reported
// as ErrCorruptSnapshot.
func (s *RedisStore) Load(ctx context.Context, key string, into any) error {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNoSnapshot
		}
		return err
	}
	if err := json.Unmarshal(b, into); err != nil {
		_ = s.client.Del(ctx, s.key(key)).Err()
		return ErrCorruptSnapshot
	}
	return nil
}

// Clear removes the blob under key.
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
