package presence

import (
	"context"
	"fmt"
	"sync"
)

// Store keeps one raw JSON entry per email.
type Store interface {
	Put(ctx context.Context, email, entry string) error
	All(ctx context.Context) (map[string]string, error)
	Remove(ctx context.Context, emails ...string) error
	// RemoveUnchanged deletes each email only while it still holds the entry
	// in seen, and reports how many were deleted. A heartbeat that lands
	// after the read survives.
	RemoveUnchanged(ctx context.Context, seen map[string]string) (int, error)
}

type hashClient interface {
	HSet(ctx context.Context, key string, values ...any) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	HDelIfEqual(ctx context.Context, key string, expected map[string]string) (int64, error)
	PresenceKey() string
}

// RedisStore keeps presence in a single Redis hash shared by every instance.
type RedisStore struct {
	client hashClient
}

func NewRedisStore(client hashClient) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Put(ctx context.Context, email, entry string) error {
	return s.client.HSet(ctx, s.client.PresenceKey(), email, entry)
}

func (s *RedisStore) All(ctx context.Context) (map[string]string, error) {
	return s.client.HGetAll(ctx, s.client.PresenceKey())
}

func (s *RedisStore) Remove(ctx context.Context, emails ...string) error {
	return s.client.HDel(ctx, s.client.PresenceKey(), emails...)
}

func (s *RedisStore) RemoveUnchanged(ctx context.Context, seen map[string]string) (int, error) {
	n, err := s.client.HDelIfEqual(ctx, s.client.PresenceKey(), seen)
	return int(n), err
}

// MemoryStore is a process-local Store for tests and single-node dev.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

func (s *MemoryStore) Put(_ context.Context, email, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = entry
	return nil
}

func (s *MemoryStore) All(context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Remove(_ context.Context, emails ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, email := range emails {
		delete(s.entries, email)
	}
	return nil
}

func (s *MemoryStore) RemoveUnchanged(_ context.Context, seen map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for email, entry := range seen {
		if current, ok := s.entries[email]; ok && current == entry {
			delete(s.entries, email)
			removed++
		}
	}
	return removed, nil
}
