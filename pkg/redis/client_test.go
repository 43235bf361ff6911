package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestIncrWithTTLExpiresOnFirstHitOnly(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}
	key := client.RateLimitKey("ip:login:1.2.3.4")

	for want := int64(1); want <= 3; want++ {
		got, err := client.IncrWithTTL(ctx, key, time.Minute)
		if err != nil {
			t.Fatalf("incr %d: %v", want, err)
		}
		if got != want {
			t.Fatalf("expected count %d got %d", want, got)
		}
	}
	if len(mock.expireCalls) != 1 || mock.expireCalls[0].ttl != time.Minute {
		t.Fatalf("expected a single expire of 1m, got %+v", mock.expireCalls)
	}
}

func TestGetDelClaimsOnce(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}
	key := client.AccessSessionKey("access-1")

	if err := client.Set(ctx, key, "payload", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := client.GetDel(ctx, key)
	if err != nil || got != "payload" {
		t.Fatalf("expected payload, got %q err=%v", got, err)
	}
	if _, err := client.GetDel(ctx, key); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil on second claim, got %v", err)
	}
}

func TestHashHelpers(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.PresenceKey()
	if err := client.HSet(ctx, key, "a@farm.in", `{"email":"a@farm.in"}`, "b@farm.in", `{"email":"b@farm.in"}`); err != nil {
		t.Fatalf("hset failed: %v", err)
	}
	all, err := client.HGetAll(ctx, key)
	if err != nil {
		t.Fatalf("hgetall failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(all))
	}

	if err := client.HDel(ctx, key, "a@farm.in"); err != nil {
		t.Fatalf("hdel failed: %v", err)
	}
	all, _ = client.HGetAll(ctx, key)
	if _, ok := all["a@farm.in"]; ok || len(all) != 1 {
		t.Fatalf("expected a@farm.in removed, got %v", all)
	}
	if err := client.HDel(ctx, key); err != nil {
		t.Fatalf("hdel with no fields should be a no-op: %v", err)
	}
}

func TestHDelIfEqualKeepsRewrittenFields(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}
	key := client.PresenceKey()

	if err := client.HSet(ctx, key, "a@farm.in", "old", "b@farm.in", "old"); err != nil {
		t.Fatalf("hset failed: %v", err)
	}
	if err := client.HSet(ctx, key, "b@farm.in", "fresh"); err != nil {
		t.Fatalf("hset failed: %v", err)
	}

	removed, err := client.HDelIfEqual(ctx, key, map[string]string{"a@farm.in": "old", "b@farm.in": "old", "c@farm.in": "old"})
	if err != nil {
		t.Fatalf("hdel if equal failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	all, _ := client.HGetAll(ctx, key)
	if all["b@farm.in"] != "fresh" || len(all) != 1 {
		t.Fatalf("expected only the rewritten field to survive, got %v", all)
	}

	if n, err := client.HDelIfEqual(ctx, key, nil); err != nil || n != 0 {
		t.Fatalf("empty expectation should be a no-op, got %d %v", n, err)
	}
}

func TestPublishRecordsPayload(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}
	if err := client.Publish(context.Background(), client.ChannelName("realtime"), "hello"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if got := mock.published["ag:channel:realtime"]; len(got) != 1 || got[0] != "hello" {
		t.Fatalf("unexpected published payloads %v", got)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if _, err := client.Get(context.Background(), "x"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := client.Subscribe(context.Background(), "x"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized from subscribe, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on empty client should be nil, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "ag:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("scope"); got != "ag:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.AccessSessionKey("jti"); got != "ag:session:access:jti" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.CacheKey("products", "all"); got != "ag:cache:products:all" {
		t.Fatalf("unexpected cache key %s", got)
	}
	if got := client.CacheKey("products", ""); got != "ag:cache:products" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
	if got := client.LockKey("cron"); got != "ag:lock:cron" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := client.PresenceKey(); got != "ag:presence" {
		t.Fatalf("unexpected presence key %s", got)
	}
}

type mockCmdable struct {
	data        map[string]string
	hashes      map[string]map[string]string
	incr        map[string]int64
	published   map[string][]string
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:      make(map[string]string),
		hashes:    make(map[string]map[string]string),
		incr:      make(map[string]int64),
		published: make(map[string][]string),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) GetDel(ctx context.Context, key string) *redis.StringCmd {
	cmd := m.Get(ctx, key)
	delete(m.data, key)
	return cmd
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) HSet(ctx context.Context, key string, values ...any) *redis.IntCmd {
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	var added int64
	for i := 0; i+1 < len(values); i += 2 {
		field := fmt.Sprint(values[i])
		if _, exists := h[field]; !exists {
			added++
		}
		h[field] = fmt.Sprint(values[i+1])
	}
	return redis.NewIntResult(added, nil)
}

func (m *mockCmdable) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	out := make(map[string]string)
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (m *mockCmdable) HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd {
	var removed int64
	for _, field := range fields {
		if _, ok := m.hashes[key][field]; ok {
			delete(m.hashes[key], field)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

// Eval understands the one script the client sends.
func (m *mockCmdable) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if script != hdelIfEqualScript {
		return redis.NewCmdResult(nil, fmt.Errorf("unexpected script"))
	}
	var removed int64
	for i := 0; i+1 < len(args); i += 2 {
		field, want := fmt.Sprint(args[i]), fmt.Sprint(args[i+1])
		if got, ok := m.hashes[keys[0]][field]; ok && got == want {
			delete(m.hashes[keys[0]], field)
			removed++
		}
	}
	return redis.NewCmdResult(removed, nil)
}

func (m *mockCmdable) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	m.published[channel] = append(m.published[channel], fmt.Sprint(message))
	return redis.NewIntResult(1, nil)
}
