package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

type clock struct {
	at time.Time
}

func (c *clock) now() time.Time { return c.at }

func newTracker(t *testing.T, store Store, c *clock) *Tracker {
	t.Helper()
	tracker, err := NewTracker(TrackerParams{Store: store, Now: c.now})
	require.NoError(t, err)
	return tracker
}

func TestLoadOnlineKeepsOnlyRecentEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := &clock{at: time.UnixMilli(1_700_000_000_000)}
	tracker := newTracker(t, store, c)

	require.NoError(t, tracker.MarkOnline(ctx, User{Email: "Ravi@Farm.in", FullName: "Ravi Kumar", UserType: enums.UserTypeSeller}))
	c.at = c.at.Add(2 * time.Minute)
	require.NoError(t, tracker.MarkOnline(ctx, User{Email: "anita@farm.in", FullName: "Anita Sharma", UserType: enums.UserTypeBuyer}))
	c.at = c.at.Add(3 * time.Minute)

	online, err := tracker.LoadOnline(ctx)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "anita@farm.in", online[0].Email)
	for _, entry := range online {
		assert.Less(t, c.at.UnixMilli()-entry.LastActive, int64(300000))
	}

	raw, err := store.All(ctx)
	require.NoError(t, err)
	assert.NotContains(t, raw, "ravi@farm.in", "stale entries are deleted from the store")
}

func TestMarkOnlineRefreshesSingleEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := &clock{at: time.UnixMilli(1_700_000_000_000)}
	tracker := newTracker(t, store, c)
	user := User{Email: "meena@farm.in", FullName: "Meena Devi", UserType: enums.UserTypeBuyer}

	require.NoError(t, tracker.MarkOnline(ctx, user))
	c.at = c.at.Add(4 * time.Minute)
	require.NoError(t, tracker.MarkOnline(ctx, user))
	c.at = c.at.Add(4 * time.Minute)

	online, err := tracker.LoadOnline(ctx)
	require.NoError(t, err)
	require.Len(t, online, 1)

	require.NoError(t, tracker.MarkOffline(ctx, "MEENA@farm.in"))
	online, err = tracker.LoadOnline(ctx)
	require.NoError(t, err)
	assert.Empty(t, online)
}

func TestLoadOnlineDropsMalformedAndSorts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := &clock{at: time.UnixMilli(1_700_000_000_000)}
	tracker := newTracker(t, store, c)

	require.NoError(t, store.Put(ctx, "broken@farm.in", "{not json"))
	require.NoError(t, store.Put(ctx, "empty@farm.in", `{"full_name":"No Email"}`))
	require.NoError(t, tracker.MarkOnline(ctx, User{Email: "zoya@farm.in", FullName: "Zoya Khan"}))
	require.NoError(t, tracker.MarkOnline(ctx, User{Email: "arjun@farm.in", FullName: "arjun Rao"}))

	online, err := tracker.LoadOnline(ctx)
	require.NoError(t, err)
	require.Len(t, online, 2)
	assert.Equal(t, "arjun@farm.in", online[0].Email)
	assert.Equal(t, "zoya@farm.in", online[1].Email)

	raw, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, raw, 2)
}

func TestPruneReportsRemoved(t *testing.T) {
	ctx := context.Background()
	c := &clock{at: time.UnixMilli(1_700_000_000_000)}
	tracker := newTracker(t, NewMemoryStore(), c)

	require.NoError(t, tracker.MarkOnline(ctx, User{Email: "a@farm.in", FullName: "A"}))
	require.NoError(t, tracker.MarkOnline(ctx, User{Email: "b@farm.in", FullName: "B"}))
	c.at = c.at.Add(DefaultWindow)

	removed, err := tracker.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

// interleavedStore runs a write between the sweep's read and its delete.
type interleavedStore struct {
	*MemoryStore
	between func()
}

func (s *interleavedStore) RemoveUnchanged(ctx context.Context, seen map[string]string) (int, error) {
	if s.between != nil {
		s.between()
	}
	return s.MemoryStore.RemoveUnchanged(ctx, seen)
}

func TestSweepKeepsHeartbeatThatRacedTheRead(t *testing.T) {
	ctx := context.Background()
	store := &interleavedStore{MemoryStore: NewMemoryStore()}
	c := &clock{at: time.UnixMilli(1_700_000_000_000)}
	tracker := newTracker(t, store, c)
	user := User{Email: "kiran@farm.in", FullName: "Kiran Patil", UserType: enums.UserTypeBuyer}

	require.NoError(t, tracker.MarkOnline(ctx, user))
	c.at = c.at.Add(DefaultWindow + time.Second)
	store.between = func() {
		store.between = nil
		require.NoError(t, tracker.MarkOnline(ctx, user))
	}

	removed, err := tracker.Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	online, err := tracker.LoadOnline(ctx)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "kiran@farm.in", online[0].Email)
}

type fakeHash struct {
	fields map[string]string
	err    error
}

func (f *fakeHash) HSet(_ context.Context, key string, values ...any) error {
	if f.err != nil {
		return f.err
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.fields[key+"/"+values[i].(string)] = values[i+1].(string)
	}
	return nil
}

func (f *fakeHash) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]string{}
	prefix := key + "/"
	for k, v := range f.fields {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out[k[len(prefix):]] = v
		}
	}
	return out, nil
}

func (f *fakeHash) HDel(_ context.Context, key string, fields ...string) error {
	for _, field := range fields {
		delete(f.fields, key+"/"+field)
	}
	return nil
}

func (f *fakeHash) HDelIfEqual(_ context.Context, key string, expected map[string]string) (int64, error) {
	var removed int64
	for field, value := range expected {
		if f.fields[key+"/"+field] == value {
			delete(f.fields, key+"/"+field)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeHash) PresenceKey() string { return "ag:presence" }

func TestRedisStoreUsesPresenceHash(t *testing.T) {
	ctx := context.Background()
	hash := &fakeHash{fields: map[string]string{}}
	store, err := NewRedisStore(hash)
	require.NoError(t, err)
	tracker := newTracker(t, store, &clock{at: time.Now()})

	require.NoError(t, tracker.MarkOnline(ctx, User{Email: "ravi@farm.in", FullName: "Ravi"}))
	assert.Contains(t, hash.fields, "ag:presence/ravi@farm.in")

	online, err := tracker.LoadOnline(ctx)
	require.NoError(t, err)
	require.Len(t, online, 1)

	hash.err = errors.New("redis down")
	_, err = tracker.LoadOnline(ctx)
	require.Error(t, err)
}
