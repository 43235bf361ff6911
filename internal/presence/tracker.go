// Package presence tracks which signed-in users were active recently.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/metrics"
)

// DefaultWindow is how long a user counts as online after the last activity.
const DefaultWindow = 5 * time.Minute

// Entry is one online user. LastActive is epoch milliseconds.
type Entry struct {
	Email      string         `json:"email"`
	FullName   string         `json:"full_name"`
	UserType   enums.UserType `json:"user_type"`
	LastActive int64          `json:"last_active"`
}

// Snapshot is the presence.updated payload pushed to open sockets.
type Snapshot struct {
	Online []Entry `json:"online"`
}

// User identifies who is being marked.
type User struct {
	Email    string
	FullName string
	UserType enums.UserType
}

// TrackerParams configures a Tracker.
type TrackerParams struct {
	Store   Store
	Window  time.Duration
	Logger  *logger.Logger
	Metrics *metrics.RealtimeMetrics
	Now     func() time.Time
}

// Tracker is the presence service.
type Tracker struct {
	store   Store
	window  time.Duration
	logg    *logger.Logger
	metrics *metrics.RealtimeMetrics
	now     func() time.Time
}

func NewTracker(params TrackerParams) (*Tracker, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("presence store required")
	}
	window := params.Window
	if window <= 0 {
		window = DefaultWindow
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		store:   params.Store,
		window:  window,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// MarkOnline upserts the user's entry with last activity set to now.
func (t *Tracker) MarkOnline(ctx context.Context, user User) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return fmt.Errorf("email is required")
	}
	raw, err := json.Marshal(Entry{
		Email:      email,
		FullName:   user.FullName,
		UserType:   user.UserType,
		LastActive: t.now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encode presence: %w", err)
	}
	if err := t.store.Put(ctx, email, string(raw)); err != nil {
		return fmt.Errorf("store presence: %w", err)
	}
	return nil
}

// MarkOffline drops the user's entry.
func (t *Tracker) MarkOffline(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if err := t.store.Remove(ctx, email); err != nil {
		return fmt.Errorf("remove presence: %w", err)
	}
	return nil
}

// LoadOnline returns users active within the window sorted by name, and
// deletes stale and malformed entries from the store.
func (t *Tracker) LoadOnline(ctx context.Context) ([]Entry, error) {
	active, _, err := t.sweep(ctx)
	return active, err
}

// Prune deletes stale entries and reports how many were removed.
func (t *Tracker) Prune(ctx context.Context) (int, error) {
	_, removed, err := t.sweep(ctx)
	return removed, err
}

func (t *Tracker) sweep(ctx context.Context) ([]Entry, int, error) {
	active, stale, err := t.partition(ctx)
	if err != nil {
		return nil, 0, err
	}
	removed := 0
	if len(stale) > 0 {
		if removed, err = t.store.RemoveUnchanged(ctx, stale); err != nil {
			return nil, 0, fmt.Errorf("prune presence: %w", err)
		}
	}
	t.metrics.SetOnlineUsers(len(active))
	return active, removed, nil
}

// Window is the configured activity window.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// partition splits the hash into active entries and the raw values of stale
// or malformed ones, keyed by field.
func (t *Tracker) partition(ctx context.Context) ([]Entry, map[string]string, error) {
	raw, err := t.store.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load presence: %w", err)
	}
	nowMs := t.now().UnixMilli()
	windowMs := t.window.Milliseconds()

	active := make([]Entry, 0, len(raw))
	stale := map[string]string{}
	for field, value := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(value), &entry); err != nil || entry.Email == "" {
			t.warnMalformed(ctx, field)
			stale[field] = value
			continue
		}
		if nowMs-entry.LastActive >= windowMs {
			stale[field] = value
			continue
		}
		active = append(active, entry)
	}
	sort.Slice(active, func(i, j int) bool {
		a, b := strings.ToLower(active[i].FullName), strings.ToLower(active[j].FullName)
		if a != b {
			return a < b
		}
		return active[i].Email < active[j].Email
	})
	return active, stale, nil
}

func (t *Tracker) warnMalformed(ctx context.Context, field string) {
	if t.logg == nil {
		return
	}
	t.logg.Warn(t.logg.WithField(ctx, "presence_field", field), "dropping malformed presence entry")
}
