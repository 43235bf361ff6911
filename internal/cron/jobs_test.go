package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agroconnect/agroconnect-backend/internal/chat"
	"github.com/agroconnect/agroconnect-backend/internal/presence"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
)

type fakeRetainer struct {
	calls int
	err   error
}

func (f *fakeRetainer) ApplyRetention(context.Context) (*chat.RetentionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &chat.RetentionResult{Expired: 3, Trimmed: 1}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test"})
}

func TestChatRetentionJobRunsService(t *testing.T) {
	retainer := &fakeRetainer{}
	job, err := NewChatRetentionJob(ChatRetentionJobParams{Logger: testLogger(), Chat: retainer})
	if err != nil {
		t.Fatalf("NewChatRetentionJob: %v", err)
	}
	if job.Name() != "chat_retention" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if retainer.calls != 1 {
		t.Fatalf("expected one retention pass, got %d", retainer.calls)
	}

	retainer.err = errors.New("db down")
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestChatRetentionJobRequiresDeps(t *testing.T) {
	if _, err := NewChatRetentionJob(ChatRetentionJobParams{Logger: testLogger()}); err == nil {
		t.Fatal("expected missing chat service error")
	}
}

type capturedEvent struct {
	eventType enums.RealtimeEventType
	data      any
}

type capturePublisher struct {
	events []capturedEvent
}

func (c *capturePublisher) Publish(_ context.Context, eventType enums.RealtimeEventType, data any) error {
	c.events = append(c.events, capturedEvent{eventType: eventType, data: data})
	return nil
}

func TestPresencePruneJobRemovesExpiredAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	store := presence.NewMemoryStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	tracker, err := presence.NewTracker(presence.TrackerParams{
		Store: store,
		Now:   func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	if err := tracker.MarkOnline(ctx, presence.User{Email: "ravi@farm.in", FullName: "Ravi"}); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}
	now = now.Add(10 * time.Minute)
	if err := tracker.MarkOnline(ctx, presence.User{Email: "anita@farm.in", FullName: "Anita"}); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}

	pub := &capturePublisher{}
	job, err := NewPresencePruneJob(PresencePruneJobParams{Logger: testLogger(), Presence: tracker, Publisher: pub})
	if err != nil {
		t.Fatalf("NewPresencePruneJob: %v", err)
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	raw, _ := store.All(ctx)
	if _, ok := raw["ravi@farm.in"]; ok || len(raw) != 1 {
		t.Fatalf("expected only anita to remain, got %v", raw)
	}
	if len(pub.events) != 1 || pub.events[0].eventType != enums.RealtimePresenceUpdated {
		t.Fatalf("expected one presence.updated event, got %+v", pub.events)
	}
	snapshot, ok := pub.events[0].data.(presence.Snapshot)
	if !ok || len(snapshot.Online) != 1 || snapshot.Online[0].Email != "anita@farm.in" {
		t.Fatalf("unexpected snapshot %+v", pub.events[0].data)
	}

	if err := job.Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("a prune that removes nothing should not broadcast, got %d events", len(pub.events))
	}
}
