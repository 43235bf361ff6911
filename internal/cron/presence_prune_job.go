package cron

import (
	"context"
	"fmt"

	"github.com/agroconnect/agroconnect-backend/internal/presence"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/realtime"
)

type presencePruner interface {
	Prune(ctx context.Context) (int, error)
	LoadOnline(ctx context.Context) ([]presence.Entry, error)
}

// PresencePruneJobParams configures the prune job. Publisher is optional.
type PresencePruneJobParams struct {
	Logger    *logger.Logger
	Presence  presencePruner
	Publisher realtime.Publisher
}

// NewPresencePruneJob removes users whose last activity left the window and
// pushes the shrunken online list to open sockets.
func NewPresencePruneJob(params PresencePruneJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Presence == nil {
		return nil, fmt.Errorf("presence tracker required")
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	return &presencePruneJob{logg: params.Logger, presence: params.Presence, publisher: publisher}, nil
}

type presencePruneJob struct {
	logg      *logger.Logger
	presence  presencePruner
	publisher realtime.Publisher
}

func (j *presencePruneJob) Name() string { return "presence_prune" }

func (j *presencePruneJob) Run(ctx context.Context) error {
	removed, err := j.presence.Prune(ctx)
	if err != nil {
		return fmt.Errorf("prune presence: %w", err)
	}
	if removed == 0 {
		return nil
	}
	j.logg.Info(j.logg.WithField(ctx, "removed", removed), "expired presence entries removed")

	online, err := j.presence.LoadOnline(ctx)
	if err != nil {
		return fmt.Errorf("reload presence: %w", err)
	}
	if err := j.publisher.Publish(ctx, enums.RealtimePresenceUpdated, presence.Snapshot{Online: online}); err != nil {
		return fmt.Errorf("publish presence: %w", err)
	}
	return nil
}
