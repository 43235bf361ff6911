package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/metrics"
	"github.com/agroconnect/agroconnect-backend/pkg/pagination"
	"github.com/agroconnect/agroconnect-backend/pkg/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the community chat room.
type Service interface {
	Send(ctx context.Context, sender Sender, input SendInput) (*MessageDTO, error)
	List(ctx context.Context, params pagination.Params) (*pagination.Page[MessageDTO], error)
	Delete(ctx context.Context, userID, messageID uuid.UUID) error
	Clear(ctx context.Context, confirm bool) (int64, error)
	ApplyRetention(ctx context.Context) (*RetentionResult, error)
}

type messageRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error)
	ListBefore(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.ChatMessage, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	TrimToNewest(ctx context.Context, keep int) (int64, error)
}

// ServiceParams bundles the chat dependencies. Publisher and Metrics are optional.
type ServiceParams struct {
	Repo      messageRepository
	Config    config.ChatConfig
	Publisher realtime.Publisher
	Metrics   *metrics.RealtimeMetrics
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	repo      messageRepository
	cfg       config.ChatConfig
	publisher realtime.Publisher
	metrics   *metrics.RealtimeMetrics
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("chat repository required")
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		cfg:       params.Config,
		publisher: publisher,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       now,
	}, nil
}

// Send appends exactly one message and announces it to connected clients.
func (s *service) Send(ctx context.Context, sender Sender, input SendInput) (*MessageDTO, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, pkgerrors.Validation("text", "Please enter a message")
	}
	if limit := s.cfg.MaxMessageLength; limit > 0 && utf8.RuneCountInString(text) > limit {
		return nil, pkgerrors.Validation("text", fmt.Sprintf("Message must be at most %d characters", limit))
	}

	msg := &models.ChatMessage{
		Text:        text,
		Sender:      sender.FullName,
		SenderEmail: sender.Email,
		SenderID:    sender.ID,
		SenderType:  sender.UserType,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store chat message")
	}
	s.metrics.ChatMessageSent()

	dto := FromModel(msg)
	s.announce(ctx, enums.RealtimeChatMessageCreated, dto)
	return &dto, nil
}

// List pages backwards from the newest message; each page is returned oldest
// first so it can be appended above what the client already shows.
func (s *service) List(ctx context.Context, params pagination.Params) (*pagination.Page[MessageDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Validation("cursor", "cursor is invalid")
	}
	rows, err := s.repo.ListBefore(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list chat messages")
	}

	dtos := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	page := pagination.Trim(dtos, params.Limit, func(m MessageDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.Timestamp, ID: m.ID}
	})
	slices.Reverse(page.Items)
	return &page, nil
}

// Delete removes one of the caller's own messages.
func (s *service) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	msg, err := s.repo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load chat message")
	}
	if msg.SenderID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you can only delete your own messages")
	}
	deleted, err := s.repo.Delete(ctx, messageID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete chat message")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}
	s.announce(ctx, enums.RealtimeChatMessageDeleted, deletedPayload{ID: messageID})
	return nil
}

// Clear wipes the room for everyone. confirm must be set explicitly.
func (s *service) Clear(ctx context.Context, confirm bool) (int64, error) {
	if !confirm {
		return 0, pkgerrors.Validation("confirm", "confirmation required")
	}
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear chat")
	}
	s.announce(ctx, enums.RealtimeChatCleared, clearedPayload{Removed: removed})
	return removed, nil
}

// ApplyRetention drops messages past the retention period, then everything
// beyond the newest MaxMessages. Open rooms are told to reload when anything
// went.
func (s *service) ApplyRetention(ctx context.Context) (*RetentionResult, error) {
	result := &RetentionResult{}
	if s.cfg.Retention > 0 {
		n, err := s.repo.DeleteOlderThan(ctx, s.now().UTC().Add(-s.cfg.Retention))
		if err != nil {
			return nil, fmt.Errorf("expire chat messages: %w", err)
		}
		result.Expired = n
	}
	if s.cfg.MaxMessages > 0 {
		n, err := s.repo.TrimToNewest(ctx, s.cfg.MaxMessages)
		if err != nil {
			return nil, fmt.Errorf("trim chat messages: %w", err)
		}
		result.Trimmed = n
	}
	if result.Expired+result.Trimmed > 0 {
		s.announce(ctx, enums.RealtimeChatPruned, result)
	}
	return result, nil
}

func (s *service) announce(ctx context.Context, eventType enums.RealtimeEventType, data any) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithField(ctx, "event_type", eventType.String()), "realtime publish failed", err)
	}
}
