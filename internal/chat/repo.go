package chat

import (
	"context"
	"errors"
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists chat messages.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListBefore returns up to limit messages older than cursor, newest first. A
// nil cursor starts from the newest message.
func (r *Repository) ListBefore(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.ChatMessage, error) {
	var rows []models.ChatMessage
	err := r.db.WithContext(ctx).
		Scopes(pagination.OlderThan(cursor)).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ChatMessage{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteAll empties the room and returns how many messages were removed.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.ChatMessage{})
	return res.RowsAffected, res.Error
}

func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ChatMessage{})
	return res.RowsAffected, res.Error
}

// TrimToNewest keeps the keep newest messages and deletes the rest.
func (r *Repository) TrimToNewest(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	var boundary models.ChatMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(keep).
		Limit(1).
		Take(&boundary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).
		Where("created_at < ? OR (created_at = ? AND id <= ?)", boundary.CreatedAt, boundary.CreatedAt, boundary.ID).
		Delete(&models.ChatMessage{})
	return res.RowsAffected, res.Error
}
