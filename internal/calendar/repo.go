package calendar

import (
	"context"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const eventOrder = "date ASC, time ASC, created_at ASC, id ASC"

// Repository persists calendar events.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, event *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByDate returns the events whose date string equals date exactly.
func (r *Repository) ListByDate(ctx context.Context, date string) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := r.db.WithContext(ctx).Where("date = ?", date).Order(eventOrder).Find(&events).Error
	return events, err
}

// ListBetween returns events with from <= date <= to. Dates compare as
// YYYY-MM-DD strings.
func (r *Repository) ListBetween(ctx context.Context, from, to string) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order(eventOrder).
		Find(&events).Error
	return events, err
}

// ListAll returns every event in calendar order.
func (r *Repository) ListAll(ctx context.Context) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := r.db.WithContext(ctx).Order(eventOrder).Find(&events).Error
	return events, err
}

// ListFrom returns up to limit events dated on or after from.
func (r *Repository) ListFrom(ctx context.Context, from string, limit int) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("date >= ?", from).
		Order(eventOrder).
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *Repository) CountFrom(ctx context.Context, from string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CalendarEvent{}).Where("date >= ?", from).Count(&n).Error
	return n, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CalendarEvent{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
