package equipment

import (
	"context"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists rental listings.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Transaction runs fn against a repository bound to a single transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *Repository) Create(ctx context.Context, item *models.Equipment) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// CreateBatch inserts rows in one statement.
func (r *Repository) CreateBatch(ctx context.Context, items []models.Equipment) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var item models.Equipment
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns every listing, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Equipment, error) {
	var items []models.Equipment
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Equipment{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// SetAvailability flips the flag when version still matches. It reports
// whether the row was updated.
func (r *Repository) SetAvailability(ctx context.Context, id uuid.UUID, available bool, version int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Equipment{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{"available": available, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Equipment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
