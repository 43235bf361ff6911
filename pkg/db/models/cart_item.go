package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one product line in a buyer's cart. Product fields are snapshotted
// at add time so the line survives catalog edits.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product"`
	Name      string    `gorm:"column:name;not null"`
	Price     string    `gorm:"column:price;not null"`
	Image     string    `gorm:"column:image;not null"`
	Farmer    string    `gorm:"column:farmer;not null"`
	Location  string    `gorm:"column:location;not null"`
	Rating    float64   `gorm:"column:rating;not null"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}
