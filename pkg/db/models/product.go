package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a seller listing in the shared catalog. Price keeps the text the
// seller typed; PriceAmount is the parsed numeric value when one could be read.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SellerID    uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;index"`
	Name        string              `gorm:"column:name;not null"`
	Price       string              `gorm:"column:price;not null"`
	PriceAmount decimal.NullDecimal `gorm:"column:price_amount;type:numeric(12,2)"`
	Image       string              `gorm:"column:image;not null"`
	Farmer      string              `gorm:"column:farmer;not null"`
	Rating      float64             `gorm:"column:rating;not null;default:4.5"`
	Location    string              `gorm:"column:location;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
