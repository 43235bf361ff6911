package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

// Equipment is a rental listing. Seeded listings have no OwnerID and IsFromJSON set.
type Equipment struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID        *uuid.UUID               `gorm:"column:owner_id;type:uuid;index"`
	Name           string                   `gorm:"column:name;not null"`
	Type           enums.EquipmentType      `gorm:"column:type;type:text;not null"`
	Price          string                   `gorm:"column:price;not null"`
	PriceAmount    decimal.NullDecimal      `gorm:"column:price_amount;type:numeric(12,2)"`
	Image          string                   `gorm:"column:image;not null"`
	Owner          string                   `gorm:"column:owner;not null"`
	OwnerEmail     string                   `gorm:"column:owner_email;not null"`
	OwnerPhone     string                   `gorm:"column:owner_phone;not null"`
	Rating         float64                  `gorm:"column:rating;not null;default:4.5"`
	Location       string                   `gorm:"column:location;not null"`
	Specifications string                   `gorm:"column:specifications;not null"`
	Condition      enums.EquipmentCondition `gorm:"column:condition;type:text;not null"`
	Available      bool                     `gorm:"column:available;not null"`
	IsFromJSON     bool                     `gorm:"column:is_from_json;not null;default:false"`
	Version        int                      `gorm:"column:version;not null;default:1"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (Equipment) TableName() string {
	return "equipment"
}

func (e *Equipment) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Version == 0 {
		e.Version = 1
	}
	return nil
}
