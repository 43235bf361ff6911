package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

// CalendarEvent is a dated entry on the shared farming calendar. Date is kept as
// the YYYY-MM-DD string so lookups match exactly what the user picked.
type CalendarEvent struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title          string          `gorm:"column:title;not null"`
	Description    string          `gorm:"column:description;not null;default:''"`
	Date           string          `gorm:"column:date;type:varchar(10);not null;index"`
	Time           string          `gorm:"column:time;not null"`
	Type           enums.EventType `gorm:"column:type;type:text;not null"`
	Location       string          `gorm:"column:location;not null;default:''"`
	CreatedBy      string          `gorm:"column:created_by;not null"`
	CreatedByEmail string          `gorm:"column:created_by_email;not null"`
	CreatedByID    uuid.UUID       `gorm:"column:created_by_id;type:uuid;not null"`
	UserType       enums.UserType  `gorm:"column:user_type;type:text;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (e *CalendarEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
