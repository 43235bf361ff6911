package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

// ChatMessage is one entry of the community chat room.
type ChatMessage struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Text        string         `gorm:"column:text;not null"`
	Sender      string         `gorm:"column:sender;not null"`
	SenderEmail string         `gorm:"column:sender_email;not null"`
	SenderID    uuid.UUID      `gorm:"column:sender_id;type:uuid;not null"`
	SenderType  enums.UserType `gorm:"column:sender_type;type:text;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;index"`
}

func (m *ChatMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}
