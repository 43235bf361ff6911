package chat

import (
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/google/uuid"
)

// MessageDTO is one chat message as sent to clients.
type MessageDTO struct {
	ID          uuid.UUID      `json:"id"`
	Text        string         `json:"text"`
	Sender      string         `json:"sender"`
	SenderEmail string         `json:"sender_email"`
	SenderType  enums.UserType `json:"sender_type"`
	Timestamp   time.Time      `json:"timestamp"`
}

// SendInput is the compose box.
type SendInput struct {
	Text string `json:"text"`
}

// Sender is the signed-in author of a message.
type Sender struct {
	ID       uuid.UUID
	FullName string
	Email    string
	UserType enums.UserType
}

// RetentionResult reports what a retention pass removed.
type RetentionResult struct {
	Expired int64 `json:"expired"`
	Trimmed int64 `json:"trimmed"`
}

type deletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type clearedPayload struct {
	Removed int64 `json:"removed"`
}

func FromModel(m *models.ChatMessage) MessageDTO {
	return MessageDTO{
		ID:          m.ID,
		Text:        m.Text,
		Sender:      m.Sender,
		SenderEmail: m.SenderEmail,
		SenderType:  m.SenderType,
		Timestamp:   m.CreatedAt,
	}
}
