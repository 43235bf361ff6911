package equipment

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultImage       = "🚜"
	defaultRating      = 4.5
	phoneNotProvided   = "Not provided"
	inquirySubjectLead = "Inquiry about "
)

// EquipmentDTO is a rental listing as returned to sellers.
type EquipmentDTO struct {
	ID             uuid.UUID                `json:"id"`
	OwnerID        *uuid.UUID               `json:"owner_id,omitempty"`
	Name           string                   `json:"name"`
	Type           enums.EquipmentType      `json:"type"`
	Price          string                   `json:"price"`
	PriceAmount    *decimal.Decimal         `json:"price_amount,omitempty"`
	Image          string                   `json:"image"`
	Owner          string                   `json:"owner"`
	OwnerEmail     string                   `json:"owner_email"`
	OwnerPhone     string                   `json:"owner_phone"`
	Rating         float64                  `json:"rating"`
	Location       string                   `json:"location"`
	Specifications string                   `json:"specifications"`
	Condition      enums.EquipmentCondition `json:"condition"`
	Available      bool                     `json:"available"`
	IsFromJSON     bool                     `json:"is_from_json"`
	Version        int                      `json:"version"`
	CreatedAt      time.Time                `json:"created_at"`
}

// Stats summarises the pool the way the rentals page header shows it.
type Stats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
}

// ListResult is the full listing plus its stats.
type ListResult struct {
	Items []EquipmentDTO `json:"items"`
	Stats Stats          `json:"stats"`
}

// CreateEquipmentInput is the add-listing form. Optional fields fall back to
// the page defaults.
type CreateEquipmentInput struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Price          string   `json:"price"`
	Image          string   `json:"image"`
	Specifications string   `json:"specifications"`
	Condition      string   `json:"condition"`
	Available      *bool    `json:"available"`
	Rating         *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
}

// AvailabilityInput toggles whether a listing can be rented.
type AvailabilityInput struct {
	Available *bool `json:"available" validate:"required"`
	Version   int   `json:"version" validate:"required,min=1"`
}

// ContactDTO carries what a renter needs to reach the owner.
type ContactDTO struct {
	Owner      string `json:"owner"`
	OwnerEmail string `json:"owner_email"`
	OwnerPhone string `json:"owner_phone"`
	MailtoURL  string `json:"mailto_url,omitempty"`
	TelURL     string `json:"tel_url,omitempty"`
}

// FromModel maps a row to its DTO.
func FromModel(m *models.Equipment) EquipmentDTO {
	dto := EquipmentDTO{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		Type:           m.Type,
		Price:          m.Price,
		Image:          m.Image,
		Owner:          m.Owner,
		OwnerEmail:     m.OwnerEmail,
		OwnerPhone:     m.OwnerPhone,
		Rating:         m.Rating,
		Location:       m.Location,
		Specifications: m.Specifications,
		Condition:      m.Condition,
		Available:      m.Available,
		IsFromJSON:     m.IsFromJSON,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
	}
	if m.PriceAmount.Valid {
		amount := m.PriceAmount.Decimal
		dto.PriceAmount = &amount
	}
	return dto
}

func newListResult(rows []models.Equipment) ListResult {
	out := ListResult{Items: make([]EquipmentDTO, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, FromModel(&rows[i]))
		if rows[i].Available {
			out.Stats.Available++
		}
	}
	out.Stats.Total = len(rows)
	out.Stats.Unavailable = out.Stats.Total - out.Stats.Available
	return out
}

// ContactFor builds the owner contact card. The mail link is omitted when no
// email is on file and the phone link when the phone was never provided.
func ContactFor(m *models.Equipment) ContactDTO {
	contact := ContactDTO{
		Owner:      m.Owner,
		OwnerEmail: m.OwnerEmail,
		OwnerPhone: m.OwnerPhone,
	}
	if contact.OwnerPhone == "" {
		contact.OwnerPhone = phoneNotProvided
	}
	if m.OwnerEmail != "" {
		query := url.Values{"subject": []string{inquirySubjectLead + m.Name}}
		contact.MailtoURL = fmt.Sprintf("mailto:%s?%s", m.OwnerEmail, strings.ReplaceAll(query.Encode(), "+", "%20"))
	}
	if contact.OwnerPhone != phoneNotProvided {
		contact.TelURL = "tel:" + contact.OwnerPhone
	}
	return contact
}
