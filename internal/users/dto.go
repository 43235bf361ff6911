package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	FullName    string         `json:"full_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     string         `json:"address"`
	UserType    enums.UserType `json:"user_type"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	FullName     string
	Email        string
	Phone        string
	Address      string
	PasswordHash string
	UserType     enums.UserType
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		Address:     u.Address,
		UserType:    u.UserType,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// PublicProfile is what one signed-in user may see about another. Contact
// details stay with the account owner.
type PublicProfile struct {
	ID        uuid.UUID      `json:"id"`
	FullName  string         `json:"full_name"`
	UserType  enums.UserType `json:"user_type"`
	CreatedAt time.Time      `json:"created_at"`
}

func PublicProfiles(list []models.User) []PublicProfile {
	out := make([]PublicProfile, 0, len(list))
	for _, u := range list {
		out = append(out, PublicProfile{
			ID:        u.ID,
			FullName:  u.FullName,
			UserType:  u.UserType,
			CreatedAt: u.CreatedAt,
		})
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		FullName:     strings.TrimSpace(c.FullName),
		Email:        NormalizeEmail(c.Email),
		Phone:        strings.TrimSpace(c.Phone),
		Address:      strings.TrimSpace(c.Address),
		PasswordHash: c.PasswordHash,
		UserType:     c.UserType,
	}
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Location derives a display location from a free-form address: the last
// comma separated part, or "Unknown" when there is nothing usable.
func Location(address string) string {
	parts := strings.Split(address, ",")
	last := strings.TrimSpace(parts[len(parts)-1])
	if last == "" {
		return "Unknown"
	}
	return last
}
