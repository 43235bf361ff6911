package auth

import (
	"github.com/agroconnect/agroconnect-backend/internal/users"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

// LoginRequest carries the credentials and the user type tab the client picked.
type LoginRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	UserType enums.UserType `json:"user_type"`
}

// RegisterRequest is the signup form. Field checks run in the service so the
// messages match what the signup page shows.
type RegisterRequest struct {
	FullName        string         `json:"full_name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Address         string         `json:"address"`
	Password        string         `json:"password"`
	ConfirmPassword string         `json:"confirm_password"`
	AgreeTerms      bool           `json:"agree_terms"`
	UserType        enums.UserType `json:"user_type"`
}

// LoginResponse contains the tokens, the session entry and the dashboard the
// client should open.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
	Dashboard    string         `json:"dashboard"`
}
