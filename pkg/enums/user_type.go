package enums

import (
	"fmt"
	"strings"
)

// UserType separates the buyer and seller dashboards.
type UserType string

const (
	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
)

var validUserTypes = []UserType{
	UserTypeBuyer,
	UserTypeSeller,
}

// String implements fmt.Stringer.
func (u UserType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserType.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// Dashboard names the landing view for the user type.
func (u UserType) Dashboard() string {
	return string(u) + "-dashboard"
}

// ParseUserType converts raw input into a UserType. Matching is case-insensitive.
func ParseUserType(value string) (UserType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validUserTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}
