package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

type contextKey string

const (
	ctxPrincipal contextKey = "principal"
)

// Principal is the signed-in user resolved from the access token.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	UserType enums.UserType
	AccessID string
}

// PrincipalFromContext returns the authenticated user, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok
}

func UserIDFromContext(ctx context.Context) string {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.UserID.String()
	}
	return ""
}

func UserTypeFromContext(ctx context.Context) enums.UserType {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.UserType
	}
	return ""
}

// WithPrincipal injects the authenticated user into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}
