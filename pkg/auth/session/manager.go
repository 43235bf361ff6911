package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/agroconnect/agroconnect-backend/pkg/config"
	redisclient "github.com/agroconnect/agroconnect-backend/pkg/redis"
)

const refreshTokenBytes = 32

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	errMissingAccessID     = errors.New("access id is required")
)

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker is the read side the auth middleware needs.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// grant is stored under the access token's jti. The user id pins the refresh
// token to the account it was issued to.
type grant struct {
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

func (g grant) matches(userID, token string) bool {
	return g.UserID == userID && subtle.ConstantTimeCompare([]byte(g.RefreshToken), []byte(token)) == 1
}

// Manager issues, rotates and revokes refresh grants in Redis. A grant lives
// as long as the refresh TTL and dies with logout or rotation.
type Manager struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("session manager: redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	access := time.Duration(cfg.ExpirationMinutes) * time.Minute
	switch {
	case ttl <= 0:
		return nil, errors.New("session manager: refresh ttl must be positive")
	case ttl <= access:
		return nil, fmt.Errorf("session manager: refresh ttl %s must outlive access ttl %s", ttl, access)
	}
	return &Manager{store: client, ttl: ttl, now: time.Now}, nil
}

// NewAccessID returns the identifier used as JWT jti and session key.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate stores a fresh grant for accessID and returns its refresh token.
func (m *Manager) Generate(ctx context.Context, accessID, userID string) (string, error) {
	if blank(accessID) {
		return "", errMissingAccessID
	}
	if blank(userID) {
		return "", errors.New("user id is required")
	}
	return m.issue(ctx, accessID, userID)
}

// Rotate trades a valid refresh token for a new access id and refresh token.
// The old grant is claimed with GETDEL so two concurrent refreshes cannot both
// succeed. A wrong token leaves the grant untouched.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, userID, provided string) (string, string, error) {
	if blank(oldAccessID) || blank(provided) {
		return "", "", ErrInvalidRefreshToken
	}
	key := m.store.AccessSessionKey(oldAccessID)

	current, err := m.lookup(ctx, key, m.store.Get)
	if err != nil {
		return "", "", err
	}
	if !current.matches(userID, provided) {
		return "", "", ErrInvalidRefreshToken
	}

	claimed, err := m.lookup(ctx, key, m.store.GetDel)
	if err != nil {
		return "", "", err
	}
	if !claimed.matches(userID, provided) {
		return "", "", ErrInvalidRefreshToken
	}

	accessID := NewAccessID()
	token, err := m.issue(ctx, accessID, userID)
	if err != nil {
		return "", "", err
	}
	return accessID, token, nil
}

// Revoke drops the grant. Revoking a missing grant is not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if blank(accessID) {
		return errMissingAccessID
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if blank(accessID) {
		return false, errMissingAccessID
	}
	_, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redislib.Nil):
		return false, nil
	default:
		return false, err
	}
}

func (m *Manager) issue(ctx context.Context, accessID, userID string) (string, error) {
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(grant{RefreshToken: token, UserID: userID, IssuedAt: m.now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, m.store.AccessSessionKey(accessID), string(payload), m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// lookup reads a grant with read (Get or GetDel). Missing or unreadable
// grants both surface as ErrInvalidRefreshToken.
func (m *Manager) lookup(ctx context.Context, key string, read func(context.Context, string) (string, error)) (grant, error) {
	raw, err := read(ctx, key)
	if errors.Is(err, redislib.Nil) {
		return grant{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return grant{}, err
	}
	var g grant
	if json.Unmarshal([]byte(raw), &g) != nil {
		return grant{}, ErrInvalidRefreshToken
	}
	return g, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
