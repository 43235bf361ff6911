package redis

import "strings"

// Every key lives under "ag:" so the marketplace can share a Redis instance.
// Layout: ag:<area>[:<part>...]. Blank parts are dropped.
const keyNamespace = "ag"

type keyArea string

const (
	areaIdempotency keyArea = "idempotency"
	areaRateLimit   keyArea = "rate_limit"
	areaSession     keyArea = "session"
	areaCache       keyArea = "cache"
	areaLock        keyArea = "lock"
	areaPresence    keyArea = "presence"
	areaChannel     keyArea = "channel"
)

func key(area keyArea, parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	b.WriteByte(':')
	b.WriteString(string(area))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			b.WriteByte(':')
			b.WriteString(p)
		}
	}
	return b.String()
}

// IdempotencyKey holds a stored response for one client supplied key in scope.
func (c *Client) IdempotencyKey(scope, id string) string { return key(areaIdempotency, scope, id) }

func (c *Client) RateLimitKey(scope string) string { return key(areaRateLimit, scope) }

// AccessSessionKey maps an access token jti to its refresh session.
func (c *Client) AccessSessionKey(accessID string) string {
	return key(areaSession, "access", accessID)
}

func (c *Client) CacheKey(parts ...string) string { return key(areaCache, parts...) }

func (c *Client) LockKey(name string) string { return key(areaLock, name) }

// PresenceKey is the single hash of online users, field = email.
func (c *Client) PresenceKey() string { return key(areaPresence) }

func (c *Client) ChannelName(name string) string { return key(areaChannel, name) }
