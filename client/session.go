package client

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// Session is the authenticated user's token as handed out by the session
// provider.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionProvider hands out the current session. Returning (nil, nil) means
// no session is available; that is a state, not an error.
type SessionProvider interface {
	Session(ctx context.Context) (*Session, error)
}

// SessionCache memoizes the provider's session for a bounded interval so a
// burst of dashboard calls does not hammer the provider. The read-check-write
// sequence is mutex-guarded, and cache population goes through singleflight
// so concurrent misses trigger at most one provider fetch.
type SessionCache struct {
	provider SessionProvider
	ttl      time.Duration
	now      func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	session *Session
	expiry  time.Time
}

// NewSessionCache builds a cache over provider. A non-positive ttl falls back
// to one hour.
func NewSessionCache(provider SessionProvider, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionCache{provider: provider, ttl: ttl, now: time.Now}
}

// Get returns the cached session while the TTL holds and fetches from the
// provider otherwise. A (nil, nil) result mirrors the provider: no session.
func (c *SessionCache) Get(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if c.session != nil && c.now().Before(c.expiry) {
		sess := c.session
		c.mu.Unlock()
		return sess, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("session", func() (any, error) {
		sess, err := c.provider.Session(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.session = sess
		if sess != nil {
			c.expiry = c.now().Add(c.ttl)
		} else {
			c.expiry = time.Time{}
		}
		c.mu.Unlock()
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	sess, _ := v.(*Session)
	return sess, nil
}

// Invalidate drops the cached session so the next Get re-fetches.
func (c *SessionCache) Invalidate() {
	c.mu.Lock()
	c.session = nil
	c.expiry = time.Time{}
	c.mu.Unlock()
}

// Swap replaces the cached token after a successful refresh, keeping the
// current TTL window. A no-op when the cache was invalidated in between.
func (c *SessionCache) Swap(token string, expiresAt time.Time) {
	c.mu.Lock()
	if c.session != nil {
		c.session = &Session{Token: token, ExpiresAt: expiresAt}
	}
	c.mu.Unlock()
}

// tokenExpired reports whether the JWT's exp claim is in the past. The token
// is decoded locally without signature verification; the backend stays the
// authority on validity, this only decides whether a refresh is worth trying.
// Tokens that do not parse or carry no exp claim are treated as current.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
