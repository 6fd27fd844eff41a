package sheets

import (
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// expiryMargin treats a token as expired slightly before its declared expiry.
const expiryMargin = 30 * time.Second

// TokenCache holds the session's bearer token. It is never persisted.
type TokenCache struct {
	mu    sync.RWMutex
	token *oauth2.Token
	now   func() time.Time
}

// NewTokenCache creates an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// Get returns the cached token if it is present and unexpired.
func (c *TokenCache) Get() (*oauth2.Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil || c.token.AccessToken == "" {
		return nil, false
	}
	if !c.token.Expiry.IsZero() && !c.now().Add(expiryMargin).Before(c.token.Expiry) {
		return nil, false
	}
	return c.token, true
}

// Set stores a token.
func (c *TokenCache) Set(token *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// SetWithLifetime stores an access token that expires after lifetime.
func (c *TokenCache) SetWithLifetime(accessToken string, lifetime time.Duration) {
	c.Set(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      c.now().Add(lifetime),
	})
}

// Clear drops the cached token.
func (c *TokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
}

// Valid reports whether Get would succeed.
func (c *TokenCache) Valid() bool {
	_, ok := c.Get()
	return ok
}
