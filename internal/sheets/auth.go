package sheets

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/oauth2"
)

// DefaultScope grants read/write access to spreadsheets.
const DefaultScope = "https://www.googleapis.com/auth/spreadsheets"

// DefaultAuthURL is Google's authorization endpoint.
const DefaultAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"

// PendingOperation names the action interrupted by a redirect.
type PendingOperation string

const (
	PendingNone PendingOperation = ""
	PendingSave PendingOperation = "save"
)

// Navigator sends the user to the authorization page.
type Navigator interface {
	Navigate(authURL string) error
}

// BrowserNavigator opens the authorization page in the default browser.
type BrowserNavigator struct{}

// Navigate implements Navigator.
func (BrowserNavigator) Navigate(authURL string) error {
	return browser.OpenURL(authURL)
}

// AuthConfig configures the redirect-based token flow.
type AuthConfig struct {
	ClientID    string
	RedirectURL string
	AuthURL     string
	Scope       string
	Navigator   Navigator
	Logger      *slog.Logger
}

// Authorizer acquires bearer tokens in two phases. Token returns a cached
// token or starts the redirect and records the interrupted operation; Resume
// consumes the redirect's return fragment and hands back that operation.
type Authorizer struct {
	oauth     *oauth2.Config
	cache     *TokenCache
	navigator Navigator
	logger    *slog.Logger

	mu      sync.Mutex
	pending PendingOperation
	state   string
}

// NewAuthorizer creates an authorizer backed by cache.
func NewAuthorizer(cfg AuthConfig, cache *TokenCache) *Authorizer {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	if cfg.Navigator == nil {
		cfg.Navigator = BrowserNavigator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cache == nil {
		cache = NewTokenCache()
	}

	return &Authorizer{
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Scopes:      []string{cfg.Scope},
			Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthURL},
		},
		cache:     cache,
		navigator: cfg.Navigator,
		logger:    cfg.Logger,
	}
}

// Cache returns the token cache.
func (a *Authorizer) Cache() *TokenCache { return a.cache }

// Token returns a valid cached token. Otherwise it records op as pending,
// navigates to the authorization page and returns an *AuthRedirectError.
// The interrupted operation is not retried by Token itself.
func (a *Authorizer) Token(_ context.Context, op PendingOperation) (string, error) {
	if tok, ok := a.cache.Get(); ok {
		return tok.AccessToken, nil
	}

	authURL, err := a.beginRedirect(op)
	if err != nil {
		return "", err
	}

	if err := a.navigator.Navigate(authURL); err != nil {
		a.logger.Warn("Failed to open authorization page", "url", authURL, "error", err)
	}
	return "", &AuthRedirectError{URL: authURL}
}

// beginRedirect returns the authorization URL for the outstanding redirect,
// starting one if none is in flight. A pending save is never downgraded, so
// every open sign-in tab resumes the same operation.
func (a *Authorizer) beginRedirect(op PendingOperation) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == "" {
		state, err := newState()
		if err != nil {
			return "", fmt.Errorf("generate state: %w", err)
		}
		a.state = state
	}
	if op != PendingNone {
		a.pending = op
	}

	return a.oauth.AuthCodeURL(a.state,
		oauth2.SetAuthURLParam("response_type", "token"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	), nil
}

// AuthURL returns the authorization URL without navigating. It joins the
// outstanding redirect, if any, and keeps its pending operation.
func (a *Authorizer) AuthURL() (string, error) {
	return a.beginRedirect(PendingNone)
}

// Invalidate drops the cached token after the API rejected it, so the next
// Token call starts the redirect flow.
func (a *Authorizer) Invalidate() {
	a.cache.Clear()
	a.logger.Info("Cached token rejected; sign-in required")
}

// Pending returns the operation interrupted by the current redirect.
func (a *Authorizer) Pending() PendingOperation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Resume parses the return fragment ("access_token=...&expires_in=...&state=..."),
// caches the token, and returns and clears the pending operation.
func (a *Authorizer) Resume(fragment string) (PendingOperation, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return PendingNone, fmt.Errorf("parse authorization fragment: %w", err)
	}

	if msg := values.Get("error"); msg != "" {
		return PendingNone, fmt.Errorf("authorization denied: %s", msg)
	}

	accessToken := values.Get("access_token")
	if accessToken == "" {
		return PendingNone, errors.New("authorization fragment has no access_token")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != "" && values.Get("state") != a.state {
		return PendingNone, errors.New("authorization state mismatch")
	}

	lifetime := time.Hour
	if raw := values.Get("expires_in"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return PendingNone, fmt.Errorf("invalid expires_in %q: %w", raw, err)
		}
		lifetime = time.Duration(secs) * time.Second
	}
	a.cache.SetWithLifetime(accessToken, lifetime)

	op := a.pending
	a.pending = PendingNone
	a.state = ""

	a.logger.Info("Authorization completed", "expiresIn", lifetime, "pending", string(op))
	return op, nil
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
