package waxhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session supplies the access token for outgoing requests and can exchange
// it for a fresh one when the API reports it as expired.
type Session interface {
	// AccessToken returns the current access token, or "" when none is
	// installed yet.
	AccessToken() string
	// RefreshAccessToken obtains a new access token. A nil error means
	// the new token is installed and returned by AccessToken from now on.
	RefreshAccessToken(ctx context.Context) error
}

// TokenSession is a [Session] backed by the OAuth refresh-token grant of
// the Waxhub token endpoint.
type TokenSession struct {
	mu sync.Mutex

	accessToken  string
	refreshToken string
	expiresAt    time.Time

	tokenURL     string
	clientID     string
	clientSecret string

	httpClient *http.Client
	parser     *jwt.Parser
	now        func() time.Time
}

// TokenSessionOption configures a TokenSession before use.
type TokenSessionOption func(*TokenSession)

// WithSessionHTTPClient sets a custom HTTP client for token exchanges.
func WithSessionHTTPClient(httpClient *http.Client) TokenSessionOption {
	return func(s *TokenSession) {
		s.httpClient = httpClient
	}
}

// NewTokenSession creates a session that exchanges refreshToken for access
// tokens at tokenURL.
func NewTokenSession(tokenURL, clientID, clientSecret, refreshToken string, opts ...TokenSessionOption) *TokenSession {
	s := &TokenSession{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		parser: jwt.NewParser(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type refreshTokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

type refreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AccessToken returns the current access token, or "" before the first
// successful refresh.
func (s *TokenSession) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accessToken
}

// ExpiresAt returns the expiry of the current access token.
func (s *TokenSession) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.expiresAt
}

// ShouldRefresh reports whether the current token is missing or expires
// within the next two minutes. Callers batching many requests can use it
// to refresh proactively instead of paying for a rejected request.
func (s *TokenSession) ShouldRefresh(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == "" {
		return true
	}

	return now.Add(2 * time.Minute).After(s.expiresAt)
}

// RefreshAccessToken exchanges the refresh token for a new access token.
// When the server rotates the refresh token, the new one replaces the old.
func (s *TokenSession) RefreshAccessToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshToken == "" {
		return ErrNoRefreshToken
	}

	body, err := json.Marshal(refreshTokenRequest{
		GrantType:    "refresh_token",
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RefreshToken: s.refreshToken,
	})
	if err != nil {
		return fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("refresh rejected: %s: %d",
			http.StatusText(resp.StatusCode), resp.StatusCode)
	}

	var tokenResp refreshTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}

	return s.install(tokenResp)
}

// install validates and stores a token response. The caller holds the lock.
func (s *TokenSession) install(resp refreshTokenResponse) error {
	if resp.AccessToken == "" {
		return ErrNoAccessToken
	}

	expiresAt, err := s.tokenExpiry(resp)
	if err != nil {
		return err
	}

	s.accessToken = resp.AccessToken
	s.expiresAt = expiresAt
	if resp.RefreshToken != "" {
		s.refreshToken = resp.RefreshToken
	}

	return nil
}

// tokenExpiry derives the token lifetime, preferring the advertised
// expires_in and falling back to the exp claim of the token itself.
func (s *TokenSession) tokenExpiry(resp refreshTokenResponse) (time.Time, error) {
	if resp.ExpiresIn > 0 {
		return s.now().Add(time.Duration(resp.ExpiresIn) * time.Second), nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := s.parser.ParseUnverified(resp.AccessToken, &claims); err != nil {
		return time.Time{}, fmt.Errorf("unable to parse token: %w", err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token carries no expiry")
	}

	return claims.ExpiresAt.Time, nil
}
