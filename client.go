package waxhub

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// ProductionURL is the official production endpoint.
	ProductionURL = "https://api.waxhub.fm/"
	// SandboxURL is the official sandbox endpoint.
	SandboxURL = "https://api.sandbox.waxhub.fm/"

	// mediaType is the JSON:API media type used for request bodies.
	mediaType = "application/vnd.api+json"

	modulePath = "go.waxhub.fm/waxhub"
)

var (
	// ErrRefreshFailed is returned when the session cannot obtain a fresh
	// access token after the API reported the current one as expired.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrMalformedRelationship is returned when a relationship references
	// an identifier with an empty type or id.
	ErrMalformedRelationship = errors.New("relationship identifier missing type or id")
	// ErrRateLimit is returned when the rate limit is exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrNoAccessToken is returned when the token endpoint responds
	// without an access token.
	ErrNoAccessToken = errors.New("no access token available")
	// ErrNoRefreshToken is returned when no refresh token is available.
	ErrNoRefreshToken = errors.New("no refresh token available")
)

// Client holds configuration needed to call the Waxhub API.
// Use [New] to create a new client.
//
// A Client remembers the response of its most recent call (see
// [Client.LastResponse]), so one Client must not be shared between
// concurrent callers. Use one Client per goroutine or serialize access
// externally.
type Client struct {
	baseURL *url.URL

	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger

	session     Session
	accessToken string
	autoRefresh bool

	retryInitialInterval time.Duration
	retryMaxElapsed      time.Duration

	lastResponse *Response

	retryAfterMU sync.Mutex
	retryAfter   time.Time
}

// ClientOption configures a Client before use.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL *url.URL) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithSandbox configures the client to use the Waxhub sandbox endpoint.
func WithSandbox() ClientOption {
	return func(c *Client) {
		sandboxURL, _ := url.Parse(SandboxURL)

		c.baseURL = sandboxURL
	}
}

// WithHTTPClient sets a custom HTTP client. Timeouts live here.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAccessToken configures a static access token. It is used as a
// fallback when no session is configured and cannot be refreshed.
func WithAccessToken(token string) ClientOption {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithSession configures the session that supplies and refreshes the
// access token. It takes precedence over [WithAccessToken].
func WithSession(session Session) ClientOption {
	return func(c *Client) {
		c.session = session
	}
}

// WithAutoRefresh controls whether an expired-token error triggers a
// transparent refresh and a single retry. Enabled by default.
func WithAutoRefresh(enabled bool) ClientOption {
	return func(c *Client) {
		c.autoRefresh = enabled
	}
}

// WithUserAgent sets a custom User-Agent header for API requests.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets a structured logger. Logging is off by default.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetryPolicy tunes the transport-level retry of network errors and
// server errors: the initial backoff interval and the total time budget.
func WithRetryPolicy(initialInterval, maxElapsed time.Duration) ClientOption {
	return func(c *Client) {
		c.retryInitialInterval = initialInterval
		c.retryMaxElapsed = maxElapsed
	}
}

// New creates a Waxhub API client.
// The client defaults to the production Waxhub endpoint and applies any
// provided options.
func New(opts ...ClientOption) *Client {
	productionURL, _ := url.Parse(ProductionURL)

	c := &Client{
		baseURL: productionURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:               zap.NewNop(),
		autoRefresh:          true,
		retryInitialInterval: 100 * time.Millisecond,
		retryMaxElapsed:      30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.userAgent == "" {
		c.userAgent = userAgent()
	}

	return c
}

// LastResponse returns the response of the most recent call made by this
// client, or nil before the first call. The slot is overwritten on every
// call and is not safe for concurrent use.
func (c *Client) LastResponse() *Response {
	return c.lastResponse
}

// token resolves the access token for the next request: the session's
// token when a session is configured, the static token otherwise.
func (c *Client) token() string {
	if c.session != nil {
		return c.session.AccessToken()
	}

	return c.accessToken
}

// version returns the module version of the waxhub package.
// It returns "devel" if built without module version information.
func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}

	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			if dep.Version == "(devel)" {
				return "devel"
			}

			return dep.Version
		}
	}

	if info.Main.Path == modulePath {
		if info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		// If main version is (devel), we can try to read vcs revision
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return "devel+" + setting.Value[:7]
			}
		}
	}

	return "devel"
}

// userAgent returns the default User-Agent string for this package.
func userAgent() string {
	v := version()
	goVersion := runtime.Version()
	os := runtime.GOOS
	arch := runtime.GOARCH
	return fmt.Sprintf("go-waxhub/%s (%s; %s/%s)", v, goVersion, os, arch)
}
