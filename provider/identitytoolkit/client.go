package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/examvault/go-session"
)

// Client implements session.IdentityService against the Identity Toolkit
// v1 REST API, the contract password-based mobile clients authenticate
// through. The current principal (ID token, refresh token, UID, email) is
// held in memory; RestoreSession re-seeds it from tokens the app persisted
// across launches.
type Client struct {
	cfg       Config
	http      *http.Client
	logger    session.Logger
	validator *TokenValidator

	mu  sync.Mutex
	tok *tokenState
	now func() time.Time
}

type tokenState struct {
	uid          string
	email        string
	idToken      string
	refreshToken string
	expiresAt    time.Time
}

type clientPrincipal struct {
	uid   string
	email string
}

func (p clientPrincipal) UID() string   { return p.uid }
func (p clientPrincipal) Email() string { return p.email }

var _ session.IdentityService = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLogger overrides the default stdout logger.
func WithLogger(logger session.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTokenValidator enables JWKS-verified session restore instead of the
// default unverified expiry check.
func WithTokenValidator(validator *TokenValidator) Option {
	return func(c *Client) {
		c.validator = validator
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		if clock != nil {
			c.now = clock
		}
	}
}

// New creates an Identity Toolkit client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: session.NopLogger(),
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

type signUpResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// CreateAccount calls accounts:signUp. The service enforces email
// uniqueness and its password policy; policy failures come back as coded
// API errors mapped onto the session taxonomy.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (string, error) {
	var out signUpResponse
	err := c.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return "", err
	}

	c.storeToken(out.LocalID, out.Email, out.IDToken, out.RefreshToken, out.ExpiresIn)
	return out.LocalID, nil
}

// VerifyCredentials calls accounts:signInWithPassword.
func (c *Client) VerifyCredentials(ctx context.Context, email, password string) (session.Principal, error) {
	var out signUpResponse
	err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}

	if out.LocalID == "" {
		return nil, nil
	}

	c.storeToken(out.LocalID, out.Email, out.IDToken, out.RefreshToken, out.ExpiresIn)
	return clientPrincipal{uid: out.LocalID, email: out.Email}, nil
}

type createAuthURIResponse struct {
	Registered    bool     `json:"registered"`
	SigninMethods []string `json:"signinMethods"`
}

// ListSignInMethods calls accounts:createAuthUri to enumerate the sign-in
// methods registered for an email.
func (c *Client) ListSignInMethods(ctx context.Context, email string) ([]string, error) {
	var out createAuthURIResponse
	err := c.post(ctx, "accounts:createAuthUri", map[string]any{
		"identifier":  email,
		"continueUri": "http://localhost",
	}, &out)
	if err != nil {
		return nil, err
	}

	if len(out.SigninMethods) == 0 && out.Registered {
		return []string{"password"}, nil
	}
	return out.SigninMethods, nil
}

// SendPasswordReset calls accounts:sendOobCode with a PASSWORD_RESET
// request.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// CurrentPrincipal reports the in-memory principal when its ID token has
// not expired yet, or (nil, nil).
func (c *Client) CurrentPrincipal(ctx context.Context) (session.Principal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tok == nil {
		return nil, nil
	}

	if !c.tok.expiresAt.IsZero() && !c.now().Before(c.tok.expiresAt) {
		c.tok = nil
		return nil, nil
	}

	return clientPrincipal{uid: c.tok.uid, email: c.tok.email}, nil
}

// SignOut drops the in-memory principal. Identity Toolkit keeps no
// server-side session for password sign-in, so there is nothing to revoke.
func (c *Client) SignOut(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tok = nil
}

// IDToken returns the current bearer token for downstream services (the
// profile store authenticates with it), or an error when signed out.
func (c *Client) IDToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tok == nil || c.tok.idToken == "" {
		return "", fmt.Errorf("identitytoolkit: no signed-in principal")
	}
	return c.tok.idToken, nil
}

// RestoreSession seeds the client from tokens the app persisted across
// launches. With a TokenValidator configured the ID token is verified
// against the issuer's JWKS; otherwise only its claims and expiry are
// inspected.
func (c *Client) RestoreSession(idToken, refreshToken string) error {
	var claims jwt.MapClaims

	if c.validator != nil {
		verified, err := c.validator.Validate(idToken)
		if err != nil {
			return err
		}
		claims = verified
	} else {
		claims = jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
			return fmt.Errorf("identitytoolkit: malformed ID token: %w", err)
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return fmt.Errorf("identitytoolkit: ID token has no subject")
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	if !expiresAt.IsZero() && !c.now().Before(expiresAt) {
		return fmt.Errorf("identitytoolkit: ID token is expired")
	}

	email, _ := claims["email"].(string)

	c.mu.Lock()
	c.tok = &tokenState{
		uid:          sub,
		email:        email,
		idToken:      idToken,
		refreshToken: refreshToken,
		expiresAt:    expiresAt,
	}
	c.mu.Unlock()

	return nil
}

func (c *Client) storeToken(uid, email, idToken, refreshToken, expiresIn string) {
	expiresAt := time.Time{}
	if secs, err := strconv.Atoi(expiresIn); err == nil && secs > 0 {
		expiresAt = c.now().Add(time.Duration(secs) * time.Second)
	}

	c.mu.Lock()
	c.tok = &tokenState{
		uid:          uid,
		email:        email,
		idToken:      idToken,
		refreshToken: refreshToken,
		expiresAt:    expiresAt,
	}
	c.mu.Unlock()
}

func (c *Client) post(ctx context.Context, action string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("identitytoolkit: encode %s request: %w", action, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.cfg.Endpoint, action, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("identitytoolkit: build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identitytoolkit: %s: %w", action, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("identitytoolkit: read %s response: %w", action, err)
	}

	if res.StatusCode >= 400 {
		c.logger.Debug("identity toolkit error response", "action", action, "status", res.StatusCode)
		return mapAPIError(action, res.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identitytoolkit: decode %s response: %w", action, err)
	}
	return nil
}
