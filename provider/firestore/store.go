package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/examvault/go-session"
)

// TokenSource supplies the bearer token for each request. The identity
// service's ID token is what mobile clients authenticate document access
// with; (*identitytoolkit.Client).IDToken satisfies this.
type TokenSource func() (string, error)

// Store implements session.ProfileStore on the Firestore v1 REST documents
// API. Writes are full-document PATCHes without an update mask, which
// gives the overwrite (not merge) semantics the profile contract demands.
type Store struct {
	cfg    Config
	http   *http.Client
	tokens TokenSource
	logger session.Logger
}

var _ session.ProfileStore = (*Store)(nil)

// Option customizes the store.
type Option func(*Store)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Store) {
		if httpClient != nil {
			s.http = httpClient
		}
	}
}

// WithLogger overrides the default discard logger.
func WithLogger(logger session.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Firestore-backed profile store.
func New(cfg Config, tokens TokenSource, opts ...Option) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, fmt.Errorf("firestore: a token source is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	s := &Store{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		logger: session.NopLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// GetProfile fetches the profile document, or (nil, nil) when the user has
// none yet.
func (s *Store) GetProfile(ctx context.Context, userID string) (*session.ProfileDocument, error) {
	raw, status, err := s.do(ctx, http.MethodGet, s.cfg.documentURL(userID), nil)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, nil
	}
	if status >= 400 {
		return nil, fmt.Errorf("firestore: get document failed with status %d", status)
	}

	var doc restDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("firestore: decode document: %w", err)
	}

	profile := decodeProfile(doc.Fields)
	return &profile, nil
}

// PutProfile overwrites the full profile document for the user.
func (s *Store) PutProfile(ctx context.Context, userID string, doc session.ProfileDocument) error {
	body, err := json.Marshal(restDocument{Fields: encodeProfile(doc)})
	if err != nil {
		return fmt.Errorf("firestore: encode document: %w", err)
	}

	_, status, err := s.do(ctx, http.MethodPatch, s.cfg.documentURL(userID), body)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("firestore: put document failed with status %d", status)
	}

	return nil
}

func (s *Store) do(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	token, err := s.tokens()
	if err != nil {
		return nil, 0, fmt.Errorf("firestore: resolve bearer token: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("firestore: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := s.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("firestore: %s %s: %w", method, url, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("firestore: read response: %w", err)
	}

	if res.StatusCode >= 400 && res.StatusCode != http.StatusNotFound {
		s.logger.Debug("firestore error response", "status", res.StatusCode, "url", url)
	}

	return raw, res.StatusCode, nil
}
