package identitytoolkit

import (
	"fmt"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator verifies backend-issued ID tokens against the issuer's
// published JWKS. Used during session restore so a tampered or stale
// persisted token never re-authenticates a session.
type TokenValidator struct {
	cfg  Config
	jwks *keyfunc.JWKS
}

// NewTokenValidator fetches the JWKS and keeps it refreshed in the
// background.
func NewTokenValidator(cfg Config) (*TokenValidator, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("identitytoolkit: project ID is required for token validation")
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{})
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit: fetch JWKS: %w", err)
	}

	return &TokenValidator{cfg: cfg, jwks: jwks}, nil
}

// Validate checks the signature, issuer, audience, and expiry of an ID
// token and returns its claims.
func (v *TokenValidator) Validate(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.cfg.issuer()),
		jwt.WithAudience(v.cfg.ProjectID),
	)
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit: token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("identitytoolkit: token is not valid")
	}

	return claims, nil
}
