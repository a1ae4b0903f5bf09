package session

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Principal is the remote identity service's representation of a currently
// authenticated user.
type Principal interface {
	UID() string
	Email() string
}

// IdentityService is the remote system that issues user identifiers,
// verifies credentials, and dispatches password-reset email.
type IdentityService interface {
	// CreateAccount registers a new account and returns the service-issued
	// user identifier. Email uniqueness is enforced here, authoritatively.
	CreateAccount(ctx context.Context, email, password string) (string, error)

	// VerifyCredentials checks an email/password pair and returns the
	// signed-in principal. A nil principal with a nil error is possible and
	// callers must treat it as a failure.
	VerifyCredentials(ctx context.Context, email, password string) (Principal, error)

	// ListSignInMethods enumerates the sign-in methods registered for an
	// email. Used as an advisory duplicate check before registration.
	ListSignInMethods(ctx context.Context, email string) ([]string, error)

	// SendPasswordReset dispatches a reset email to the given address.
	SendPasswordReset(ctx context.Context, email string) error

	// CurrentPrincipal reports a pre-existing signed-in principal, or
	// (nil, nil) when there is none.
	CurrentPrincipal(ctx context.Context) (Principal, error)

	// SignOut drops the current principal. Treated as always succeeding.
	SignOut(ctx context.Context)
}

// ProfileStore is the remote document store holding per-user profile fields
// keyed by the identity-service-issued user identifier.
type ProfileStore interface {
	// GetProfile fetches the profile document for a user, or (nil, nil)
	// when the document does not exist.
	GetProfile(ctx context.Context, userID string) (*ProfileDocument, error)

	// PutProfile writes the full profile document for a user. Overwrite
	// semantics, not merge.
	PutProfile(ctx context.Context, userID string, doc ProfileDocument) error
}

// Listener receives a state snapshot after every manager mutation. The
// manager assumes a single cooperative consumer (the UI scheduler).
type Listener func(Snapshot)

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
