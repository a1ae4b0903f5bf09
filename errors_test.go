package session_test

import (
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examvault/go-session"
)

func TestClassify(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, session.Classify(nil))
	})

	t.Run("taxonomy errors pass through", func(t *testing.T) {
		tests := []struct {
			name  string
			err   error
			check func(error) bool
		}{
			{"email in use", session.ErrEmailInUse, session.IsEmailInUse},
			{"weak password", session.ErrWeakPassword, session.IsWeakPassword},
			{"invalid email", session.ErrInvalidEmail, session.IsInvalidEmail},
			{"no such user", session.ErrNoSuchUser, session.IsNoSuchUser},
			{"bad credentials", session.ErrBadCredentials, session.IsBadCredentials},
			{"operation in flight", session.ErrOperationInFlight, session.IsOperationInFlight},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				classified := session.Classify(tt.err)
				assert.True(t, tt.check(classified))
			})
		}
	})

	t.Run("wrapped taxonomy errors pass through", func(t *testing.T) {
		wrapped := fmt.Errorf("provider: %w", session.ErrNoSuchUser)
		assert.True(t, session.IsNoSuchUser(session.Classify(wrapped)))
	})

	t.Run("anything else becomes unknown", func(t *testing.T) {
		classified := session.Classify(errors.New("connection refused"))

		var richErr *goerrors.Error
		require.True(t, goerrors.As(classified, &richErr))
		assert.Equal(t, "UNKNOWN", richErr.TextCode)
		assert.Equal(t, goerrors.CategoryInternal, richErr.Category)

		// the diagnostic text survives for the fallback message
		assert.Contains(t, session.UserMessage(classified), "connection refused")
	})

	t.Run("each error maps to exactly one category", func(t *testing.T) {
		checks := []func(error) bool{
			session.IsEmailInUse,
			session.IsWeakPassword,
			session.IsInvalidEmail,
			session.IsNoSuchUser,
			session.IsBadCredentials,
			session.IsOperationInFlight,
		}

		for _, err := range []error{
			session.ErrEmailInUse,
			session.ErrWeakPassword,
			session.ErrInvalidEmail,
			session.ErrNoSuchUser,
			session.ErrBadCredentials,
			session.ErrOperationInFlight,
		} {
			matches := 0
			for _, check := range checks {
				if check(session.Classify(err)) {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "error %v", err)
		}
	})
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "email in use",
			err:      session.ErrEmailInUse,
			expected: "An account already exists for this email.",
		},
		{
			name:     "weak password",
			err:      session.ErrWeakPassword,
			expected: "Password is too weak. Use at least 6 characters.",
		},
		{
			name:     "invalid email",
			err:      session.ErrInvalidEmail,
			expected: "That email address is not valid.",
		},
		{
			name:     "no such user",
			err:      session.ErrNoSuchUser,
			expected: "No account found for this email.",
		},
		{
			name:     "bad credentials",
			err:      session.ErrBadCredentials,
			expected: "Incorrect email or password.",
		},
		{
			name:     "operation in flight",
			err:      session.ErrOperationInFlight,
			expected: "Please wait for the current operation to finish.",
		},
		{
			name:     "unknown carries diagnostics",
			err:      session.Classify(errors.New("tls handshake timeout")),
			expected: "Something went wrong: tls handshake timeout",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, session.UserMessage(tt.err))
		})
	}
}
