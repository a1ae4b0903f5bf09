package identitytoolkit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/examvault/go-session"
)

// apiError is the error envelope the Identity Toolkit API returns. The
// message field carries a machine-readable code, sometimes with a
// human-readable suffix ("WEAK_PASSWORD : Password should be ...").
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// mapAPIError converts a coded API failure into the session taxonomy.
// Codes without a taxonomy match surface as plain errors and classify as
// Unknown upstream.
func mapAPIError(action string, status int, raw []byte) error {
	var envelope apiError
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Message == "" {
		return fmt.Errorf("identitytoolkit: %s failed with status %d", action, status)
	}

	message := envelope.Error.Message
	code := message
	if idx := strings.IndexAny(code, " :"); idx > 0 {
		code = code[:idx]
	}

	switch code {
	case "EMAIL_EXISTS":
		return session.ErrEmailInUse
	case "WEAK_PASSWORD":
		return session.ErrWeakPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return session.ErrInvalidEmail
	case "EMAIL_NOT_FOUND":
		return session.ErrNoSuchUser
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return session.ErrBadCredentials
	default:
		return fmt.Errorf("identitytoolkit: %s failed: %s", action, message)
	}
}
