package session

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeEmailInUse        = "EMAIL_IN_USE"
	textCodeWeakPassword      = "WEAK_PASSWORD"
	textCodeInvalidEmail      = "INVALID_EMAIL_FORMAT"
	textCodeNoSuchUser        = "NO_SUCH_USER"
	textCodeBadCredentials    = "BAD_CREDENTIALS"
	textCodeUnknown           = "UNKNOWN"
	textCodeOperationInFlight = "OPERATION_IN_FLIGHT"
	textCodeNotAuthenticated  = "NOT_AUTHENTICATED"
	textCodeProfileNotLoaded  = "PROFILE_NOT_LOADED"
)

// ErrEmailInUse is returned when registration (or the advisory pre-check)
// finds an existing account for the email.
var ErrEmailInUse = goerrors.New("an account already exists for this email", goerrors.CategoryConflict).
	WithTextCode(textCodeEmailInUse).
	WithCode(goerrors.CodeConflict)

// ErrWeakPassword is returned when the password fails the identity
// service's strength policy.
var ErrWeakPassword = goerrors.New("password does not meet the strength policy", goerrors.CategoryValidation).
	WithTextCode(textCodeWeakPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidEmail is returned for a malformed email string.
var ErrInvalidEmail = goerrors.New("email address is malformed", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidEmail).
	WithCode(goerrors.CodeBadRequest)

// ErrNoSuchUser is returned when sign-in or reset targets an unregistered
// email.
var ErrNoSuchUser = goerrors.New("no account registered for this email", goerrors.CategoryNotFound).
	WithTextCode(textCodeNoSuchUser).
	WithCode(goerrors.CodeNotFound)

// ErrBadCredentials is returned on a password mismatch for an existing
// account.
var ErrBadCredentials = goerrors.New("email and password do not match", goerrors.CategoryAuth).
	WithTextCode(textCodeBadCredentials)

// ErrOperationInFlight is returned when an identity operation is requested
// while another one is still running. Operations are rejected, not queued.
var ErrOperationInFlight = goerrors.New("another account operation is already in flight", goerrors.CategoryConflict).
	WithTextCode(textCodeOperationInFlight).
	WithCode(goerrors.CodeConflict)

// ErrNotAuthenticated is returned when a profile mutation is requested
// without a signed-in user.
var ErrNotAuthenticated = goerrors.New("no authenticated user", goerrors.CategoryAuth).
	WithTextCode(textCodeNotAuthenticated)

// ErrProfileNotLoaded is returned when a profile mutation is requested
// before hydration has populated the local profile mirror.
var ErrProfileNotLoaded = goerrors.New("user profile has not loaded yet", goerrors.CategoryOperation).
	WithTextCode(textCodeProfileNotLoaded)

// Classify folds any identity-service or profile-store failure into exactly
// one taxonomy error. Errors already carrying a taxonomy text code pass
// through untouched; everything else becomes an Unknown wrapper that keeps
// the underlying diagnostic text.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && isTaxonomyCode(richErr.TextCode) {
		return richErr
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "account operation failed").
		WithTextCode(textCodeUnknown)
}

func isTaxonomyCode(code string) bool {
	switch code {
	case textCodeEmailInUse, textCodeWeakPassword, textCodeInvalidEmail,
		textCodeNoSuchUser, textCodeBadCredentials, textCodeUnknown,
		textCodeOperationInFlight, textCodeNotAuthenticated,
		textCodeProfileNotLoaded:
		return true
	}
	return false
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

// IsEmailInUse checks for the duplicate-account category.
func IsEmailInUse(err error) bool { return hasTextCode(err, textCodeEmailInUse) }

// IsWeakPassword checks for the password-strength category.
func IsWeakPassword(err error) bool { return hasTextCode(err, textCodeWeakPassword) }

// IsInvalidEmail checks for the malformed-email category.
func IsInvalidEmail(err error) bool { return hasTextCode(err, textCodeInvalidEmail) }

// IsNoSuchUser checks for the unregistered-email category.
func IsNoSuchUser(err error) bool { return hasTextCode(err, textCodeNoSuchUser) }

// IsBadCredentials checks for the password-mismatch category.
func IsBadCredentials(err error) bool { return hasTextCode(err, textCodeBadCredentials) }

// IsOperationInFlight checks for the single-flight rejection.
func IsOperationInFlight(err error) bool { return hasTextCode(err, textCodeOperationInFlight) }

// UserMessage maps a classified error to the fixed human-readable message
// shown in the UI. Unknown failures include the underlying diagnostic text
// when one is available.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return "Something went wrong: " + err.Error()
	}

	switch richErr.TextCode {
	case textCodeEmailInUse:
		return "An account already exists for this email."
	case textCodeWeakPassword:
		return "Password is too weak. Use at least 6 characters."
	case textCodeInvalidEmail:
		return "That email address is not valid."
	case textCodeNoSuchUser:
		return "No account found for this email."
	case textCodeBadCredentials:
		return "Incorrect email or password."
	case textCodeOperationInFlight:
		return "Please wait for the current operation to finish."
	case textCodeNotAuthenticated:
		return "You need to be signed in to do that."
	case textCodeProfileNotLoaded:
		return "Your profile is still loading. Try again in a moment."
	default:
		if richErr.Source != nil {
			return "Something went wrong: " + richErr.Source.Error()
		}
		return "Something went wrong: " + richErr.Error()
	}
}
