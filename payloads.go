package session

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Payload validation runs in the caller before any manager operation; a
// validation failure short-circuits without a remote call.

// RegisterPayload is the registration form payload.
type RegisterPayload struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DisplayName     string `json:"display_name"`
	GradeLevel      string `json:"grade_level"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			validation.By(validNormalizedEmail),
		),
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.GradeLevel, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// SignInPayload is the sign-in form payload.
type SignInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r SignInPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			validation.By(validNormalizedEmail),
		),
		validation.Field(&r.Password, validation.Required),
	)
}

// PasswordResetPayload is the reset-request form payload.
type PasswordResetPayload struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r PasswordResetPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			validation.By(validNormalizedEmail),
		),
	)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// validNormalizedEmail checks the address after normalization so padded
// input from form fields does not fail format validation.
func validNormalizedEmail(value any) error {
	s, _ := value.(string)
	return is.Email.Validate(NormalizeEmail(s))
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field → message map for form rendering.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for field, ferr := range fieldErrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
