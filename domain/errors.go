package domain

import "errors"

// Draft errors
var (
	ErrDraftNotFound = errors.New("draft not found")
)

// Account errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email address is already taken")
	ErrDraftIncomplete = errors.New("registration flow not completed")
)

// Phone verification errors
var (
	ErrCodeNotFound    = errors.New("verification code not found")
	ErrCodeExpired     = errors.New("verification code has expired")
	ErrCodeInvalid     = errors.New("invalid verification code")
	ErrTooManyAttempts = errors.New("too many verification attempts")
	ErrResendThrottled = errors.New("verification code resend throttled")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// ValidationErrors maps field names to user-facing messages. A step handler
// returning one re-renders the same step without mutating the draft.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	for field, msg := range v {
		return field + ": " + msg
	}
	return "validation failed"
}

// AsValidationErrors unwraps err into a ValidationErrors map, if it is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
