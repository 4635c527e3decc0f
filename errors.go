package users

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrAccountNotFound is the error we return for accounts we cannot find
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode("ACCOUNT_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrDuplicateEmail is returned when a registration reuses an email.
// It surfaces as a 400 on the registration endpoint, same as any other
// rejected field.
var ErrDuplicateEmail = errors.New("an account with this email already exists", errors.CategoryConflict).
	WithTextCode("DUPLICATE_EMAIL").
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials covers both unknown email and wrong password so
// callers cannot enumerate accounts
var ErrInvalidCredentials = errors.New("unable to log in with provided credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrAccountDisabled is returned when credentials verify but the account
// is inactive
var ErrAccountDisabled = errors.New("user account is disabled", errors.CategoryAuth).
	WithTextCode("ACCOUNT_DISABLED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is the rejection for expired access or refresh tokens
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers signature mismatches and undecodable payloads
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned when a protected route has no usable token
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode("UNAUTHENTICATED").
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when the authenticated identity does not own
// the requested account
var ErrForbidden = errors.New("insufficient permissions for this account", errors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)

// ErrMismatchedHashAndPassword is the hasher's verification failure
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty plaintext passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// ValidationError builds a field-named validation rejection
func ValidationError(field, message string) *errors.Error {
	return errors.New(message, errors.CategoryValidation).
		WithTextCode("VALIDATION_FAILED").
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field})
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) || strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUniqueViolation detects unique constraint failures across the dialects
// we migrate for
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
