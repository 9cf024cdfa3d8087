package domain

import "errors"

// Input errors. ErrValidation is usually wrapped with the offending field.
var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidReference = errors.New("referenced resource does not exist")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateName    = errors.New("name already in use")
	ErrInUse            = errors.New("resource is still referenced")
	ErrCategoryMismatch = errors.New("subcategory does not belong to category")
)

// Authentication errors.
var (
	ErrMissingToken          = errors.New("token not provided")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrWrongPassword         = errors.New("wrong password")
	ErrTooManyAttempts       = errors.New("too many login attempts")
)

var ErrForbidden = errors.New("access denied, admin only")

// Lookup errors.
var (
	ErrUnknownEmail        = errors.New("email not registered")
	ErrPrincipalNotFound   = errors.New("principal not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
)

// IsTokenError reports whether err came from token verification.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignatureInvalid) ||
		errors.Is(err, ErrTokenExpired)
}
