package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrPasswordTooWeak = errors.New("password does not meet requirements")
	ErrInvalidSymbol   = errors.New("invalid cryptocurrency symbol")
	ErrInvalidBrand    = errors.New("invalid gift card brand code")
)

// Validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxNameLength     = 100
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	symbolRegex = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
	brandRegex  = regexp.MustCompile(`^[a-z0-9_]{2,20}$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	_, err := NormalizeEmail(email)
	return err
}

// NormalizeEmail lowercases, trims and validates an email address.
// Users are stored and looked up in this canonical form, so
// Alice@Example.com and alice@example.com are the same user.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return "", ErrInvalidEmail
	}

	return email, nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// NormalizeSymbol uppercases and validates a cryptocurrency symbol.
func NormalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if !symbolRegex.MatchString(symbol) {
		return "", ErrInvalidSymbol
	}

	return symbol, nil
}

// NormalizeBrandCode lowercases and validates a gift card brand code.
func NormalizeBrandCode(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))

	if !brandRegex.MatchString(code) {
		return "", ErrInvalidBrand
	}

	return code, nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
