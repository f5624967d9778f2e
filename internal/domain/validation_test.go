package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("USER@example.com"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}

	if err := ValidateEmail("invalid-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if err := ValidateEmail("  padded@example.com  "); err != nil {
		t.Fatalf("expected trimmed email to pass, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	got, err := NormalizeEmail(" Alice@Example.COM ")
	if err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}
	if got != "alice@example.com" {
		t.Fatalf("expected alice@example.com, got %s", got)
	}

	if _, err := NormalizeEmail("not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("StrongPass1"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}

	if err := ValidatePassword("short1A"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for short password, got %v", err)
	}

	if err := ValidatePassword(strings.Repeat("A", MaxPasswordLength+1)); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for overly long password, got %v", err)
	}

	if err := ValidatePassword("alllowercase1"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for missing upper case, got %v", err)
	}

	if err := ValidatePassword("NoDigitsHere"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for missing digits, got %v", err)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()

	got, err := NormalizeSymbol("  btc ")
	if err != nil {
		t.Fatalf("expected valid symbol, got %v", err)
	}
	if got != "BTC" {
		t.Fatalf("expected BTC, got %s", got)
	}

	if _, err := NormalizeSymbol("b"); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol for too-short symbol, got %v", err)
	}

	if _, err := NormalizeSymbol("BTC/USD"); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol for punctuation, got %v", err)
	}
}

func TestNormalizeBrandCode(t *testing.T) {
	t.Parallel()

	got, err := NormalizeBrandCode(" AMAZON ")
	if err != nil {
		t.Fatalf("expected valid brand code, got %v", err)
	}
	if got != "amazon" {
		t.Fatalf("expected amazon, got %s", got)
	}

	if _, err := NormalizeBrandCode("a"); !errors.Is(err, ErrInvalidBrand) {
		t.Fatalf("expected ErrInvalidBrand for too-short code, got %v", err)
	}

	if _, err := NormalizeBrandCode("brand code"); !errors.Is(err, ErrInvalidBrand) {
		t.Fatalf("expected ErrInvalidBrand for embedded space, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 20, 0},
		{"capped at max", 500, 0, 100, 0},
		{"negative offset clamped", 10, -5, 10, 0},
		{"passthrough", 50, 200, 50, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePagination(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
