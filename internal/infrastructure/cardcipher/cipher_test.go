package cardcipher

import (
	"strings"
	"testing"
)

func TestCipherRoundTrip(t *testing.T) {
	c, err := New("test-secret")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	code := "AMZN-1234-5678-9012"

	encrypted, err := c.Encrypt(code)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	if encrypted == code || strings.Contains(encrypted, "1234") {
		t.Fatalf("expected ciphertext to hide the card code, got %s", encrypted)
	}

	decrypted, err := c.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}

	if decrypted != code {
		t.Fatalf("expected %s, got %s", code, decrypted)
	}
}

func TestCipherUniqueNonces(t *testing.T) {
	c, err := New("test-secret")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	first, err := c.Encrypt("same-code")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	second, err := c.Encrypt("same-code")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct ciphertexts for repeated plaintext")
	}
}

func TestCipherRejectsWrongKey(t *testing.T) {
	c1, err := New("key-one")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	c2, err := New("key-two")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	encrypted, err := c1.Encrypt("secret-code")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	if _, err := c2.Decrypt(encrypted); err == nil {
		t.Fatalf("expected decryption with wrong key to fail")
	}
}

func TestCipherRejectsGarbage(t *testing.T) {
	c, err := New("test-secret")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	if _, err := c.Decrypt("not base64!!!"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}

	if _, err := c.Decrypt("c2hvcnQ="); err == nil {
		t.Fatalf("expected error for truncated ciphertext")
	}
}

func TestNewRejectsEmptyKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
