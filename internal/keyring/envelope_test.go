package keyring

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewSaltFreshness(t *testing.T) {
	first, err := newSalt()
	if err != nil {
		t.Fatalf("new salt failed: %v", err)
	}
	second, err := newSalt()
	if err != nil {
		t.Fatalf("new salt failed: %v", err)
	}
	if len(first) != SaltSize || len(second) != SaltSize {
		t.Fatalf("unexpected salt lengths: %d, %d", len(first), len(second))
	}
	if bytes.Equal(first, second) {
		t.Fatal("two salts are identical")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{1}, SaltSize)
	first := deriveKey("password", salt)
	second := deriveKey("password", salt)
	if !bytes.Equal(first, second) {
		t.Fatal("same password and salt derived different keys")
	}
	otherSalt := bytes.Repeat([]byte{2}, SaltSize)
	if bytes.Equal(first, deriveKey("password", otherSalt)) {
		t.Fatal("different salts derived the same key")
	}
	if bytes.Equal(first, deriveKey("Password", salt)) {
		t.Fatal("different passwords derived the same key")
	}
}

func TestSealOpenRoundtrip(t *testing.T) {
	key := deriveKey("pw", bytes.Repeat([]byte{3}, SaltSize))
	plaintext := []byte("sixty-four bytes of key material, give or take")

	sealed, err := seal(key, plaintext)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if got, want := len(sealed), len(plaintext)+AEADOverhead; got != want {
		t.Fatalf("sealed length %d, want %d", got, want)
	}

	opened, err := open(key, sealed)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatal("opened plaintext differs")
	}
}

func TestOpenWrongKey(t *testing.T) {
	salt := bytes.Repeat([]byte{3}, SaltSize)
	sealed, err := seal(deriveKey("pw", salt), []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if _, err := open(deriveKey("other", salt), sealed); !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}

func TestOpenTampered(t *testing.T) {
	key := deriveKey("pw", bytes.Repeat([]byte{3}, SaltSize))
	sealed, err := seal(key, []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xFF
	if _, err := open(key, sealed); !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}

func TestOpenShortCiphertext(t *testing.T) {
	key := deriveKey("pw", bytes.Repeat([]byte{3}, SaltSize))
	if _, err := open(key, []byte{1, 2, 3}); !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}
