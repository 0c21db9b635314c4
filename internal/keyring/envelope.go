package keyring

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// SaltSize is pinned explicitly rather than taken from the KDF so the
	// envelope layout stays stable across versions.
	SaltSize = 32

	// AEADOverhead is the fixed size added to a plaintext by seal: the
	// nonce travels at the front of the ciphertext region, the Poly1305
	// tag at the end.
	AEADOverhead = chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead

	kdfIterations = 3
	kdfMemoryKiB  = 64 * 1024
	kdfThreads    = 1
)

// ErrDecryption covers both a wrong password and corrupted ciphertext.
// The two are deliberately indistinguishable.
var ErrDecryption = errors.New("unable to decrypt the keypair")

func newSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("salt generation: %w", err)
	}
	return salt, nil
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, kdfIterations, kdfMemoryKiB, kdfThreads, chacha20poly1305.KeySize)
}

func seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce generation: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func open(key, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < AEADOverhead {
		return nil, ErrDecryption
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := ciphertext[:chacha20poly1305.NonceSizeX]
	plaintext, err := aead.Open(nil, nonce, ciphertext[chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return nil, ErrDecryption
	}
	return plaintext, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
