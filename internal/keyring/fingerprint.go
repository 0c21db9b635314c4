package keyring

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

const fingerprintPrefix = "key1"

// Fingerprint derives a short, shareable identifier for a signing public
// key. It never reveals the key itself and is safe to log or display.
func Fingerprint(signingPublicKey ed25519.PublicKey) (string, error) {
	if len(signingPublicKey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("invalid signing public key size: %d", len(signingPublicKey))
	}
	h := blake2b.Sum256(signingPublicKey)
	return fingerprintPrefix + base58.Encode(h[:]), nil
}

// VerifyFingerprint reports whether fingerprint belongs to the given
// public key.
func VerifyFingerprint(fingerprint string, signingPublicKey ed25519.PublicKey) (bool, error) {
	expected, err := Fingerprint(signingPublicKey)
	if err != nil {
		return false, err
	}
	return fingerprint == expected, nil
}
