package keyring

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
)

// KeypairSize is the canonical serialized form of a signing keypair:
// seed (32) followed by the public key (32).
const KeypairSize = ed25519.PrivateKeySize

var ErrInvalidKeypairBytes = errors.New("invalid keypair bytes")

// KeypairFromBytes reconstructs a signing keypair from its canonical
// 64-byte serialization. The public half must match the seed; a forged
// public half would yield signatures that never verify.
func KeypairFromBytes(raw []byte) (ed25519.PrivateKey, error) {
	if len(raw) != KeypairSize {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidKeypairBytes, len(raw))
	}
	priv := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(priv[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidKeypairBytes)
	}
	return priv, nil
}

// SharedKeypair is a shareable handle to one in-memory signing keypair.
// Clones share the same underlying storage; all access goes through a
// mutex so readers always observe a fully committed keypair.
type SharedKeypair struct {
	state *keypairState
}

type keypairState struct {
	mu   sync.Mutex
	priv ed25519.PrivateKey
}

// NewSharedKeypair wraps a keypair in a fresh shared handle. The private
// key is copied, so the caller's slice can be discarded or zeroized.
func NewSharedKeypair(priv ed25519.PrivateKey) (*SharedKeypair, error) {
	if len(priv) != KeypairSize {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidKeypairBytes, len(priv))
	}
	return &SharedKeypair{
		state: &keypairState{priv: append(ed25519.PrivateKey(nil), priv...)},
	}, nil
}

// Clone returns a new handle sharing the same underlying storage. No key
// material is duplicated.
func (k *SharedKeypair) Clone() *SharedKeypair {
	return &SharedKeypair{state: k.state}
}

// Public returns a copy of the public half.
func (k *SharedKeypair) Public() ed25519.PublicKey {
	k.state.mu.Lock()
	defer k.state.mu.Unlock()
	pub := k.state.priv.Public().(ed25519.PublicKey)
	return append(ed25519.PublicKey(nil), pub...)
}

// ToBytes returns the canonical binary form as an atomic snapshot.
func (k *SharedKeypair) ToBytes() [KeypairSize]byte {
	k.state.mu.Lock()
	defer k.state.mu.Unlock()
	var out [KeypairSize]byte
	copy(out[:], k.state.priv)
	return out
}

// WithLock runs fn with exclusive access to the keypair. The slice passed
// to fn is only valid for the duration of the call.
func (k *SharedKeypair) WithLock(fn func(priv ed25519.PrivateKey) error) error {
	k.state.mu.Lock()
	defer k.state.mu.Unlock()
	return fn(k.state.priv)
}

// Replace swaps the keypair contents. Every clone of this handle observes
// the new keypair.
func (k *SharedKeypair) Replace(priv ed25519.PrivateKey) error {
	if len(priv) != KeypairSize {
		return fmt.Errorf("%w: length %d", ErrInvalidKeypairBytes, len(priv))
	}
	k.state.mu.Lock()
	defer k.state.mu.Unlock()
	k.state.priv = append(ed25519.PrivateKey(nil), priv...)
	return nil
}

// Sign signs message with the held private key.
func (k *SharedKeypair) Sign(message []byte) []byte {
	k.state.mu.Lock()
	defer k.state.mu.Unlock()
	return ed25519.Sign(k.state.priv, message)
}
