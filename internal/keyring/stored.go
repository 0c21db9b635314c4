package keyring

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prefixes of the textual stored-keypair encoding. Neither is a prefix of
// the other, so matching order never changes the result.
const (
	unencryptedPrefix = "unencrypted:"
	encryptedPrefix   = "encrypted:"
)

var (
	ErrMissingPrefix        = errors.New("the stored keypair is missing a prefix")
	ErrInvalidStoredKeypair = errors.New("the stored keypair is not valid")
	ErrBadSalt              = errors.New("unexpected encryption salt")
	ErrDeserializing        = errors.New("unable to deserialize the keypair")
	ErrNotDecrypting        = errors.New("asked not to decrypt")
)

// PromptFunc supplies a password when an encrypted stored keypair is
// unwrapped. It is called at most once per Unwrap and never under a lock.
type PromptFunc func(message string) (string, error)

// StoredKeypair is a keypair prepared for persistence: either a raw handle
// or a password-encrypted envelope laid out as salt||ciphertext. Exactly
// one of the two is set. Values are replaced, never mutated. The zero
// value holds no keypair and is not usable; values come from Wrap, Decode
// or yaml unmarshaling.
type StoredKeypair struct {
	raw       *SharedKeypair
	encrypted []byte
}

// Wrap prepares a keypair for storage. With an empty password the keypair
// is stored raw and shares storage with the given handle; otherwise its
// canonical bytes are sealed under a key derived from the password and a
// fresh salt. The live handle is returned alongside in both cases.
func Wrap(handle *SharedKeypair, password string) (*StoredKeypair, *SharedKeypair, error) {
	if handle == nil {
		return nil, nil, errors.New("nil keypair handle")
	}
	if password == "" {
		return &StoredKeypair{raw: handle.Clone()}, handle, nil
	}
	salt, err := newSalt()
	if err != nil {
		return nil, nil, err
	}
	key := deriveKey(password, salt)
	defer zeroBytes(key)

	data := handle.ToBytes()
	defer zeroBytes(data[:])
	sealed, err := seal(key, data[:])
	if err != nil {
		return nil, nil, err
	}
	return &StoredKeypair{encrypted: append(salt, sealed...)}, handle, nil
}

// Unwrap recovers a live keypair handle. A raw stored keypair always
// succeeds and shares storage with the original handle. An encrypted one
// fails with ErrNotDecrypting unless decrypt is true and a prompt is
// available; otherwise the prompt supplies the password and the envelope
// is opened.
func (s *StoredKeypair) Unwrap(decrypt bool, prompt PromptFunc) (*SharedKeypair, error) {
	if s.raw != nil {
		return s.raw.Clone(), nil
	}
	if !decrypt || prompt == nil {
		return nil, ErrNotDecrypting
	}
	password, err := prompt("Enter decryption password: ")
	if err != nil {
		return nil, err
	}
	return s.decrypt(password)
}

func (s *StoredKeypair) decrypt(password string) (*SharedKeypair, error) {
	if len(s.encrypted) < SaltSize {
		return nil, ErrBadSalt
	}
	salt, ciphertext := s.encrypted[:SaltSize], s.encrypted[SaltSize:]

	key := deriveKey(password, salt)
	defer zeroBytes(key)

	plaintext, err := open(key, ciphertext)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(plaintext)

	priv, err := KeypairFromBytes(plaintext)
	if err != nil {
		return nil, ErrDeserializing
	}
	return NewSharedKeypair(priv)
}

// IsEncrypted reports whether unwrapping will need a password.
func (s *StoredKeypair) IsEncrypted() bool {
	return s.encrypted != nil
}

// Encode renders the stored keypair as a prefixed lowercase-hex string,
// the form persisted in wallet files.
func (s *StoredKeypair) Encode() string {
	if s.encrypted != nil {
		return encryptedPrefix + hex.EncodeToString(s.encrypted)
	}
	data := s.raw.ToBytes()
	defer zeroBytes(data[:])
	return unencryptedPrefix + hex.EncodeToString(data[:])
}

// Decode parses a prefixed stored-keypair string. Hex digits are accepted
// in either case.
func Decode(value string) (*StoredKeypair, error) {
	if rest, ok := strings.CutPrefix(value, unencryptedPrefix); ok {
		raw, err := hex.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStoredKeypair, err)
		}
		priv, err := KeypairFromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStoredKeypair, err)
		}
		handle, err := NewSharedKeypair(priv)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStoredKeypair, err)
		}
		return &StoredKeypair{raw: handle}, nil
	}
	if rest, ok := strings.CutPrefix(value, encryptedPrefix); ok {
		blob, err := hex.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStoredKeypair, err)
		}
		return &StoredKeypair{encrypted: blob}, nil
	}
	return nil, ErrMissingPrefix
}

// MarshalYAML stores the keypair as its prefixed string form; wallet files
// have no native notion of the raw/encrypted variants.
func (s *StoredKeypair) MarshalYAML() (any, error) {
	if s.raw == nil && s.encrypted == nil {
		return nil, errors.New("empty stored keypair")
	}
	return s.Encode(), nil
}

func (s *StoredKeypair) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStoredKeypair, err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}
