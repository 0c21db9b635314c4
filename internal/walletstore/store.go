package walletstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"keyfold/go-wallet/internal/keyring"
	"keyfold/go-wallet/internal/platform/unlockthrottle"

	"gopkg.in/yaml.v3"
)

const walletFileVersion = 1

// Unlock attempts per alias: a burst of a few interactive tries, then
// roughly one attempt every three seconds.
const (
	unlockAttemptsPerSecond = 1.0 / 3
	unlockBurst             = 5
	unlockIdleTTL           = 10 * time.Minute
)

var (
	ErrAliasNotFound     = errors.New("alias not found in wallet")
	ErrAliasExists       = errors.New("alias already exists in wallet")
	ErrInvalidAlias      = errors.New("invalid alias")
	ErrUnlockThrottled   = errors.New("unlock attempts are temporarily throttled")
	ErrInvalidWalletFile = errors.New("wallet file is invalid")
)

type walletFile struct {
	Version int                               `yaml:"version"`
	Keys    map[string]*keyring.StoredKeypair `yaml:"keys"`
}

// KeyInfo describes one wallet entry without touching key material.
type KeyInfo struct {
	Alias       string
	Encrypted   bool
	Fingerprint string
}

// Store keeps stored keypairs in a yaml wallet file keyed by alias. The
// file treats each keypair as an opaque prefixed string; everything else
// in it is non-secret.
type Store struct {
	mu       sync.RWMutex
	path     string
	keys     map[string]*keyring.StoredKeypair
	logger   *slog.Logger
	throttle *unlockthrottle.Throttle
	now      func() time.Time
}

// NewStore opens the wallet file at path, creating state for a fresh
// wallet when the file does not exist yet.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("wallet path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:     path,
		keys:     make(map[string]*keyring.StoredKeypair),
		logger:   logger.With("component", "walletstore"),
		throttle: unlockthrottle.New(unlockAttemptsPerSecond, unlockBurst, unlockIdleTTL),
		now:      time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var file walletFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWalletFile, err)
	}
	if file.Version != walletFileVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidWalletFile, file.Version)
	}
	if file.Keys != nil {
		s.keys = file.Keys
	}
	return nil
}

func (s *Store) persistLocked() error {
	payload, err := yaml.Marshal(walletFile{Version: walletFileVersion, Keys: s.keys})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return err
	}
	walletWrites.Inc()
	return nil
}

// Put wraps the keypair (encrypting it when password is non-empty),
// records it under alias and persists the wallet file. The live handle is
// returned so the caller keeps a usable keypair either way.
func (s *Store) Put(alias string, handle *keyring.SharedKeypair, password string) (*keyring.SharedKeypair, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, ErrInvalidAlias
	}
	stored, handle, err := keyring.Wrap(handle, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[alias]; ok {
		return nil, ErrAliasExists
	}
	s.keys[alias] = stored
	if err := s.persistLocked(); err != nil {
		delete(s.keys, alias)
		return nil, err
	}
	s.logger.Info("stored keypair", "alias", alias, "encrypted", stored.IsEncrypted())
	return handle, nil
}

// Get unwraps the keypair stored under alias. Encrypted entries prompt
// for a password via prompt when decrypt is true; attempts are throttled
// per alias. The prompt runs outside any store lock.
func (s *Store) Get(alias string, decrypt bool, prompt keyring.PromptFunc) (*keyring.SharedKeypair, error) {
	alias = strings.TrimSpace(alias)
	s.mu.RLock()
	stored, ok := s.keys[alias]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrAliasNotFound
	}

	if stored.IsEncrypted() && decrypt {
		if !s.throttle.Allow(alias, s.now()) {
			unlockThrottled.Inc()
			s.logger.Warn("keypair unlock throttled", "alias", alias)
			return nil, ErrUnlockThrottled
		}
		unlockAttempts.Inc()
	}

	handle, err := stored.Unwrap(decrypt, prompt)
	if err != nil {
		if errors.Is(err, keyring.ErrDecryption) {
			unlockFailures.Inc()
			s.logger.Warn("keypair unlock failed", "alias", alias)
		}
		return nil, err
	}
	if stored.IsEncrypted() {
		s.throttle.Reset(alias)
	}
	return handle, nil
}

// IsEncrypted reports whether the entry under alias needs a password.
func (s *Store) IsEncrypted(alias string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.keys[strings.TrimSpace(alias)]
	if !ok {
		return false, ErrAliasNotFound
	}
	return stored.IsEncrypted(), nil
}

// Aliases returns all wallet aliases in lexical order.
func (s *Store) Aliases() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.keys))
	for alias := range s.keys {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Describe lists every wallet entry. Fingerprints are only available for
// unencrypted entries; decrypting just to describe would defeat the point.
func (s *Store) Describe() []KeyInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]KeyInfo, 0, len(s.keys))
	for alias, stored := range s.keys {
		info := KeyInfo{Alias: alias, Encrypted: stored.IsEncrypted()}
		if !info.Encrypted {
			if handle, err := stored.Unwrap(false, nil); err == nil {
				if fp, err := keyring.Fingerprint(handle.Public()); err == nil {
					info.Fingerprint = fp
				}
			}
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out
}

// Delete removes the entry under alias and persists the wallet file.
func (s *Store) Delete(alias string) error {
	alias = strings.TrimSpace(alias)
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.keys[alias]
	if !ok {
		return ErrAliasNotFound
	}
	delete(s.keys, alias)
	if err := s.persistLocked(); err != nil {
		s.keys[alias] = stored
		return err
	}
	s.logger.Info("removed keypair", "alias", alias)
	return nil
}
