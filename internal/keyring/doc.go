// Package keyring protects a signing keypair at rest. A keypair can be
// wrapped for storage either raw or sealed with a password-derived key
// (argon2id + XChaCha20-Poly1305, salt embedded in the envelope), and
// every stored keypair has a stable prefixed-string encoding so it can
// live in a plain wallet file next to non-secret data. Once unwrapped,
// the keypair is held behind a shared, mutex-guarded handle.
package keyring
