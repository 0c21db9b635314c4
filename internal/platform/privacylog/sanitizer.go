package privacylog

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

const redactedValue = "[REDACTED]"

var (
	bootNonce = randomNonce()

	// Values for these keys never reach the log in plain form.
	sensitiveKeyParts = []string{"password", "passphrase", "secret", "keypair", "seed", "private"}

	// Aliases identify keys; they are fingerprinted rather than logged verbatim.
	fingerprintedKeys = map[string]struct{}{
		"alias":      {},
		"key_alias":  {},
		"public_key": {},
	}
)

// SanitizingHandler rewrites wallet log records so key material, passwords
// and aliases never land in plain text.
type SanitizingHandler struct {
	next slog.Handler
}

func WrapHandler(next slog.Handler) slog.Handler {
	if next == nil {
		return nil
	}
	return &SanitizingHandler{next: next}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(SanitizeAttr(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, SanitizeAttr(attr))
	}
	return &SanitizingHandler{next: h.next.WithAttrs(out)}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name)}
}

func SanitizeAttr(attr slog.Attr) slog.Attr {
	key := strings.TrimSpace(attr.Key)
	lowerKey := strings.ToLower(key)
	if isSensitiveKey(lowerKey) {
		return slog.String(key, redactedValue)
	}
	if _, ok := fingerprintedKeys[lowerKey]; ok {
		return slog.String(fingerprintKeyName(key), FingerprintValue(valueToString(attr.Value)))
	}
	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		out := make([]any, 0, len(group))
		for _, member := range group {
			out = append(out, SanitizeAttr(member))
		}
		return slog.Group(key, out...)
	}
	return attr
}

// FingerprintValue produces a stable-within-one-process, non-reversible
// token for an identifying value. The boot nonce keeps tokens from being
// correlated across restarts.
func FingerprintValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed + "|" + bootNonce))
	return "fp_" + hex.EncodeToString(sum[:8])
}

func fingerprintKeyName(key string) string {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(key)), "_fp") {
		return key
	}
	return key + "_fp"
}

func isSensitiveKey(key string) bool {
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func valueToString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	default:
		return fmt.Sprint(v.Any())
	}
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "fallback_nonce"
	}
	return hex.EncodeToString(buf)
}
