package privacylog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSanitizeAttrRedactsSecrets(t *testing.T) {
	for _, key := range []string{"password", "wallet_passphrase", "storage_secret", "keypair_hex", "seed", "private_key"} {
		attr := SanitizeAttr(slog.String(key, "hunter2"))
		if attr.Value.String() != redactedValue {
			t.Fatalf("key %q: value %q was not redacted", key, attr.Value.String())
		}
	}
}

func TestSanitizeAttrFingerprintsAliases(t *testing.T) {
	attr := SanitizeAttr(slog.String("alias", "default"))
	if attr.Key != "alias_fp" {
		t.Fatalf("unexpected key %q", attr.Key)
	}
	value := attr.Value.String()
	if !strings.HasPrefix(value, "fp_") || strings.Contains(value, "default") {
		t.Fatalf("alias was not fingerprinted: %q", value)
	}
	if again := SanitizeAttr(slog.String("alias", "default")); again.Value.String() != value {
		t.Fatal("fingerprint is not stable within one process")
	}
}

func TestSanitizeAttrLeavesPlainAttrsAlone(t *testing.T) {
	attr := SanitizeAttr(slog.Bool("encrypted", true))
	if attr.Key != "encrypted" || !attr.Value.Bool() {
		t.Fatalf("plain attr was rewritten: %v", attr)
	}
}

func TestHandlerScrubsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("unlocking keypair", "alias", "default", "password", "hunter2", "encrypted", true)

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Fatalf("password leaked into log output: %s", out)
	}
	if strings.Contains(out, "alias=default") {
		t.Fatalf("alias leaked into log output: %s", out)
	}
	if !strings.Contains(out, "alias_fp=fp_") {
		t.Fatalf("alias fingerprint missing from log output: %s", out)
	}
	if !strings.Contains(out, "encrypted=true") {
		t.Fatalf("plain attr missing from log output: %s", out)
	}
}

func TestFingerprintValueEmpty(t *testing.T) {
	if FingerprintValue("   ") != "" {
		t.Fatal("blank value should produce an empty fingerprint")
	}
}
