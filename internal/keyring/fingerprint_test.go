package keyring

import (
	"strings"
	"testing"
)

func TestFingerprint(t *testing.T) {
	handle := testHandle(t, 6)
	fp, err := Fingerprint(handle.Public())
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	if !strings.HasPrefix(fp, "key1") {
		t.Fatalf("fingerprint %q lacks prefix", fp)
	}

	again, err := Fingerprint(handle.Public())
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	if fp != again {
		t.Fatal("fingerprint is not deterministic")
	}

	other, err := Fingerprint(testHandle(t, 9).Public())
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	if fp == other {
		t.Fatal("different keys share a fingerprint")
	}
}

func TestFingerprintRejectsBadKey(t *testing.T) {
	if _, err := Fingerprint(nil); err == nil {
		t.Fatal("expected error for nil public key")
	}
	if _, err := Fingerprint(make([]byte, 16)); err == nil {
		t.Fatal("expected error for short public key")
	}
}

func TestVerifyFingerprint(t *testing.T) {
	handle := testHandle(t, 6)
	fp, err := Fingerprint(handle.Public())
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	ok, err := VerifyFingerprint(fp, handle.Public())
	if err != nil || !ok {
		t.Fatalf("expected fingerprint to verify, ok=%v err=%v", ok, err)
	}
	ok, err = VerifyFingerprint(fp, testHandle(t, 9).Public())
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("fingerprint verified against the wrong key")
	}
}
