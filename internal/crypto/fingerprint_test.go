package crypto

import (
	"strings"
	"testing"
)

func TestFingerprint(t *testing.T) {
	got := Fingerprint("password")
	want := "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"
	if got != want {
		t.Errorf("Fingerprint() = %q, want %q", got, want)
	}
	if len(Fingerprint("")) != 64 {
		t.Errorf("Fingerprint(\"\") length = %d, want 64", len(Fingerprint("")))
	}
}

func TestAuditKey(t *testing.T) {
	fp := Fingerprint("correct-horse-battery-staple")
	params := KeyParams{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32}

	key, err := AuditKey(fp, "pepper", params)
	if err != nil {
		t.Fatalf("AuditKey() unexpected error: %v", err)
	}

	parts := strings.Split(key, "$")
	if len(parts) != 5 {
		t.Fatalf("AuditKey() expected 5 parts, got %d: %q", len(parts), key)
	}
	if parts[1] != "argon2id" {
		t.Errorf("AuditKey() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[3] != "m=1024,t=1,p=1" {
		t.Errorf("AuditKey() params = %q, want %q", parts[3], "m=1024,t=1,p=1")
	}
	if strings.Contains(key, fp) {
		t.Error("AuditKey() must not embed the fingerprint")
	}

	again, err := AuditKey(fp, "pepper", params)
	if err != nil {
		t.Fatalf("AuditKey() unexpected error: %v", err)
	}
	if again != key {
		t.Error("AuditKey() is not deterministic for the same pepper")
	}

	other, err := AuditKey(fp, "other-pepper", params)
	if err != nil {
		t.Fatalf("AuditKey() unexpected error: %v", err)
	}
	if other == key {
		t.Error("AuditKey() should depend on the pepper")
	}
}

func TestAuditKeyEmptyPepper(t *testing.T) {
	if _, err := AuditKey(Fingerprint("x"), "", DefaultKeyParams()); err != ErrEmptyPepper {
		t.Errorf("AuditKey() error = %v, want %v", err, ErrEmptyPepper)
	}
}
