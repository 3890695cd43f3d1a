package domain

import (
	"testing"
	"time"
)

func TestGenerateCode_Width(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != CodeDigits {
			t.Fatalf("code %q length = %d, want %d", code, len(code), CodeDigits)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
	}
}

func TestGenerateCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		seen[code] = true
	}
	// 50 draws from 10000 values collapsing to one code would mean a broken generator.
	if len(seen) < 2 {
		t.Errorf("50 draws produced %d distinct codes", len(seen))
	}
}

func TestEntry_Expired(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := &Entry{ExpiresAt: at}
	if e.Expired(at) {
		t.Error("entry should not be expired exactly at ExpiresAt")
	}
	if !e.Expired(at.Add(time.Second)) {
		t.Error("entry should be expired after ExpiresAt")
	}
	if e.Expired(at.Add(-time.Second)) {
		t.Error("entry should not be expired before ExpiresAt")
	}
}
