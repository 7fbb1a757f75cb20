package bootstrap

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewSlotDerivesPaths(t *testing.T) {
	root := t.TempDir()
	slot, err := NewSlot(root, "dns.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.FinalPath != filepath.Join(root, "dns.json") {
		t.Fatalf("unexpected final path %s", slot.FinalPath)
	}
	if slot.TempPath != filepath.Join(root, "dns.json.tmp") {
		t.Fatalf("unexpected temp path %s", slot.TempPath)
	}
}

func TestValidateSlotName(t *testing.T) {
	testCases := []struct {
		name      string
		shouldErr bool
	}{
		{"dns.json", false},
		{"object-tags.json", false},
		{"tmp.json", false},
		{"", true},
		{"   ", true},
		{".", true},
		{"..", true},
		{"a/b.json", true},
		{`a\b.json`, true},
		{"dns.json.tmp", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSlotName(tc.name)
			if tc.shouldErr && !errors.Is(err, ErrInvalidSlot) {
				t.Fatalf("expected ErrInvalidSlot for %q, got %v", tc.name, err)
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.name, err)
			}
		})
	}
}

func TestErrorMatchesKindSentinel(t *testing.T) {
	err := &Error{Kind: KindParse, Op: "parse", Path: "/tmp/dns.json", Err: errors.New("unexpected EOF")}
	if !errors.Is(err, ErrParse) {
		t.Fatalf("parse error should match ErrParse")
	}
	if errors.Is(err, ErrNetwork) {
		t.Fatalf("parse error should not match ErrNetwork")
	}
	if got := err.Error(); got != "parse error: parse /tmp/dns.json: unexpected EOF" {
		t.Fatalf("unexpected message %q", got)
	}
}
