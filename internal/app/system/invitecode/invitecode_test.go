package invitecode_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/notehive/internal/app/system/invitecode"
)

func TestNew_ShapeAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := invitecode.New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if len(code) != invitecode.Length {
			t.Fatalf("length: got %d, want %d", len(code), invitecode.Length)
		}
		if !invitecode.Valid(code) {
			t.Fatalf("generated code %q fails Valid", code)
		}
		// No look-alike characters.
		if strings.ContainsAny(code, "0O1IL") {
			t.Fatalf("code %q contains ambiguous characters", code)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"DEMO22", false}, // contains O
		{"ABC234", true},
		{"abc234", false}, // lowercase not in alphabet
		{"ABCDE", false},  // too short
		{"ABCDEFG", false},
	}
	for _, tt := range tests {
		if got := invitecode.Valid(tt.code); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
