package codegen

import (
	"strings"
	"testing"
)

func TestGenerateLength(t *testing.T) {
	for _, length := range []int{1, 4, 6, 12} {
		code, err := Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d): %v", length, err)
		}
		if len(code) != length {
			t.Errorf("Generate(%d) returned %q (len %d)", length, code, len(code))
		}
	}
}

func TestGenerateDefaultsBadLength(t *testing.T) {
	for _, length := range []int{0, -3} {
		code, err := Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d): %v", length, err)
		}
		if len(code) != DefaultLength {
			t.Errorf("Generate(%d) = %q, want default length %d", length, code, DefaultLength)
		}
	}
}

func TestGenerateAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate(8)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		for _, r := range code {
			if !strings.ContainsRune(Alphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestAlphabetHasNoAmbiguousCharacters(t *testing.T) {
	for _, r := range "ILO01" {
		if strings.ContainsRune(Alphabet, r) {
			t.Errorf("alphabet contains ambiguous character %q", r)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := Generate(8)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		seen[code] = true
	}
	// 50 draws from 31^8 values colliding down to a handful would mean the
	// randomness source is broken.
	if len(seen) < 45 {
		t.Errorf("only %d distinct codes out of 50", len(seen))
	}
}
