package normalization

import (
	"strings"
	"testing"
)

type testEnum string

const (
	testEnumAlpha testEnum = "alpha"
	testEnumBeta  testEnum = "beta"
	testEnumGamma testEnum = "gamma"
)

func newTestNormalizer() *Normalizer[testEnum] {
	return NewNormalizer("test enum", map[string]testEnum{
		"alpha": testEnumAlpha,
		"Beta":  testEnumBeta,
		"gamma": testEnumGamma,
	}, testEnumAlpha)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer()
	tests := []struct {
		name     string
		input    string
		expected testEnum
	}{
		{"exact match", "alpha", testEnumAlpha},
		{"case insensitive", "BETA", testEnumBeta},
		{"with spaces", "  gamma  ", testEnumGamma},
		{"invalid input", "invalid", testEnumAlpha},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_Parse(t *testing.T) {
	n := newTestNormalizer()

	got, err := n.Parse("")
	if err != nil || got != testEnumAlpha {
		t.Errorf("Parse(\"\") = %v, %v; want default", got, err)
	}

	got, err = n.Parse(" Gamma")
	if err != nil || got != testEnumGamma {
		t.Errorf("Parse(Gamma) = %v, %v", got, err)
	}

	_, err = n.Parse("delta")
	if err == nil {
		t.Fatal("expected error for unknown value")
	}
	if !strings.Contains(err.Error(), "alpha, beta, gamma") || !strings.Contains(err.Error(), "test enum") {
		t.Errorf("error should name the enum and list options, got %v", err)
	}
}

func TestNormalizer_ValidKeysIsACopy(t *testing.T) {
	n := newTestNormalizer()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	if n.ValidKeys()[0] != "alpha" {
		t.Error("ValidKeys must return a copy")
	}
}
