package model

import "testing"

func TestNormalizeClaim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "The Earth Is FLAT",
			expected: "the earth is flat",
		},
		{
			name:     "strips punctuation",
			input:    "Vaccines, microchips... really?!",
			expected: "vaccines microchips really",
		},
		{
			name:     "collapses whitespace",
			input:    "  too   many\t\tspaces\n here  ",
			expected: "too many spaces here",
		},
		{
			name:     "keeps digits",
			input:    "5G towers cause COVID-19",
			expected: "5g towers cause covid 19",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "?!...",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeClaim(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeClaim(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeClaim_Idempotent(t *testing.T) {
	inputs := []string{
		"The Earth is flat!",
		"  Multiple   spaces  ",
		"already normalized text",
		"COVID-19 vaccines contain 5G microchips",
	}

	for _, input := range inputs {
		once := NormalizeClaim(input)
		twice := NormalizeClaim(once)
		if once != twice {
			t.Errorf("NormalizeClaim not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNewClaim(t *testing.T) {
	claim := NewClaim("  The Moon landing was faked.  ")

	if claim.Text != "The Moon landing was faked." {
		t.Errorf("Expected trimmed original text, got %q", claim.Text)
	}
	if claim.Normalized != "the moon landing was faked" {
		t.Errorf("Expected normalized form, got %q", claim.Normalized)
	}
}

func TestClaimsNormalizingIdentically(t *testing.T) {
	a := NewClaim("The Earth is FLAT!")
	b := NewClaim("the earth is flat")

	if a.Normalized != b.Normalized {
		t.Errorf("Expected identical normalized forms, got %q and %q", a.Normalized, b.Normalized)
	}
}
