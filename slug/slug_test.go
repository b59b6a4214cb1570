package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic ascii",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with punctuation",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World   Test",
			expected: "hello-world-test",
		},
		{
			name:     "with unicode characters",
			input:    "Café München",
			expected: "cafe-munchen",
		},
		{
			name:     "with special characters",
			input:    "Hello@#$%World",
			expected: "helloworld",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "with underscores",
			input:    "Hello_World_Test",
			expected: "hello-world-test",
		},
		{
			name:     "very long string",
			input:    "This is a very long tool name that should be truncated",
			expected: "this-is-a-very-long-tool-name-that-shoul",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only special characters",
			input:    "@#$%^&*()",
			expected: "",
		},
		{
			name:     "mixed case with numbers",
			input:    "Agent 47 Writer",
			expected: "agent-47-writer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Generate(tt.input)
			if result != tt.expected {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGenerateWithFallback(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
		expected string
	}{
		{
			name:     "use primary when valid",
			primary:  "Test Tool",
			fallback: "listing",
			expected: "test-tool",
		},
		{
			name:     "use fallback when primary empty",
			primary:  "",
			fallback: "listing",
			expected: "listing",
		},
		{
			name:     "use fallback when primary only special chars",
			primary:  "@#$%",
			fallback: "listing",
			expected: "listing",
		},
		{
			name:     "both empty returns empty",
			primary:  "",
			fallback: "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateWithFallback(tt.primary, tt.fallback)
			if result != tt.expected {
				t.Errorf("GenerateWithFallback(%q, %q) = %q, want %q", tt.primary, tt.fallback, result, tt.expected)
			}
		})
	}
}

func TestNewToolID(t *testing.T) {
	id := NewToolID("Draftly AI")

	prefix := "tool-draftly-ai-"
	if !strings.HasPrefix(id, prefix) {
		t.Fatalf("NewToolID() = %q, expected %q prefix", id, prefix)
	}
	suffix := strings.TrimPrefix(id, prefix)
	if len(suffix) != suffixLength {
		t.Errorf("NewToolID() suffix = %q, expected %d characters", suffix, suffixLength)
	}
	for _, r := range suffix {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Errorf("NewToolID() suffix %q contains non-hex character %q", suffix, r)
		}
	}
}

func TestNewToolIDFallbackName(t *testing.T) {
	id := NewToolID("@#$%")
	if !strings.HasPrefix(id, "tool-listing-") {
		t.Errorf("NewToolID() = %q, expected tool-listing- prefix", id)
	}
}

func TestNewToolIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewToolID("Same Name")
		if seen[id] {
			t.Fatalf("NewToolID() produced duplicate id %q", id)
		}
		seen[id] = true
	}
}
