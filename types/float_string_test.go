package types

import (
	"encoding/json"
	"testing"
)

func TestFloatStringUnmarshal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{
			name:     "quoted decimal",
			input:    `"12000.5"`,
			expected: 12000.5,
		},
		{
			name:     "bare number",
			input:    `14500`,
			expected: 14500,
		},
		{
			name:     "null",
			input:    `null`,
			expected: 0,
		},
		{
			name:     "quoted integer",
			input:    `"250"`,
			expected: 250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FloatString
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Raw() != tt.expected {
				t.Fatalf("got %v, want %v", f.Raw(), tt.expected)
			}
		})
	}
}

func TestFloatStringUnmarshalError(t *testing.T) {
	t.Parallel()

	var f FloatString
	if err := json.Unmarshal([]byte(`"garbage"`), &f); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}

func TestFloatStringString(t *testing.T) {
	t.Parallel()

	f := FloatString(14500.0)
	if got := f.String(); got != "14500" {
		t.Fatalf("String() = %q, want %q", got, "14500")
	}
}
