package util

import "testing"

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "hello",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "exact length unchanged",
			input:    "hello",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "long string truncated",
			input:    "hello world",
			maxLen:   8,
			expected: "hello...",
		},
		{
			name:     "very small maxLen returns ellipsis",
			input:    "hello",
			maxLen:   3,
			expected: "...",
		},
		{
			name:     "maxLen of 2 returns ellipsis",
			input:    "hello",
			maxLen:   2,
			expected: "...",
		},
		{
			name:     "maxLen of 1 returns ellipsis",
			input:    "hello",
			maxLen:   1,
			expected: "...",
		},
		{
			name:     "maxLen of 0 returns ellipsis",
			input:    "hello",
			maxLen:   0,
			expected: "...",
		},
		{
			name:     "negative maxLen returns ellipsis",
			input:    "hello",
			maxLen:   -5,
			expected: "...",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "maxLen of 4 shows one char plus ellipsis",
			input:    "hello",
			maxLen:   4,
			expected: "h...",
		},
		{
			name:     "unicode characters counted correctly",
			input:    "日本語テスト",
			maxLen:   5,
			expected: "日本...",
		},
		{
			name:     "unicode exact length unchanged",
			input:    "日本語",
			maxLen:   3,
			expected: "...",
		},
		{
			name:     "unicode short string unchanged",
			input:    "日本語",
			maxLen:   10,
			expected: "日本語",
		},
		{
			name:     "mixed ascii and unicode",
			input:    "hello日本語world",
			maxLen:   10,
			expected: "hello日本...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxLen)
			if got != tt.expected {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}
