package services

import "testing"

func TestSanitizeGenerated(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "What is a closure?", "What is a closure?"},
		{"ai prefix", "AI: What is a closure?", "What is a closure?"},
		{"assistant prefix", "Assistant:   What is a closure?", "What is a closure?"},
		{"case insensitive prefix", "assistant: hello", "hello"},
		{"stacked prefixes", "Assistant: AI: hello", "hello"},
		{"wrapping quotes", `"What is a closure?"`, "What is a closure?"},
		{"smart quotes", "“What is a closure?”", "What is a closure?"},
		{"wrapping backticks", "`What is a closure?`", "What is a closure?"},
		{"bold markup", "Explain **event loop** behavior", "Explain event loop behavior"},
		{"inline code", "What does `defer` do?", "What does defer do?"},
		{"quoted prefix", `"AI: What is REST?"`, "What is REST?"},
		{"whitespace runs", "What   is\n\na\tclosure?", "What is a closure?"},
		{"surrounding noise", "  *\"Nice answer.\"*  ", "Nice answer."},
		{"empty", "", ""},
		{"only noise", `  "" `, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeGenerated(tc.in)
			if got != tc.want {
				t.Errorf("sanitizeGenerated(%q) = %q, want %q", tc.in, got, tc.want)
			}

			// Sanitization must be idempotent.
			if again := sanitizeGenerated(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}
