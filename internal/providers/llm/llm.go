package llm

import "context"

// Request is one generation call. JSONOutput asks the model for its
// constrained structured-output mode; the returned text is then expected
// to be a single JSON object.
type Request struct {
	Prompt     string
	MaxTokens  int32
	JSONOutput bool
}

type Provider interface {
	// Generate returns the full generated text for the prompt. An empty
	// completion is reported as an error, never as ("", nil).
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}
