package llm

import "context"

// GenerateConfig carries the per-call generation parameters.
type GenerateConfig struct {
	Temperature     float32
	MaxOutputTokens int32
}

// Client abstracts the LLM provider behind a single text-in/text-out call.
type Client interface {
	Generate(ctx context.Context, prompt string, cfg GenerateConfig) (string, error)
}
