package service

import "context"

// TextGenerator produces a single completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
