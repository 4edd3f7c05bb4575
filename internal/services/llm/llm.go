// Package llm provides the text generators used for rationales and chat replies.
package llm

import (
	"context"
	"fmt"
	"strings"

	drepo "BankBrain/internal/domain/repository"
)

const mockPrefix = "[MOCK_RESPONSE] "

// mockPromptLimit is the number of prompt characters the mock echoes back.
const mockPromptLimit = 400

// Mock echoes the head of the prompt. It is the default generator.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (Mock) Generate(_ context.Context, prompt string) (string, error) {
	r := []rune(prompt)
	if len(r) > mockPromptLimit {
		r = r[:mockPromptLimit]
	}
	return mockPrefix + strings.ReplaceAll(string(r), "\n", " "), nil
}

// Complete calls g and turns a failure into bracketed text so callers can
// always show something.
func Complete(ctx context.Context, g drepo.Generator, prompt string) string {
	text, err := g.Generate(ctx, prompt)
	if err != nil {
		return fmt.Sprintf("[model error: %v]", err)
	}
	return text
}

var _ drepo.Generator = Mock{}
