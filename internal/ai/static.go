package ai

import (
	"context"
	"sync"
)

// StaticGenerator is a TextGenerator that returns canned replies and
// records every prompt it receives.
type StaticGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []Prompt
}

// NewStaticGenerator replies with responses in order, repeating the last
// one once they run out.
func NewStaticGenerator(responses ...string) *StaticGenerator {
	return &StaticGenerator{responses: responses}
}

// FailingGenerator returns err from every call.
func FailingGenerator(err error) *StaticGenerator {
	return &StaticGenerator{err: err}
}

// Generate implements TextGenerator.
func (g *StaticGenerator) Generate(_ context.Context, prompt Prompt) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", nil
	}
	reply := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return reply, nil
}

// Prompts returns the prompts received so far.
func (g *StaticGenerator) Prompts() []Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Prompt, len(g.prompts))
	copy(out, g.prompts)
	return out
}
