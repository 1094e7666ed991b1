// Package proxy exposes hosted LLM APIs behind the /solve contract so
// they can be benchmarked like any other HTTP system under test.
package proxy

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

const defaultSystemPrompt = "You are a helpful assistant. Reply with ONLY the answer, no explanation."

// Solver answers a single free-form question.
type Solver interface {
	Name() string
	Solve(ctx context.Context, question string) (string, error)
}

// Options configures a provider-backed solver.
type Options struct {
	// APIKey overrides the provider's environment variable.
	APIKey string
	// BaseURL overrides the provider's API endpoint.
	BaseURL string
	// Model overrides the provider's default model.
	Model string
	// SystemPrompt is sent as the system message on every call.
	SystemPrompt string
	// MaxTokens caps the completion length. Zero means the provider default.
	MaxTokens int
}

type solverFactory func(Options) (Solver, error)

var providers = map[string]solverFactory{
	"openai":    newOpenAISolver,
	"groq":      newGroqSolver,
	"anthropic": newAnthropicSolver,
}

// NewSolver constructs a solver for the named provider.
func NewSolver(provider string, opts Options) (Solver, error) {
	key := strings.ToLower(strings.TrimSpace(provider))
	factory, ok := providers[key]
	if !ok {
		return nil, fmt.Errorf("proxy: unknown provider %q (known: %s)", provider, strings.Join(Providers(), ", "))
	}
	if strings.TrimSpace(opts.SystemPrompt) == "" {
		opts.SystemPrompt = defaultSystemPrompt
	}
	return factory(opts)
}

// Providers lists the supported provider names, sorted.
func Providers() []string {
	out := make([]string, 0, len(providers))
	for name := range providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadSystemPrompt reads a system prompt file. An empty path or a
// missing file falls back to the default prompt.
func LoadSystemPrompt(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return defaultSystemPrompt, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSystemPrompt, nil
		}
		return "", fmt.Errorf("proxy: read system prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(raw))
	if prompt == "" {
		return defaultSystemPrompt, nil
	}
	return prompt, nil
}

func envKey(explicit, envVar string) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("proxy: %s not set", envVar)
}
