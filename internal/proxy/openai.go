package proxy

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGroqModel   = "llama-3.1-8b-instant"
	groqBaseURL        = "https://api.groq.com/openai/v1"

	defaultMaxTokens = 100
)

// openAISolver serves both OpenAI and any OpenAI-compatible API (Groq)
// through the same chat completions client.
type openAISolver struct {
	name   string
	client *openai.Client
	model  string
	system string
	tokens int
}

func newOpenAISolver(opts Options) (Solver, error) {
	key, err := envKey(opts.APIKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	return newChatSolver("openai", key, opts.BaseURL, opts.Model, defaultOpenAIModel, opts), nil
}

func newGroqSolver(opts Options) (Solver, error) {
	key, err := envKey(opts.APIKey, "GROQ_API_KEY")
	if err != nil {
		return nil, err
	}
	base := opts.BaseURL
	if strings.TrimSpace(base) == "" {
		base = groqBaseURL
	}
	return newChatSolver("groq", key, base, opts.Model, defaultGroqModel, opts), nil
}

func newChatSolver(name, apiKey, baseURL, model, fallbackModel string, opts Options) *openAISolver {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = fallbackModel
	}

	tokens := opts.MaxTokens
	if tokens <= 0 {
		tokens = defaultMaxTokens
	}

	return &openAISolver{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
		model:  m,
		system: opts.SystemPrompt,
		tokens: tokens,
	}
}

func (s *openAISolver) Name() string {
	return s.name
}

func (s *openAISolver) Solve(ctx context.Context, question string) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("proxy: nil openai client")
	}

	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if system := strings.TrimSpace(s.system); system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    msgs,
		MaxTokens:   s.tokens,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("proxy: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
