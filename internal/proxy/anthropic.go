package proxy

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

type anthropicSolver struct {
	client *anthropic.Client
	model  string
	system string
	tokens int
}

func newAnthropicSolver(opts Options) (Solver, error) {
	key, err := envKey(opts.APIKey, "ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}

	sdkOpts := make([]option.RequestOption, 0, 2)
	sdkOpts = append(sdkOpts, option.WithAPIKey(key))
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(strings.TrimRight(base, "/")))
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultAnthropicModel
	}
	tokens := opts.MaxTokens
	if tokens <= 0 {
		tokens = defaultMaxTokens
	}

	client := anthropic.NewClient(sdkOpts...)
	return &anthropicSolver{
		client: &client,
		model:  model,
		system: opts.SystemPrompt,
		tokens: tokens,
	}, nil
}

func (s *anthropicSolver) Name() string {
	return "anthropic"
}

func (s *anthropicSolver) Solve(ctx context.Context, question string) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("proxy: nil anthropic client")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.tokens),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(question),
			},
		}},
		Temperature: param.NewOpt(0.0),
	}
	if system := strings.TrimSpace(s.system); system != "" {
		params.System = []anthropic.TextBlockParam{{
			Text: system,
			Type: "text",
		}}
	}

	msg, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
