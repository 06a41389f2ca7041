package rewrite

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dshills/tidytype/internal/config"
)

type anthropicRewriter struct {
	client    anthropic.Client
	model     string
	prompt    string
	maxTokens int
}

func newAnthropic(cfg config.ProviderConfig, hc *http.Client) *anthropicRewriter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(hc),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicRewriter{
		client:    anthropic.NewClient(opts...),
		model:     cfg.ModelOrDefault(),
		prompt:    cfg.SystemPrompt,
		maxTokens: cfg.MaxTokens,
	}
}

func (r *anthropicRewriter) Name() string {
	return config.ProviderAnthropic + "/" + r.model
}

func (r *anthropicRewriter) Rewrite(ctx context.Context, code string) (string, error) {
	msg, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: int64(r.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: r.prompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(code)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return sb.String(), nil
}
