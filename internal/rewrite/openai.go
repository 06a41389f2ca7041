package rewrite

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dshills/tidytype/internal/config"
)

type openAIRewriter struct {
	client    openai.Client
	model     string
	prompt    string
	maxTokens int
}

func newOpenAI(cfg config.ProviderConfig, hc *http.Client) *openAIRewriter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(hc),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIRewriter{
		client:    openai.NewClient(opts...),
		model:     cfg.ModelOrDefault(),
		prompt:    cfg.SystemPrompt,
		maxTokens: cfg.MaxTokens,
	}
}

func (r *openAIRewriter) Name() string {
	return config.ProviderOpenAI + "/" + r.model
}

func (r *openAIRewriter) Rewrite(ctx context.Context, code string) (string, error) {
	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(r.prompt),
			openai.UserMessage(code),
		},
		MaxTokens: openai.Int(int64(r.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return completion.Choices[0].Message.Content, nil
}
