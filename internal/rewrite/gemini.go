package rewrite

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dshills/tidytype/internal/config"
)

type geminiRewriter struct {
	apiKey    string
	endpoint  string
	model     string
	prompt    string
	maxTokens int
}

func newGemini(cfg config.ProviderConfig) *geminiRewriter {
	return &geminiRewriter{
		apiKey:    cfg.APIKey,
		endpoint:  cfg.BaseURL,
		model:     cfg.ModelOrDefault(),
		prompt:    cfg.SystemPrompt,
		maxTokens: cfg.MaxTokens,
	}
}

func (r *geminiRewriter) Name() string {
	return config.ProviderGemini + "/" + r.model
}

func (r *geminiRewriter) Rewrite(ctx context.Context, code string) (string, error) {
	opts := []option.ClientOption{option.WithAPIKey(r.apiKey)}
	if r.endpoint != "" {
		opts = append(opts, option.WithEndpoint(r.endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(r.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(r.prompt))
	model.SetMaxOutputTokens(int32(min(r.maxTokens, math.MaxInt32)))

	resp, err := model.GenerateContent(ctx, genai.Text(code))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return sb.String(), nil
}
