package rewrite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/tidytype/internal/config"
)

// compatibleRewriter talks to an OpenAI-compatible chat completions
// endpoint over plain HTTP.
type compatibleRewriter struct {
	client    *http.Client
	url       string
	apiKey    string
	model     string
	prompt    string
	maxTokens int
}

func newCompatible(cfg config.ProviderConfig, hc *http.Client) *compatibleRewriter {
	return &compatibleRewriter{
		client:    hc,
		url:       strings.TrimSuffix(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:    cfg.APIKey,
		model:     cfg.ModelOrDefault(),
		prompt:    cfg.SystemPrompt,
		maxTokens: cfg.MaxTokens,
	}
}

func (r *compatibleRewriter) Name() string {
	return config.ProviderCompatible + "/" + r.model
}

func (r *compatibleRewriter) body(code string) ([]byte, error) {
	body := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err == nil {
			body, err = sjson.SetBytes(body, path, value)
		}
	}
	set("model", r.model)
	set("messages.0.role", "system")
	set("messages.0.content", r.prompt)
	set("messages.1.role", "user")
	set("messages.1.content", code)
	set("max_tokens", r.maxTokens)
	return body, err
}

func (r *compatibleRewriter) Rewrite(ctx context.Context, code string) (string, error) {
	body, err := r.body(code)
	if err != nil {
		return "", fmt.Errorf("compatible: building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("compatible: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("compatible: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("compatible: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("compatible: %w", &APIError{
			StatusCode: resp.StatusCode,
			Message:    gjson.GetBytes(data, "error.message").String(),
		})
	}

	content := gjson.GetBytes(data, "choices.0.message.content").String()
	if content == "" {
		return "", fmt.Errorf("compatible: %w", ErrEmptyResponse)
	}
	return content, nil
}
