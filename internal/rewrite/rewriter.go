package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dshills/tidytype/internal/config"
)

// Rewriter returns a cleaned version of code.
type Rewriter interface {
	Rewrite(ctx context.Context, code string) (string, error)
	// Name identifies the provider and model, for logs and messages.
	Name() string
}

// Func adapts a function to the Rewriter interface.
type Func func(ctx context.Context, code string) (string, error)

// Rewrite calls f.
func (f Func) Rewrite(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}

// Name implements Rewriter.
func (f Func) Name() string {
	return "func"
}

// Option configures New.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used by HTTP-based providers.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates the Rewriter configured by cfg.
func New(cfg config.ProviderConfig, opts ...Option) (Rewriter, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout()}
	}

	if cfg.APIKey == "" && cfg.Name != config.ProviderCompatible {
		return nil, fmt.Errorf("%s: %w", cfg.Name, ErrMissingAPIKey)
	}

	var rw Rewriter
	switch cfg.Name {
	case config.ProviderOpenAI:
		rw = newOpenAI(cfg, o.httpClient)
	case config.ProviderAnthropic:
		rw = newAnthropic(cfg, o.httpClient)
	case config.ProviderGemini:
		rw = newGemini(cfg)
	case config.ProviderCompatible:
		rw = newCompatible(cfg, o.httpClient)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Name)
	}
	return &logged{next: rw, logger: o.logger.With("component", "rewrite", "provider", rw.Name())}, nil
}

// logged records each request.
type logged struct {
	next   Rewriter
	logger *slog.Logger
}

func (l *logged) Name() string {
	return l.next.Name()
}

func (l *logged) Rewrite(ctx context.Context, code string) (string, error) {
	start := time.Now()
	out, err := l.next.Rewrite(ctx, code)
	if err != nil {
		l.logger.Warn("rewrite failed", "elapsed", time.Since(start), "error", err)
		return "", err
	}
	l.logger.Info("rewrite done", "elapsed", time.Since(start), "in", len(code), "out", len(out))
	return out, nil
}
