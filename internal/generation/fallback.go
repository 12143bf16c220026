package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
)

// ModelClient sends a prompt to a single named text model.
type ModelClient interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// TextGenerator produces raw model text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}

// Result is the outcome of a successful generation.
type Result struct {
	Text     string
	Model    string
	Attempts []Attempt
}

// AttemptHook observes every model attempt, successful or not.
type AttemptHook func(a Attempt)

// FallbackGenerator tries models in order and returns the first answer.
type FallbackGenerator struct {
	client  ModelClient
	models  []string
	timeout time.Duration
	hook    AttemptHook
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a FallbackGenerator.
type Option func(*FallbackGenerator)

// WithAttemptTimeout bounds each model attempt. Zero means no bound.
func WithAttemptTimeout(d time.Duration) Option {
	return func(g *FallbackGenerator) { g.timeout = d }
}

// WithAttemptHook registers an observer for model attempts.
func WithAttemptHook(hook AttemptHook) Option {
	return func(g *FallbackGenerator) { g.hook = hook }
}

// NewFallbackGenerator validates its inputs and returns a generator over models.
func NewFallbackGenerator(
	client ModelClient,
	models []string,
	log *slog.Logger,
	opts ...Option,
) (*FallbackGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: model client cannot be nil", ErrInvalidConfig)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: at least one model is required", ErrInvalidConfig)
	}
	for _, m := range models {
		if m == "" {
			return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
		}
	}
	if log == nil {
		log = slog.Default()
	}

	g := &FallbackGenerator{
		client: client,
		models: append([]string(nil), models...),
		logger: log.With(slog.String("component", "fallback_generator")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Models returns the configured fallback order.
func (g *FallbackGenerator) Models() []string {
	return append([]string(nil), g.models...)
}

// Generate tries each model in order. It stops at the first non-empty reply.
// When every model fails it returns an *AllModelsFailedError. A cancelled
// ctx ends the run before the next model is tried.
func (g *FallbackGenerator) Generate(ctx context.Context, prompt string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	attempts := make([]Attempt, 0, len(g.models))

	for _, model := range g.models {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Model: model, Err: err})
			break
		}

		log.InfoContext(ctx, "attempting text generation", slog.String("model", model))

		start := g.now()
		text, err := g.callModel(ctx, model, prompt)
		attempt := Attempt{Model: model, Err: err, Duration: g.now().Sub(start)}
		attempts = append(attempts, attempt)
		if g.hook != nil {
			g.hook(attempt)
		}

		if err != nil {
			log.WarnContext(ctx, "model failed, trying next",
				slog.String("model", model),
				slog.String("error", err.Error()),
				slog.Duration("duration", attempt.Duration))
			continue
		}

		log.InfoContext(ctx, "text generation succeeded",
			slog.String("model", model),
			slog.Int("attempts", len(attempts)))
		return &Result{Text: text, Model: model, Attempts: attempts}, nil
	}

	return nil, &AllModelsFailedError{Attempts: attempts}
}

func (g *FallbackGenerator) callModel(ctx context.Context, model, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.GenerateText(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// IsAuthFailure reports whether err came from rejected provider credentials.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrProviderAuth)
}
