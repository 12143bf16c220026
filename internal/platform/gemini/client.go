package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/generation"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
)

// Client implements generation.ModelClient using the Gemini API.
type Client struct {
	models *genai.Models
	logger *slog.Logger
}

var _ generation.ModelClient = (*Client)(nil)

// NewClient creates a Gemini client. httpClient may be nil.
func NewClient(
	ctx context.Context,
	log *slog.Logger,
	cfg config.LLMConfig,
	httpClient *http.Client,
) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Client{
		models: client.Models,
		logger: log.With(slog.String("component", "gemini_client")),
	}, nil
}

// GenerateText sends prompt to model and returns the text of the first candidate.
func (c *Client) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", mapError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked: %s",
				generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", generation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, candidate.FinishReason)
	}

	text := resp.Text()
	if text == "" {
		return "", generation.ErrEmptyResponse
	}

	log.DebugContext(ctx, "gemini reply received",
		slog.String("model", model),
		slog.Int("reply_length", len(text)),
		slog.String("finish_reason", string(candidate.FinishReason)))

	return text, nil
}

// mapError tags credential failures with generation.ErrProviderAuth.
func mapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden || hasReason(apiErr, "API_KEY_INVALID") {
		return fmt.Errorf("%w: %s", generation.ErrProviderAuth, apiErr.Message)
	}
	return fmt.Errorf("gemini API error %d (%s): %s", apiErr.Code, apiErr.Status, apiErr.Message)
}

func hasReason(apiErr genai.APIError, reason string) bool {
	for _, detail := range apiErr.Details {
		if r, ok := detail["reason"].(string); ok && r == reason {
			return true
		}
	}
	return false
}
