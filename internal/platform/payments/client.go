package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
)

// maxImages is the number of product images Stripe accepts.
const maxImages = 8

// ErrInvalidRequest is returned before any API call when the link request is unusable.
var ErrInvalidRequest = errors.New("invalid payment link request")

// Client creates products and payment links.
type Client struct {
	api        *client.API
	currency   string
	appBaseURL string
	logger     *slog.Logger
}

// NewClient creates a Stripe client. httpClient may be nil.
func NewClient(cfg config.PaymentsConfig, httpClient *http.Client, log *slog.Logger) (*Client, error) {
	if cfg.StripeSecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "stripe_client"))

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		LeveledLogger:     &slogLeveledLogger{logger: log},
		MaxNetworkRetries: stripe.Int64(2),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	}

	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	return &Client{
		api:        client.New(cfg.StripeSecretKey, backends),
		currency:   currency,
		appBaseURL: strings.TrimRight(cfg.AppBaseURL, "/"),
		logger:     log,
	}, nil
}

// CreateLink creates a product priced at req.Price and a payment link that
// redirects back to the trip once paid. ReferenceID doubles as the
// idempotency key prefix.
func (c *Client) CreateLink(ctx context.Context, req domain.PaymentLinkRequest) (*domain.PaymentLink, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidRequest)
	}
	if req.ReferenceID == "" {
		return nil, fmt.Errorf("%w: reference ID is required", ErrInvalidRequest)
	}

	productParams := &stripe.ProductParams{
		Name: stripe.String(req.Title),
		DefaultPriceData: &stripe.ProductDefaultPriceDataParams{
			Currency:   stripe.String(c.currency),
			UnitAmount: stripe.Int64(req.Price * 100),
		},
	}
	if req.Description != "" {
		productParams.Description = stripe.String(req.Description)
	}
	for i, img := range req.Images {
		if i == maxImages {
			break
		}
		productParams.Images = append(productParams.Images, stripe.String(img))
	}
	productParams.AddMetadata("tripId", req.ReferenceID)
	productParams.Context = ctx
	productParams.SetIdempotencyKey(req.ReferenceID + "-product")

	product, err := c.api.Products.New(productParams)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", mapError(err))
	}
	if product.DefaultPrice == nil || product.DefaultPrice.ID == "" {
		return nil, fmt.Errorf("create product: %s has no default price", product.ID)
	}

	linkParams := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{{
			Price:    stripe.String(product.DefaultPrice.ID),
			Quantity: stripe.Int64(1),
		}},
		AfterCompletion: &stripe.PaymentLinkAfterCompletionParams{
			Type: stripe.String(string(stripe.PaymentLinkAfterCompletionTypeRedirect)),
			Redirect: &stripe.PaymentLinkAfterCompletionRedirectParams{
				URL: stripe.String(fmt.Sprintf("%s/travel/%s/success", c.appBaseURL, req.ReferenceID)),
			},
		},
	}
	linkParams.AddMetadata("tripId", req.ReferenceID)
	linkParams.Context = ctx
	linkParams.SetIdempotencyKey(req.ReferenceID + "-link")

	link, err := c.api.PaymentLinks.New(linkParams)
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", mapError(err))
	}

	log.InfoContext(ctx, "payment link created",
		slog.String("trip_id", req.ReferenceID),
		slog.String("product_id", product.ID),
		slog.String("payment_link_id", link.ID))

	return &domain.PaymentLink{ID: link.ID, URL: link.URL}, nil
}

// mapError flattens a Stripe API error into a readable message while keeping
// the original in the chain.
func mapError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("stripe %d %s: %s: %w", stripeErr.HTTPStatusCode, stripeErr.Type, stripeErr.Msg, err)
	}
	return err
}

// slogLeveledLogger adapts slog to stripe.LeveledLoggerInterface.
type slogLeveledLogger struct {
	logger *slog.Logger
}

func (l *slogLeveledLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l *slogLeveledLogger) Infof(format string, v ...interface{}) {
	// Stripe logs every request at info level.
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l *slogLeveledLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *slogLeveledLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
