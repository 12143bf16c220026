package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/generation"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

// ImageSearcher finds destination photos.
type ImageSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// PaymentLinkCreator creates a hosted checkout page for a trip.
type PaymentLinkCreator interface {
	CreateLink(ctx context.Context, req domain.PaymentLinkRequest) (*domain.PaymentLink, error)
}

// PipelineObserver receives trip generation outcomes.
type PipelineObserver interface {
	ObservePipeline(status, kind string)
	ObserveDegradation(kind string)
}

// GenerateStatus tells whether every best-effort step succeeded.
type GenerateStatus string

// Generation statuses
const (
	StatusComplete GenerateStatus = "complete"
	StatusDegraded GenerateStatus = "degraded"
)

// Degradation names a best-effort step that failed without aborting generation.
type Degradation string

// Possible degradations
const (
	DegradationImagesUnavailable      Degradation = "images_unavailable"
	DegradationPaymentLinkUnavailable Degradation = "payment_link_unavailable"
	DegradationPaymentLinkNotAttached Degradation = "payment_link_not_attached"
)

// GenerateResult is the outcome of a successful trip generation.
type GenerateResult struct {
	TripID uuid.UUID
	// PaymentLink is set whenever a link was created, even if attaching it
	// to the stored trip failed.
	PaymentLink  string
	Model        string
	Degradations []Degradation
	Status       GenerateStatus
}

// TripPipeline turns a trip request into a persisted trip.
type TripPipeline interface {
	// Generate validates req, generates and stores a trip and returns its ID.
	// Fatal failures are returned as *PipelineError.
	Generate(ctx context.Context, req domain.TripRequest) (*GenerateResult, error)
}

// TripPipelineImpl implements the TripPipeline interface
type TripPipelineImpl struct {
	generator     generation.TextGenerator
	images        ImageSearcher
	payments      PaymentLinkCreator
	trips         store.TripStore
	observer      PipelineObserver
	baselinePrice int64
	now           func() time.Time
	logger        *slog.Logger
}

// PipelineOption configures a TripPipelineImpl.
type PipelineOption func(*TripPipelineImpl)

// WithObserver records outcomes with obs.
func WithObserver(obs PipelineObserver) PipelineOption {
	return func(p *TripPipelineImpl) {
		if obs != nil {
			p.observer = obs
		}
	}
}

// WithBaselinePrice sets the price charged when none can be read from the plan.
func WithBaselinePrice(price int64) PipelineOption {
	return func(p *TripPipelineImpl) {
		if price > 0 {
			p.baselinePrice = price
		}
	}
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *TripPipelineImpl) { p.now = now }
}

// NewTripPipeline creates a TripPipeline. All collaborators are required.
func NewTripPipeline(
	generator generation.TextGenerator,
	images ImageSearcher,
	payments PaymentLinkCreator,
	trips store.TripStore,
	log *slog.Logger,
	opts ...PipelineOption,
) (*TripPipelineImpl, error) {
	if generator == nil {
		return nil, errors.New("text generator cannot be nil")
	}
	if images == nil {
		return nil, errors.New("image searcher cannot be nil")
	}
	if payments == nil {
		return nil, errors.New("payment link creator cannot be nil")
	}
	if trips == nil {
		return nil, errors.New("trip store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	p := &TripPipelineImpl{
		generator:     generator,
		images:        images,
		payments:      payments,
		trips:         trips,
		observer:      nopObserver{},
		baselinePrice: domain.DefaultBaselinePrice,
		now:           time.Now,
		logger:        log.With(slog.String("component", "trip_pipeline")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Ensure TripPipelineImpl implements TripPipeline interface
var _ TripPipeline = (*TripPipelineImpl)(nil)

// Generate implements TripPipeline.Generate
func (p *TripPipelineImpl) Generate(ctx context.Context, req domain.TripRequest) (*GenerateResult, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)
	start := p.now()

	if err := req.Validate(); err != nil {
		kind, field := KindValidation, ""
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			field = ve.Field
			if ve.Field == domain.FieldUserID {
				kind = KindUnauthenticated
			}
		}
		log.Debug("trip request rejected", slog.String("field", field), slog.String("error", err.Error()))
		return nil, p.fail(&PipelineError{Kind: kind, Field: field, Err: err})
	}

	log = log.With(slog.String("user_id", req.UserID), slog.String("country", req.Country))

	prompt, err := generation.BuildPrompt(req)
	if err != nil {
		log.Error("failed to build prompt", slog.String("error", err.Error()))
		return nil, p.fail(&PipelineError{Kind: KindInternal, Err: err})
	}

	reply, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		log.Error("trip generation failed",
			slog.Bool("credentials_rejected", generation.IsAuthFailure(err)),
			slog.String("error", err.Error()))
		return nil, p.fail(&PipelineError{Kind: KindGenerationUnavailable, Err: err})
	}

	plan, details, err := generation.ExtractPlan(reply.Text)
	if err != nil {
		log.Error("failed to extract trip plan",
			slog.String("model", reply.Model),
			slog.String("error", err.Error()))
		return nil, p.fail(&PipelineError{Kind: KindMalformedResponse, Err: err})
	}

	result := &GenerateResult{Model: reply.Model}

	images, err := p.images.Search(ctx, req.ImageQuery(), domain.MaxTripImages)
	if err != nil {
		log.Warn("image search failed, continuing without images", slog.String("error", err.Error()))
		p.degrade(result, DegradationImagesUnavailable)
		images = nil
	}
	if len(images) > domain.MaxTripImages {
		images = images[:domain.MaxTripImages]
	}

	trip, err := domain.NewTrip(req, plan, details, images, p.now())
	if err != nil {
		log.Error("generated plan produced an invalid trip", slog.String("error", err.Error()))
		return nil, p.fail(&PipelineError{Kind: KindMalformedResponse, Err: err})
	}

	if err := p.trips.Create(ctx, trip); err != nil {
		log.Error("failed to save trip", slog.String("trip_id", trip.ID.String()), slog.String("error", err.Error()))
		return nil, p.fail(&PipelineError{Kind: KindPersistence, Err: err})
	}
	result.TripID = trip.ID
	log = log.With(slog.String("trip_id", trip.ID.String()))

	if link := p.createPaymentLink(ctx, log, trip, plan, result); link != nil {
		result.PaymentLink = link.URL
		if err := p.trips.AttachPaymentLink(ctx, trip.ID, link.URL); err != nil {
			log.Warn("failed to attach payment link",
				slog.String("payment_link", link.URL),
				slog.String("error", err.Error()))
			p.degrade(result, DegradationPaymentLinkNotAttached)
		}
	}

	result.Status = StatusComplete
	if len(result.Degradations) > 0 {
		result.Status = StatusDegraded
	}
	p.observer.ObservePipeline(string(result.Status), "none")

	log.Info("trip generated",
		slog.String("model", reply.Model),
		slog.String("status", string(result.Status)),
		slog.Int("image_count", len(images)),
		slog.Duration("duration", p.now().Sub(start)))

	return result, nil
}

func (p *TripPipelineImpl) createPaymentLink(
	ctx context.Context,
	log *slog.Logger,
	trip *domain.Trip,
	plan *domain.GeneratedTripPlan,
	result *GenerateResult,
) *domain.PaymentLink {
	description := plan.Description.String()
	if description == "" {
		description = domain.DefaultProductDescription
	}
	link, err := p.payments.CreateLink(ctx, domain.PaymentLinkRequest{
		Title:       trip.Name,
		Description: description,
		Images:      trip.ImageURLs,
		Price:       domain.ParsePrice(trip.EstimatedPrice, p.baselinePrice),
		ReferenceID: trip.ID.String(),
	})
	if err != nil {
		log.Warn("payment link creation failed, continuing without link", slog.String("error", err.Error()))
		p.degrade(result, DegradationPaymentLinkUnavailable)
		return nil
	}
	if link == nil || link.URL == "" {
		log.Warn("payment provider returned no link")
		p.degrade(result, DegradationPaymentLinkUnavailable)
		return nil
	}
	return link
}

func (p *TripPipelineImpl) degrade(result *GenerateResult, d Degradation) {
	result.Degradations = append(result.Degradations, d)
	p.observer.ObserveDegradation(string(d))
}

func (p *TripPipelineImpl) fail(err *PipelineError) error {
	p.observer.ObservePipeline("failed", string(err.Kind))
	return err
}

type nopObserver struct{}

func (nopObserver) ObservePipeline(string, string) {}
func (nopObserver) ObserveDegradation(string)      {}
