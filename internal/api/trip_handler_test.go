package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvisto/tourvisto-api/internal/api/shared"
	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/generation"
	"github.com/tourvisto/tourvisto-api/internal/mocks"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/service"
	"github.com/tourvisto/tourvisto-api/internal/service/auth"
)

type stubPipeline struct {
	fn    func(ctx context.Context, req domain.TripRequest) (*service.GenerateResult, error)
	calls []domain.TripRequest
}

func (s *stubPipeline) Generate(ctx context.Context, req domain.TripRequest) (*service.GenerateResult, error) {
	s.calls = append(s.calls, req)
	return s.fn(ctx, req)
}

func okPipeline(id uuid.UUID) *stubPipeline {
	return &stubPipeline{fn: func(context.Context, domain.TripRequest) (*service.GenerateResult, error) {
		return &service.GenerateResult{
			TripID:      id,
			PaymentLink: "https://buy.stripe.com/test_" + id.String(),
			Model:       "gemini-1.5-flash",
			Status:      service.StatusComplete,
		}, nil
	}}
}

func failingPipeline(err error) *stubPipeline {
	return &stubPipeline{fn: func(context.Context, domain.TripRequest) (*service.GenerateResult, error) {
		return nil, err
	}}
}

const japanBody = `{
	"country": "Japan",
	"numberOfDays": 5,
	"travelStyle": "Relaxed",
	"interests": "Food & Culinary",
	"budget": "Mid-range",
	"groupType": "Couple",
	"userId": "user-1"
}`

func apiTrip(name, userID string, createdAt time.Time) *domain.Trip {
	return &domain.Trip{
		ID:             uuid.New(),
		UserID:         userID,
		Details:        json.RawMessage(fmt.Sprintf(`{"name":%q}`, name)),
		Name:           name,
		EstimatedPrice: "$1,200",
		Tags:           []string{"Relaxed", "Couple"},
		Duration:       5,
		CreatedAt:      createdAt,
	}
}

func newTestTripHandler(t *testing.T, pipeline service.TripPipeline, trips *mocks.MockTripStore, expose bool) *TripHandler {
	t.Helper()
	log, _ := logger.NewCaptureLogger()
	svc, err := service.NewTripService(trips, log)
	require.NoError(t, err)
	return NewTripHandler(pipeline, svc, expose, log)
}

func tripRouter(h *TripHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/create-trip", h.CreateTrip)
	r.Get("/api/trips", h.ListTrips)
	r.Get("/api/trips/{id}", h.GetTrip)
	r.Get("/api/me/trips", h.ListMyTrips)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func withClaims(req *http.Request, accountID string) *http.Request {
	claims := &auth.Claims{Identity: auth.Identity{AccountID: accountID}}
	return req.WithContext(shared.WithClaims(req.Context(), claims))
}

func TestCreateTripSuccess(t *testing.T) {
	id := uuid.New()
	pipeline := okPipeline(id)
	h := newTestTripHandler(t, pipeline, mocks.NewMockTripStore(), false)

	req := httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(japanBody))
	rec := httptest.NewRecorder()
	tripRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body CreateTripResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id.String(), body.ID)
	assert.Equal(t, service.StatusComplete, body.Status)
	assert.Empty(t, body.Degradations)
	assert.Contains(t, body.PaymentLink, id.String())

	require.Len(t, pipeline.calls, 1)
	assert.Equal(t, domain.TripRequest{
		Country:      "Japan",
		NumberOfDays: 5,
		TravelStyle:  "Relaxed",
		Interests:    "Food & Culinary",
		Budget:       "Mid-range",
		GroupType:    "Couple",
		UserID:       "user-1",
	}, pipeline.calls[0])
}

func TestCreateTripDegraded(t *testing.T) {
	id := uuid.New()
	pipeline := &stubPipeline{fn: func(context.Context, domain.TripRequest) (*service.GenerateResult, error) {
		return &service.GenerateResult{
			TripID:       id,
			Status:       service.StatusDegraded,
			Degradations: []service.Degradation{service.DegradationImagesUnavailable, service.DegradationPaymentLinkUnavailable},
		}, nil
	}}
	h := newTestTripHandler(t, pipeline, mocks.NewMockTripStore(), false)

	rec := httptest.NewRecorder()
	tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(japanBody)))

	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, id.String(), raw["id"])
	assert.Equal(t, "degraded", raw["status"])
	assert.Equal(t, []any{"images_unavailable", "payment_link_unavailable"}, raw["degradations"])
	assert.NotContains(t, raw, "paymentLink")
}

func TestCreateTripErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name: "validation",
			err: &service.PipelineError{Kind: service.KindValidation, Field: "country",
				Err: domain.NewValidationError("country", "Country is required and must be a string")},
			wantStatus: http.StatusBadRequest,
			wantError:  "Country is required and must be a string",
		},
		{
			name: "missing user",
			err: &service.PipelineError{Kind: service.KindUnauthenticated, Field: "userId",
				Err: domain.NewValidationError("userId", "User ID is required")},
			wantStatus: http.StatusUnauthorized,
			wantError:  MsgUserIDRequired,
		},
		{
			name:       "all models failed",
			err:        &service.PipelineError{Kind: service.KindGenerationUnavailable, Err: generation.ErrAllModelsFailed},
			wantStatus: http.StatusInternalServerError,
			wantError:  MsgGenerationUnavailable,
		},
		{
			name:       "api key rejected",
			err:        &service.PipelineError{Kind: service.KindGenerationUnavailable, Err: generation.ErrProviderAuth},
			wantStatus: http.StatusInternalServerError,
			wantError:  MsgGenerationUnavailable,
		},
		{
			name:       "malformed reply",
			err:        &service.PipelineError{Kind: service.KindMalformedResponse, Err: generation.ErrMalformedResponse},
			wantStatus: http.StatusInternalServerError,
			wantError:  MsgMalformedResponse,
		},
		{
			name:       "persistence",
			err:        &service.PipelineError{Kind: service.KindPersistence, Err: errors.New("insert failed")},
			wantStatus: http.StatusInternalServerError,
			wantError:  MsgPersistenceFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestTripHandler(t, failingPipeline(tc.err), mocks.NewMockTripStore(), false)

			rec := httptest.NewRecorder()
			tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(japanBody)))

			assert.Equal(t, tc.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.wantError, body.Error)
			assert.Empty(t, body.Details, "details must not be exposed in production")
		})
	}
}

func TestCreateTripDetailsOutsideProduction(t *testing.T) {
	cause := fmt.Errorf("%w: last error: quota exceeded", generation.ErrAllModelsFailed)
	h := newTestTripHandler(t,
		failingPipeline(&service.PipelineError{Kind: service.KindGenerationUnavailable, Err: cause}),
		mocks.NewMockTripStore(), true)

	rec := httptest.NewRecorder()
	tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(japanBody)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, MsgGenerationUnavailable, body.Error)
	assert.Contains(t, body.Details, "quota exceeded")
}

func TestCreateTripInvalidBody(t *testing.T) {
	pipeline := okPipeline(uuid.New())
	h := newTestTripHandler(t, pipeline, mocks.NewMockTripStore(), false)

	for name, raw := range map[string]string{
		"malformed json": `{"country":`,
		"empty":          ``,
		"wrong type":     `{"country": 42}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(raw)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid request body", decodeError(t, rec).Error)
		})
	}
	assert.Empty(t, pipeline.calls)
}

func TestCreateTripOwnership(t *testing.T) {
	t.Run("other account is forbidden", func(t *testing.T) {
		pipeline := okPipeline(uuid.New())
		h := newTestTripHandler(t, pipeline, mocks.NewMockTripStore(), false)

		req := httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(japanBody))
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, withClaims(req, "someone-else"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, pipeline.calls)
	})

	t.Run("own account is allowed", func(t *testing.T) {
		pipeline := okPipeline(uuid.New())
		h := newTestTripHandler(t, pipeline, mocks.NewMockTripStore(), false)

		req := httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(japanBody))
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, withClaims(req, "user-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, pipeline.calls, 1)
	})

	t.Run("blank user id takes the token subject", func(t *testing.T) {
		pipeline := okPipeline(uuid.New())
		h := newTestTripHandler(t, pipeline, mocks.NewMockTripStore(), false)

		body := strings.Replace(japanBody, `"userId": "user-1"`, `"userId": ""`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(body))
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, withClaims(req, "user-7"))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, pipeline.calls, 1)
		assert.Equal(t, "user-7", pipeline.calls[0].UserID)
	})
}

func TestListTrips(t *testing.T) {
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	var trips []*domain.Trip
	for i := 0; i < 10; i++ {
		trips = append(trips, apiTrip(fmt.Sprintf("Trip %d", i), "user-1", base.Add(time.Duration(i)*time.Hour)))
	}
	h := newTestTripHandler(t, okPipeline(uuid.New()), mocks.NewMockTripStore(trips...), false)

	t.Run("default first page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var page domain.TripPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Total)
		assert.Equal(t, service.CataloguePageSize, page.PageSize)
		require.Len(t, page.Trips, service.CataloguePageSize)
		assert.Equal(t, "Trip 9", page.Trips[0].Name)
	})

	t.Run("second page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips?page=2", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var page domain.TripPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Trips, 2)
	})

	tooFar := strconv.Itoa(service.MaxCataloguePage + 1)
	for _, raw := range []string{"0", "-1", "abc", tooFar, "9223372036854775807"} {
		t.Run("invalid page "+raw, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips?page="+raw, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid page number", decodeError(t, rec).Error)
		})
	}
}

func TestGetTrip(t *testing.T) {
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	target := apiTrip("Kyoto Escape", "user-1", base)
	other := apiTrip("Lisbon Weekend", "user-2", base.Add(time.Hour))
	h := newTestTripHandler(t, okPipeline(uuid.New()), mocks.NewMockTripStore(target, other), false)

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips/"+target.ID.String(), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var detail service.TripDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
		require.NotNil(t, detail.Trip)
		assert.Equal(t, target.ID, detail.Trip.ID)
		require.Len(t, detail.Related, 1)
		assert.Equal(t, other.ID, detail.Related[0].ID)
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Trip not found", decodeError(t, rec).Error)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ID has invalid format", decodeError(t, rec).Error)
	})
}

func TestListMyTrips(t *testing.T) {
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	mine := apiTrip("Mine", "user-1", base)
	theirs := apiTrip("Theirs", "user-2", base)
	h := newTestTripHandler(t, okPipeline(uuid.New()), mocks.NewMockTripStore(mine, theirs), false)

	t.Run("requires authentication", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tripRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me/trips", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("returns own trips", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/me/trips", nil), "user-1")
		tripRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body UserTripsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Trips, 1)
		assert.Equal(t, mine.ID, body.Trips[0].ID)
	})

	t.Run("no trips is an empty list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/me/trips", nil), "user-3")
		tripRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"trips":[]}`, rec.Body.String())
	})
}
