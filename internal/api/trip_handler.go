package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tourvisto/tourvisto-api/internal/api/shared"
	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/service"
)

// TripHandler handles trip generation and the trip catalogue.
type TripHandler struct {
	pipeline      service.TripPipeline
	trips         service.TripService
	exposeDetails bool
	logger        *slog.Logger
}

// NewTripHandler creates a new TripHandler. When exposeDetails is true,
// failure responses carry the redacted underlying error in "details".
func NewTripHandler(
	pipeline service.TripPipeline,
	trips service.TripService,
	exposeDetails bool,
	logger *slog.Logger,
) *TripHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TripHandler")
	}
	return &TripHandler{
		pipeline:      pipeline,
		trips:         trips,
		exposeDetails: exposeDetails,
		logger:        logger.With(slog.String("component", "trip_handler")),
	}
}

// CreateTrip handles POST /api/create-trip.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var body CreateTripRequest
	if err := shared.DecodeJSON(w, r, &body); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req := body.ToDomain()

	// A signed-in caller may only create trips for their own account.
	if claims, ok := shared.ClaimsFromContext(r.Context()); ok {
		userID := strings.TrimSpace(req.UserID)
		if userID != "" && userID != claims.AccountID {
			h.respondErr(w, r, service.ErrNotOwned)
			return
		}
		req.UserID = claims.AccountID
	}

	res, err := h.pipeline.Generate(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	log.Info("trip created",
		slog.String("trip_id", res.TripID.String()),
		slog.String("model", res.Model),
		slog.String("status", string(res.Status)),
		slog.Int("degradations", len(res.Degradations)))

	shared.RespondWithJSON(w, r, http.StatusOK, newCreateTripResponse(res))
}

// ListTrips handles GET /api/trips?page=N.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, err := getPageParam(r)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	result, err := h.trips.ListTrips(r.Context(), page)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetTrip handles GET /api/trips/{id}.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	detail, err := h.trips.GetTripDetail(r.Context(), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// ListMyTrips handles GET /api/me/trips.
func (h *TripHandler) ListMyTrips(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	trips, err := h.trips.ListUserTrips(r.Context(), claims.AccountID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if trips == nil {
		trips = []*domain.Trip{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UserTripsResponse{Trips: trips})
}

func (h *TripHandler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	h.respondError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

func (h *TripHandler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	var opts []shared.ResponseOption
	if h.exposeDetails {
		opts = append(opts, shared.WithDetails(err))
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err, opts...)
}
