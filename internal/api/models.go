package api

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/service"
)

// CreateTripRequest is the body of POST /api/create-trip.
type CreateTripRequest struct {
	Country      string   `json:"country"`
	NumberOfDays DayCount `json:"numberOfDays"`
	TravelStyle  string   `json:"travelStyle"`
	Interests    string   `json:"interests"`
	Budget       string   `json:"budget"`
	GroupType    string   `json:"groupType"`
	UserID       string   `json:"userId"`
}

// ToDomain converts the body into a trip request. Validation is left to
// the pipeline.
func (r CreateTripRequest) ToDomain() domain.TripRequest {
	return domain.TripRequest{
		Country:      r.Country,
		NumberOfDays: int(r.NumberOfDays),
		TravelStyle:  r.TravelStyle,
		Interests:    r.Interests,
		Budget:       r.Budget,
		GroupType:    r.GroupType,
		UserID:       r.UserID,
	}
}

// DayCount accepts a whole number of days sent either as a JSON number or
// as a numeric string, as HTML forms do. Anything else decodes to 0, which
// fails request validation with the usual message.
type DayCount int

// UnmarshalJSON implements json.Unmarshaler.
func (d *DayCount) UnmarshalJSON(b []byte) error {
	*d = 0
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		if v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
			*d = DayCount(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*d = DayCount(n)
		}
	}
	return nil
}

// CreateTripResponse is returned after a trip was generated and stored.
type CreateTripResponse struct {
	ID           string                 `json:"id"`
	Status       service.GenerateStatus `json:"status"`
	Degradations []service.Degradation  `json:"degradations,omitempty"`
	PaymentLink  string                 `json:"paymentLink,omitempty"`
}

func newCreateTripResponse(res *service.GenerateResult) CreateTripResponse {
	return CreateTripResponse{
		ID:           res.TripID.String(),
		Status:       res.Status,
		Degradations: res.Degradations,
		PaymentLink:  res.PaymentLink,
	}
}

// UserTripsResponse lists the trips of the signed-in user.
type UserTripsResponse struct {
	Trips []*domain.Trip `json:"trips"`
}

// CountriesResponse is the country list for the trip form. Fallback is set
// when the upstream catalogue could not be reached.
type CountriesResponse struct {
	Countries []domain.Country `json:"countries"`
	Fallback  bool             `json:"fallback"`
}
