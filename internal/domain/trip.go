package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTripImages is the most images attached to a trip.
const MaxTripImages = 3

// Common validation errors for Trip
var (
	ErrEmptyTripID       = errors.New("trip ID cannot be empty")
	ErrEmptyTripUserID   = errors.New("trip user ID cannot be empty")
	ErrEmptyTripName     = errors.New("trip name cannot be empty")
	ErrInvalidTripPlan   = errors.New("trip details must be a JSON object")
	ErrInvalidDuration   = errors.New("trip duration must be between 1 and 30")
	ErrTooManyTripImages = errors.New("trip cannot have more than 3 images")
)

// Trip is a persisted record combining a generated itinerary, media and
// commerce metadata.
type Trip struct {
	ID     uuid.UUID `json:"id"`
	UserID string    `json:"userId"`
	// Details is the generated plan exactly as extracted from the model reply.
	Details        json.RawMessage `json:"tripDetails"`
	ImageURLs      []string        `json:"imageUrls"`
	Name           string          `json:"name"`
	EstimatedPrice string          `json:"estimatedPrice"`
	Tags           []string        `json:"tags"`
	Duration       int             `json:"duration"`
	Description    string          `json:"description"`
	PaymentLink    string          `json:"paymentLink,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewTrip builds a trip from a validated request and its generated plan.
// Display fields mirror the plan and fall back to request values when the
// model omitted them.
func NewTrip(
	req TripRequest,
	plan *GeneratedTripPlan,
	details json.RawMessage,
	imageURLs []string,
	now time.Time,
) (*Trip, error) {
	if plan == nil {
		return nil, ErrInvalidTripPlan
	}

	name := strings.TrimSpace(plan.Name)
	if name == "" {
		name = fmt.Sprintf("%s Trip", strings.TrimSpace(req.Country))
	}

	price := strings.TrimSpace(plan.EstimatedPrice.String())
	if price == "" {
		price = req.Budget
	}

	tags := make([]string, 0, 2)
	for _, tag := range []string{req.TravelStyle, req.GroupType} {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	var images []string
	if len(imageURLs) > 0 {
		images = append(images, imageURLs...)
	}

	trip := &Trip{
		ID:             uuid.New(),
		UserID:         req.UserID,
		Details:        details,
		ImageURLs:      images,
		Name:           name,
		EstimatedPrice: price,
		Tags:           tags,
		Duration:       req.NumberOfDays,
		Description:    plan.Description.String(),
		CreatedAt:      now.UTC(),
	}

	if err := trip.Validate(); err != nil {
		return nil, err
	}

	return trip, nil
}

// Validate checks if the Trip has valid data.
func (t *Trip) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTripID
	}

	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyTripUserID
	}

	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTripName
	}

	if t.Duration < MinTripDays || t.Duration > MaxTripDays {
		return ErrInvalidDuration
	}

	if len(t.ImageURLs) > MaxTripImages {
		return ErrTooManyTripImages
	}

	var obj map[string]json.RawMessage
	if len(t.Details) == 0 || json.Unmarshal(t.Details, &obj) != nil || obj == nil {
		return ErrInvalidTripPlan
	}

	return nil
}

// Plan decodes the stored trip details.
func (t *Trip) Plan() (*GeneratedTripPlan, error) {
	plan, err := ParseTripPlan(t.Details)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTripPlan, err)
	}
	return plan, nil
}

// TripPage is one page of the public trip catalogue.
type TripPage struct {
	Trips    []*Trip `json:"trips"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}
