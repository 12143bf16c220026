package domain

import (
	"strings"
)

// Trip length bounds, inclusive.
const (
	MinTripDays = 1
	MaxTripDays = 30
)

// Field names reported by TripRequest validation.
const (
	FieldCountry      = "country"
	FieldNumberOfDays = "numberOfDays"
	FieldTravelStyle  = "travelStyle"
	FieldInterests    = "interests"
	FieldBudget       = "budget"
	FieldGroupType    = "groupType"
	FieldUserID       = "userId"
)

// TripRequest is the input of trip generation.
type TripRequest struct {
	Country      string `json:"country"`
	NumberOfDays int    `json:"numberOfDays"`
	TravelStyle  string `json:"travelStyle"`
	Interests    string `json:"interests"`
	Budget       string `json:"budget"`
	GroupType    string `json:"groupType"`
	// UserID is an opaque ownership tag supplied by the upstream identity provider.
	UserID string `json:"userId"`
}

// Validate checks the request fields in a fixed order and returns a
// *ValidationError for the first offending one.
func (r TripRequest) Validate() error {
	if isBlank(r.Country) {
		return NewValidationError(FieldCountry, "Country is required and must be a string")
	}

	if r.NumberOfDays < MinTripDays || r.NumberOfDays > MaxTripDays {
		return NewValidationError(FieldNumberOfDays, "Number of days must be between 1 and 30")
	}

	preferences := []struct {
		field string
		value string
	}{
		{FieldTravelStyle, r.TravelStyle},
		{FieldInterests, r.Interests},
		{FieldBudget, r.Budget},
		{FieldGroupType, r.GroupType},
	}
	for _, p := range preferences {
		if isBlank(p.value) {
			return NewValidationError(p.field, "All trip preferences are required")
		}
	}

	if isBlank(r.UserID) {
		return NewValidationError(FieldUserID, "User ID is required")
	}

	return nil
}

// ImageQuery is the search phrase used to find destination photos.
func (r TripRequest) ImageQuery() string {
	return strings.Join([]string{
		strings.TrimSpace(r.Country),
		strings.TrimSpace(r.Interests),
		strings.TrimSpace(r.TravelStyle),
	}, " ")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
