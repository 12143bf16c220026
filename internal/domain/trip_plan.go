package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// GeneratedTripPlan is the itinerary produced by the text-generation model.
// The model is only instructed to follow this shape, so every field except
// Name may be missing and loosely typed values are tolerated.
type GeneratedTripPlan struct {
	Name            string        `json:"name"`
	Description     LooseString   `json:"description,omitempty"`
	EstimatedPrice  LooseString   `json:"estimatedPrice,omitempty"`
	Duration        LooseInt      `json:"duration,omitempty"`
	Budget          LooseString   `json:"budget,omitempty"`
	TravelStyle     LooseString   `json:"travelStyle,omitempty"`
	Country         LooseString   `json:"country,omitempty"`
	Interests       LooseString   `json:"interests,omitempty"`
	GroupType       LooseString   `json:"groupType,omitempty"`
	BestTimeToVisit LooseStrings  `json:"bestTimeToVisit,omitempty"`
	WeatherInfo     LooseStrings  `json:"weatherInfo,omitempty"`
	Location        *TripLocation `json:"location,omitempty"`
	Itinerary       []DayPlan     `json:"itinerary,omitempty"`
}

// TripLocation is the primary destination of a plan.
type TripLocation struct {
	City          string    `json:"city,omitempty"`
	Coordinates   []float64 `json:"coordinates,omitempty"`
	OpenStreetMap string    `json:"openStreetMap,omitempty"`
}

// DayPlan is one day of an itinerary.
type DayPlan struct {
	Day        LooseInt   `json:"day"`
	Location   string     `json:"location,omitempty"`
	Activities []Activity `json:"activities,omitempty"`
}

// Activity is a single entry of a day plan.
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// ParseTripPlan decodes a stored or generated plan document.
func ParseTripPlan(data []byte) (*GeneratedTripPlan, error) {
	var plan GeneratedTripPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// LooseString decodes a JSON string, number, boolean or list of strings.
// Lists are joined with ", "; null leaves the value empty.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = LooseString(str)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = LooseString(strings.Join(list, ", "))
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = LooseString(num.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*s = LooseString(strconv.FormatBool(b))
	return nil
}

// String returns the plain string value.
func (s LooseString) String() string {
	return string(s)
}

// LooseStrings decodes a JSON list of strings or a single string.
type LooseStrings []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *LooseStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	var list []LooseString
	if err := json.Unmarshal(data, &list); err == nil {
		out := make([]string, len(list))
		for i, item := range list {
			out[i] = item.String()
		}
		*l = out
		return nil
	}

	var single LooseString
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = LooseStrings{single.String()}
	return nil
}

// LooseInt decodes a JSON number or a numeric string such as "5" or "5 days".
// Values that carry no leading integer decode as zero.
type LooseInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *LooseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = LooseInt(int(f))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*n = LooseInt(leadingInt(str))
	return nil
}

// leadingInt returns the integer prefix of s after trimming, or zero.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}
