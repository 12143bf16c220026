package generation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/tourvisto/tourvisto-api/internal/domain"
)

//go:embed prompts/trip.tmpl
var promptFS embed.FS

var tripPrompt = template.Must(
	template.New("trip.tmpl").
		Funcs(template.FuncMap{"json": jsonString}).
		ParseFS(promptFS, "prompts/trip.tmpl"),
)

type promptData struct {
	Country      string
	NumberOfDays int
	TravelStyle  string
	Interests    string
	Budget       string
	GroupType    string
}

// BuildPrompt renders the trip generation prompt for req. The request
// must already be valid.
func BuildPrompt(req domain.TripRequest) (string, error) {
	data := promptData{
		Country:      strings.TrimSpace(req.Country),
		NumberOfDays: req.NumberOfDays,
		TravelStyle:  strings.TrimSpace(req.TravelStyle),
		Interests:    strings.TrimSpace(req.Interests),
		Budget:       strings.TrimSpace(req.Budget),
		GroupType:    strings.TrimSpace(req.GroupType),
	}

	var buf bytes.Buffer
	if err := tripPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// jsonString quotes s as a JSON string literal.
func jsonString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
