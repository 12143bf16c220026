package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tourvisto/tourvisto-api/internal/domain"
)

var (
	// fencedJSON matches the first ```json block whose closing fence starts a
	// line. JSON strings cannot hold raw newlines, so fences quoted inside
	// the plan never end the block.
	fencedJSON = regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n(.*?)\\r?\\n[ \\t]*```")

	// inlineFencedJSON accepts a closing fence on the last line of the body.
	inlineFencedJSON = regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n(.*?)```")
)

// ExtractPlan locates the fenced JSON block in a model reply and decodes it.
// It returns the decoded plan together with the compacted JSON object so the
// stored document reproduces exactly what the model produced. Only a
// non-empty name is required; every other field is optional.
func ExtractPlan(raw string) (*domain.GeneratedTripPlan, json.RawMessage, error) {
	match := fencedJSON.FindStringSubmatch(raw)
	if match == nil {
		match = inlineFencedJSON.FindStringSubmatch(raw)
	}
	if match == nil {
		return nil, nil, fmt.Errorf("%w: no fenced JSON block found", ErrMalformedResponse)
	}

	body := bytes.TrimSpace([]byte(match[1]))
	if len(body) == 0 || body[0] != '{' {
		return nil, nil, fmt.Errorf("%w: fenced block is not a JSON object", ErrMalformedResponse)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	plan, err := domain.ParseTripPlan(compact.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if strings.TrimSpace(plan.Name) == "" {
		return nil, nil, fmt.Errorf("%w: missing trip name", ErrMalformedResponse)
	}

	return plan, json.RawMessage(compact.Bytes()), nil
}
