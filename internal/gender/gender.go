// Package gender maps resolved first names to a coarse label using an
// embedded name dataset. The dataset is validated against a JSON Schema at
// load time and looked up case-insensitively.
package gender

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/qguide-enricher/internal/schemas"
)

//go:embed names.json
var datasetJSON []byte

//go:embed schema.json
var schemaJSON []byte

// Dataset categories. Mostly-categories reflect names that skew one way
// without being exclusive; "andy" marks truly ambiguous names.
const (
	CategoryMale         = "male"
	CategoryMostlyMale   = "mostly_male"
	CategoryFemale       = "female"
	CategoryMostlyFemale = "mostly_female"
	CategoryAndy         = "andy"
	CategoryUnknown      = "unknown"
)

// Detector answers coarse gender labels for first names.
type Detector struct {
	categories map[string]string
}

// NewDetector loads the embedded dataset, validating it against the embedded
// schema first so a malformed data file fails loudly at startup.
func NewDetector() (*Detector, error) {
	if err := schemas.ValidateBytes(schemaJSON, datasetJSON); err != nil {
		return nil, fmt.Errorf("gender dataset failed schema validation: %w", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(datasetJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse gender dataset: %w", err)
	}
	categories := make(map[string]string, len(raw))
	for name, category := range raw {
		categories[strings.ToLower(name)] = category
	}
	return &Detector{categories: categories}, nil
}

// Sex maps a first name to "male", "female", or "unknown". An empty first
// name, or a nil detector, yields the empty string. Ambiguous and unlisted
// names are "unknown".
func (d *Detector) Sex(firstName string) string {
	if d == nil || firstName == "" {
		return ""
	}
	switch d.categories[strings.ToLower(firstName)] {
	case CategoryMale, CategoryMostlyMale:
		return "male"
	case CategoryFemale, CategoryMostlyFemale:
		return "female"
	default:
		return "unknown"
	}
}
