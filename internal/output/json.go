package output

import (
	"encoding/json"

	"pivatax/internal/domain"
)

// JSONFormatter renders the summary as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Name() string { return "json" }

func (f *JSONFormatter) Format(r *domain.TaxCalculationResult) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
