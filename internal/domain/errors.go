package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a single out-of-range or malformed configuration
// field. The field name is always carried so callers can surface it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates per-field validation failures.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// ErrOrNil returns the list as an error, or nil when empty.
func (e ValidationErrors) ErrOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ConfigurationInconsistencyError reports a field that is present but invalid
// for the selected regime or pension system (e.g. a substitute rate on the
// standard regime).
type ConfigurationInconsistencyError struct {
	Field   string
	Message string
}

func (e *ConfigurationInconsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Kinds of reference data a NotFoundError can report.
const (
	NotFoundScheme      = "scheme"
	NotFoundRateTier    = "rate tier"
	NotFoundGuildFund   = "guild fund"
	NotFoundCatalogData = "catalog data"
	NotFoundBrackets    = "irpef brackets"
	NotFoundConfig      = "configuration"
)

// NotFoundError reports an unknown scheme, fund or tier code, or reference
// data missing for the requested year and every earlier one.
type NotFoundError struct {
	Kind string
	Key  string
	Year int
}

func (e *NotFoundError) Error() string {
	if e.Year != 0 {
		return fmt.Sprintf("%s %q not found for year %d or earlier", e.Kind, e.Key, e.Year)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// BracketConfigurationError reports an IRPEF bracket set that does not form a
// complete, non-overlapping partition of [0, inf). This is a fatal reference
// data error; no tax arithmetic runs against a broken set.
type BracketConfigurationError struct {
	Year   int
	Reason string
}

func (e *BracketConfigurationError) Error() string {
	return fmt.Sprintf("irpef brackets for %d: %s", e.Year, e.Reason)
}
