package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// IrpefBracket is one progressive tax bracket for one year. UpperBound is nil
// only on the top bracket, which absorbs everything above its lower bound.
type IrpefBracket struct {
	Rate       decimal.Decimal  `yaml:"rate" json:"rate"`
	LowerBound decimal.Decimal  `yaml:"lower_bound" json:"lowerBound"`
	UpperBound *decimal.Decimal `yaml:"upper_bound,omitempty" json:"upperBound,omitempty"`
	Year       int              `yaml:"year" json:"year"`
	Active     bool             `yaml:"active" json:"active"`
}

// SortBrackets orders a bracket set ascending by lower bound, in place.
func SortBrackets(brackets []IrpefBracket) {
	sort.Slice(brackets, func(i, j int) bool {
		return brackets[i].LowerBound.LessThan(brackets[j].LowerBound)
	})
}

// ValidateBrackets checks that the active brackets form a complete,
// non-overlapping partition of [0, inf): the first bracket starts at 0, each
// bracket starts where the previous one ends, and exactly the last bracket is
// open-ended. The input is not mutated. A violation is a fatal configuration
// error, reported as *BracketConfigurationError before any tax arithmetic.
func ValidateBrackets(year int, brackets []IrpefBracket) error {
	active := make([]IrpefBracket, 0, len(brackets))
	for _, b := range brackets {
		if b.Active {
			active = append(active, b)
		}
	}
	if len(active) == 0 {
		return &BracketConfigurationError{Year: year, Reason: "no active brackets"}
	}
	SortBrackets(active)

	if !active[0].LowerBound.IsZero() {
		return &BracketConfigurationError{Year: year, Reason: "first bracket does not start at 0"}
	}
	for i, b := range active {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(100)) {
			return &BracketConfigurationError{Year: year, Reason: "bracket rate outside [0,100]"}
		}
		last := i == len(active)-1
		if b.UpperBound == nil {
			if !last {
				return &BracketConfigurationError{Year: year, Reason: "open-ended bracket is not the top bracket"}
			}
			continue
		}
		if !b.UpperBound.GreaterThan(b.LowerBound) {
			return &BracketConfigurationError{Year: year, Reason: "bracket upper bound not above its lower bound"}
		}
		if last {
			return &BracketConfigurationError{Year: year, Reason: "top bracket must be open-ended"}
		}
		if !active[i+1].LowerBound.Equal(*b.UpperBound) {
			return &BracketConfigurationError{Year: year, Reason: "gap or overlap between brackets"}
		}
	}
	return nil
}

// ActiveBrackets returns the active brackets ascending by lower bound.
func ActiveBrackets(brackets []IrpefBracket) []IrpefBracket {
	active := make([]IrpefBracket, 0, len(brackets))
	for _, b := range brackets {
		if b.Active {
			active = append(active, b)
		}
	}
	SortBrackets(active)
	return active
}
