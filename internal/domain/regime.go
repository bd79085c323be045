package domain

import "github.com/shopspring/decimal"

// TaxRegime selects how the taxable base and the tax are computed.
type TaxRegime string

const (
	// RegimeSimplified is the flat-rate "forfettario" regime: a fixed
	// profitability coefficient of revenue is taxed at a flat substitute rate.
	RegimeSimplified TaxRegime = "simplified"
	// RegimeStandard is the ordinary regime: revenue minus deductible costs,
	// taxed through the progressive IRPEF brackets.
	RegimeStandard TaxRegime = "standard"
)

// Defaults applied when entering the simplified regime without explicit
// values. 78 is the profitability coefficient of the most common
// professional-services ATECO group.
var (
	DefaultSubstituteRate    = decimal.NewFromInt(5)
	DefaultProfitabilityRate = decimal.NewFromInt(78)
)

// RegimeConfig is the singleton per-user fiscal regime selection. The two
// rate fields are meaningful only under the simplified regime; under the
// standard regime they must be absent. Updates replace the whole value,
// never patch it, because switching regime clears regime-specific fields.
type RegimeConfig struct {
	TaxRegime         TaxRegime        `yaml:"tax_regime" json:"taxRegime"`
	SubstituteRate    *decimal.Decimal `yaml:"substitute_rate,omitempty" json:"substituteRate,omitempty"`
	ProfitabilityRate *decimal.Decimal `yaml:"profitability_rate,omitempty" json:"profitabilityRate,omitempty"`
}

// TransitionTo returns the configuration after switching to the target
// regime, applying the transition table exhaustively:
//
//	simplified -> standard: clear substituteRate and profitabilityRate
//	standard -> simplified: default substituteRate=5 and
//	                        profitabilityRate=78 where unset
//
// A no-op transition returns the receiver unchanged.
func (c RegimeConfig) TransitionTo(target TaxRegime) RegimeConfig {
	if c.TaxRegime == target {
		return c
	}
	next := RegimeConfig{TaxRegime: target}
	switch target {
	case RegimeStandard:
		// Regime-specific fields stay nil.
	case RegimeSimplified:
		next.SubstituteRate = c.SubstituteRate
		next.ProfitabilityRate = c.ProfitabilityRate
		if next.SubstituteRate == nil {
			v := DefaultSubstituteRate
			next.SubstituteRate = &v
		}
		if next.ProfitabilityRate == nil {
			v := DefaultProfitabilityRate
			next.ProfitabilityRate = &v
		}
	}
	return next
}
