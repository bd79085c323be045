package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pivatax/internal/domain"
)

func params(rate, minimum, fixed string) domain.ContributionParams {
	return domain.ContributionParams{
		Rate:                     dec(rate),
		MinimumContribution:      dec(minimum),
		FixedAnnualContributions: dec(fixed),
	}
}

func TestContributionCalculator(t *testing.T) {
	calc := NewContributionCalculator()

	tests := []struct {
		name string
		base string
		p    domain.ContributionParams
		want string
	}{
		{
			// Gestione Separata professional tier: max(34200*26.07%, 4800.79)
			name: "rate portion above the floor",
			base: "34200",
			p:    params("26.07", "4800.79", "0"),
			want: "8915.94",
		},
		{
			name: "floor kicks in",
			base: "10000",
			p:    params("26.07", "4800.79", "0"),
			want: "4800.79", // 2607 < 4800.79
		},
		{
			name: "zero base pays minimum plus fixed",
			base: "0",
			p:    params("16", "2750", "350"),
			want: "3100",
		},
		{
			name: "fixed surcharge is additive, not floored",
			base: "50000",
			p:    params("16", "2750", "350"),
			want: "8350", // 50000*16% = 8000, above the floor, plus 350
		},
		{
			name: "zero parameters",
			base: "34200",
			p:    params("0", "0", "0"),
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Calculate(dec(tt.base), tt.p)
			assert.True(t, got.Equal(dec(tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}

func TestContributionRounding(t *testing.T) {
	calc := NewContributionCalculator()
	// 12345.67 * 26.07% = 3218.516169 -> 3218.52
	got := calc.Calculate(dec("12345.67"), params("26.07", "0", "0"))
	assert.True(t, got.Equal(dec("3218.52")), "got %s", got)
}

func TestContributionFloorAppliesOnlyToRatePortion(t *testing.T) {
	calc := NewContributionCalculator()
	// Rate portion 2607 is under the 4800.79 floor; the 350 surcharge is
	// added on top of the floored portion, never compared against it.
	got := calc.Calculate(decimal.NewFromInt(10000), params("26.07", "4800.79", "350"))
	assert.True(t, got.Equal(dec("5150.79")), "got %s", got)
}
