package report

import (
	"github.com/lysyi3m/lis-comb/app/amendment"
	"github.com/shopspring/decimal"
)

const (
	MinSlicePercent = 5.0
	OtherLabel      = "Other"
)

type ChartSlice struct {
	CategoryID amendment.Category `json:"categoryId,omitempty"`
	Label      string             `json:"label"`
	Value      float64            `json:"value"`
	Percent    float64            `json:"percent"`
	IsOther    bool               `json:"isOther"`
}

// GroupMinorSlices turns focus slices into chart slices. Slices under
// minPercent of the total are folded into a trailing "Other" slice, which is
// only added when its value is positive. A non-positive total yields no slices.
func GroupMinorSlices(focus []FocusSlice, minPercent float64) []ChartSlice {
	total := decimal.Zero
	for _, s := range focus {
		total = total.Add(decimal.NewFromFloat(s.TotalAmount))
	}

	out := []ChartSlice{}
	if !total.IsPositive() {
		return out
	}

	hundred := decimal.NewFromInt(100)
	other := decimal.Zero

	for _, s := range focus {
		value := decimal.NewFromFloat(s.TotalAmount)
		percent := value.Div(total).Mul(hundred).InexactFloat64()

		if percent < minPercent {
			other = other.Add(value)
			continue
		}

		out = append(out, ChartSlice{
			CategoryID: s.CategoryID,
			Label:      s.CategoryID.Info().ShortLabel,
			Value:      s.TotalAmount,
			Percent:    percent,
		})
	}

	if other.IsPositive() {
		out = append(out, ChartSlice{
			Label:   OtherLabel,
			Value:   other.InexactFloat64(),
			Percent: other.Div(total).Mul(hundred).InexactFloat64(),
			IsOther: true,
		})
	}

	return out
}
