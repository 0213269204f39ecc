package costbenefit

import (
	"math"

	"github.com/goccy/go-json"
)

// Summary holds the headline metrics of a timeline. BenefitCostRatio is +Inf
// when total costs are zero.
type Summary struct {
	NetRevenue       float64 `json:"netRevenue"`
	TotalBenefits    float64 `json:"totalBenefits"`
	TotalCosts       float64 `json:"totalCosts"`
	NetBenefit       float64 `json:"netBenefit"`
	BenefitCostRatio float64 `json:"benefitCostRatio"`
	NPV              float64 `json:"npv"`
	BreakevenYear    *int    `json:"breakevenYear"`
	HorizonYears     int     `json:"horizonYears"`
	DiscountRate     float64 `json:"discountRate"`
}

// MarshalJSON encodes an infinite benefit-cost ratio as null and sets
// benefitCostRatioInfinite.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := struct {
		NetRevenue               float64  `json:"netRevenue"`
		TotalBenefits            float64  `json:"totalBenefits"`
		TotalCosts               float64  `json:"totalCosts"`
		NetBenefit               float64  `json:"netBenefit"`
		BenefitCostRatio         *float64 `json:"benefitCostRatio"`
		BenefitCostRatioInfinite bool     `json:"benefitCostRatioInfinite,omitempty"`
		NPV                      float64  `json:"npv"`
		BreakevenYear            *int     `json:"breakevenYear"`
		HorizonYears             int      `json:"horizonYears"`
		DiscountRate             float64  `json:"discountRate"`
	}{
		NetRevenue:    s.NetRevenue,
		TotalBenefits: s.TotalBenefits,
		TotalCosts:    s.TotalCosts,
		NetBenefit:    s.NetBenefit,
		NPV:           s.NPV,
		BreakevenYear: s.BreakevenYear,
		HorizonYears:  s.HorizonYears,
		DiscountRate:  s.DiscountRate,
	}

	if math.IsInf(s.BenefitCostRatio, 0) {
		out.BenefitCostRatioInfinite = true
	} else {
		bcr := s.BenefitCostRatio
		out.BenefitCostRatio = &bcr
	}
	return json.Marshal(out)
}

func summarize(params Parameters, netRevenue float64, timeline []TimelineEntry) Summary {
	s := Summary{
		NetRevenue:   netRevenue,
		HorizonYears: params.HorizonYears,
		DiscountRate: params.DiscountRate,
	}
	for _, entry := range timeline {
		s.TotalBenefits += entry.TotalBenefits
		s.TotalCosts += entry.TotalCosts
		if s.BreakevenYear == nil && entry.CumulativeNet > 0 {
			year := entry.Year
			s.BreakevenYear = &year
		}
	}
	if len(timeline) > 0 {
		s.NPV = timeline[len(timeline)-1].CumulativeNPV
	}
	s.NetBenefit = s.TotalBenefits - s.TotalCosts

	if s.TotalCosts == 0 {
		s.BenefitCostRatio = math.Inf(1)
	} else {
		s.BenefitCostRatio = s.TotalBenefits / s.TotalCosts
	}
	return s
}
