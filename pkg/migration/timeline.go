package migration

import (
	"fmt"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/validation"
)

// Costs are the migration cost streams for one year, in billions.
type Costs struct {
	IncomeTaxLoss   float64 `json:"incomeTaxLoss"`
	FirmLevelLoss   float64 `json:"firmLevelLoss"`
	VCEcosystemLoss float64 `json:"vcEcosystemLoss"`
}

// Total sums the three streams.
func (c Costs) Total() float64 {
	return c.IncomeTaxLoss + c.FirmLevelLoss + c.VCEcosystemLoss
}

// Scale multiplies every stream by factor.
func (c Costs) Scale(factor float64) Costs {
	return Costs{
		IncomeTaxLoss:   c.IncomeTaxLoss * factor,
		FirmLevelLoss:   c.FirmLevelLoss * factor,
		VCEcosystemLoss: c.VCEcosystemLoss * factor,
	}
}

// TimelineEntry is one year of migration costs.
type TimelineEntry struct {
	Year       int `json:"year"`
	YearOffset int `json:"yearOffset"`
	Costs
	TotalLoss      float64 `json:"totalLoss"`
	CumulativeLoss float64 `json:"cumulativeLoss"`
}

// Result bundles the departure estimate, each cost component and the timeline.
type Result struct {
	Departures     DepartureEstimate `json:"departures"`
	IncomeTax      IncomeTaxLoss     `json:"incomeTax"`
	Firm           FirmImpact        `json:"firm"`
	VC             VCImpact          `json:"vc"`
	Annual         Costs             `json:"annual"`
	AnnualTotal    float64           `json:"annualTotal"`
	CumulativeCost float64           `json:"cumulativeCost"`
	Timeline       []TimelineEntry   `json:"timeline"`
}

// CostsForYear resolves the costs for a year offset. It returns the timeline
// entry and true when offset falls inside the timeline, otherwise the
// steady-state annual costs and false.
func (r Result) CostsForYear(offset int) (Costs, bool) {
	if offset >= 0 && offset < len(r.Timeline) {
		return r.Timeline[offset].Costs, true
	}
	return r.Annual, false
}

// TotalCosts estimates departures and builds the cost timeline over horizonYears.
// The first year carries half of each annual stream.
func TotalCosts(pop population.Aggregate, statutoryRate float64, params Parameters, horizonYears, startYear int) (Result, error) {
	if err := validation.First(
		params.Validate(),
		validation.PositiveInt("horizonYears", horizonYears),
	); err != nil {
		return Result{}, fmt.Errorf("migration costs: %w", err)
	}

	departures, err := EstimateDepartures(pop.Count, params.Elasticity, statutoryRate,
		params.OneTimeAdjustment, params.AntiAvoidanceDiscount)
	if err != nil {
		return Result{}, fmt.Errorf("migration costs: %w", err)
	}

	n := departures.EstimatedDepartures
	res := Result{
		Departures: departures,
		IncomeTax:  AnnualIncomeTaxLoss(n, params.AvgIncomeTaxMillions),
		Firm:       FirmLevelEffects(n, pop.AvgWealth(), params.FirmEffects, params.FirmEffectDiscount),
		VC: VCEcosystemImpact(n, pop.Count, params.AnnualVCInvestment,
			params.BillionaireVCShare, params.VCMultiplier),
	}
	// The cost stream carries lost VC itself; the multiplied impact is reported only.
	res.Annual = Costs{
		IncomeTaxLoss:   res.IncomeTax.AnnualLoss,
		FirmLevelLoss:   res.Firm.EstimatedRevenueLoss,
		VCEcosystemLoss: res.VC.LostVC,
	}
	res.AnnualTotal = res.Annual.Total()

	res.Timeline = make([]TimelineEntry, 0, horizonYears)
	cumulative := 0.0
	for i := 0; i < horizonYears; i++ {
		costs := res.Annual
		if i == 0 {
			costs = costs.Scale(FirstYearFraction)
		}
		total := costs.Total()
		cumulative += total
		res.Timeline = append(res.Timeline, TimelineEntry{
			Year:           startYear + i,
			YearOffset:     i,
			Costs:          costs,
			TotalLoss:      total,
			CumulativeLoss: cumulative,
		})
	}
	res.CumulativeCost = cumulative
	return res, nil
}
