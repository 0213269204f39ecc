// Package migration estimates departures triggered by the tax and the recurring
// costs they impose: lost income tax, firm-level losses and VC ecosystem losses.
package migration

import (
	"fmt"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/mathutil"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/validation"
)

const (
	// OneTimeToAnnualFactor converts a one-time levy into an equivalent annual
	// rate spread over five years.
	OneTimeToAnnualFactor = 0.2

	// FirmRevenueShare is average firm revenue per departer as a fraction of
	// average wealth.
	FirmRevenueShare = 0.05

	// FirstYearFraction is the share of annual costs booked in the first year.
	FirstYearFraction = 0.5
)

// FirmEffects are percentage changes observed at firms whose owner departed,
// expressed as negative fractions.
type FirmEffects struct {
	Employment float64 `json:"employment"`
	ValueAdded float64 `json:"valueAdded"`
	TaxPayment float64 `json:"taxPayment"`
}

// Scale multiplies every effect by factor.
func (f FirmEffects) Scale(factor float64) FirmEffects {
	return FirmEffects{
		Employment: f.Employment * factor,
		ValueAdded: f.ValueAdded * factor,
		TaxPayment: f.TaxPayment * factor,
	}
}

// Parameters drive the migration response.
type Parameters struct {
	Elasticity            float64     `json:"elasticity"`
	OneTimeAdjustment     bool        `json:"oneTimeAdjustment"`
	AntiAvoidanceDiscount float64     `json:"antiAvoidanceDiscount"`
	AvgIncomeTaxMillions  float64     `json:"avgIncomeTaxMillions"`
	FirmEffectDiscount    float64     `json:"firmEffectDiscount"`
	FirmEffects           FirmEffects `json:"firmEffects"`
	AnnualVCInvestment    float64     `json:"annualVCInvestment"`
	BillionaireVCShare    float64     `json:"billionaireVCShare"`
	VCMultiplier          float64     `json:"vcMultiplier"`
}

// Validate rejects parameter values outside their domain. The adjusted rate
// bound is checked by EstimateDepartures since it depends on the statutory rate.
func (p Parameters) Validate() error {
	return validation.First(
		validation.NonNegative("elasticity", p.Elasticity),
		validation.Fraction("antiAvoidanceDiscount", p.AntiAvoidanceDiscount),
		validation.NonNegative("avgIncomeTaxMillions", p.AvgIncomeTaxMillions),
		validation.Fraction("firmEffectDiscount", p.FirmEffectDiscount),
		validation.NonNegative("annualVCInvestment", p.AnnualVCInvestment),
		validation.Fraction("billionaireVCShare", p.BillionaireVCShare),
		validation.NonNegative("vcMultiplier", p.VCMultiplier),
	)
}

// DepartureEstimate is the expected number of departures and how it was derived.
type DepartureEstimate struct {
	PopulationCount       int     `json:"populationCount"`
	Elasticity            float64 `json:"elasticity"`
	StatutoryRate         float64 `json:"statutoryRate"`
	EffectiveAnnualRate   float64 `json:"effectiveAnnualRate"`
	OneTimeAdjusted       bool    `json:"oneTimeAdjusted"`
	PctChangeNetOfTax     float64 `json:"pctChangeNetOfTax"`
	RawDepartures         float64 `json:"rawDepartures"`
	AntiAvoidanceDiscount float64 `json:"antiAvoidanceDiscount"`
	EstimatedDepartures   float64 `json:"estimatedDepartures"`
	DepartureRate         float64 `json:"departureRate"`
}

// EstimateDepartures applies the net-of-tax elasticity to the population and
// discounts the result for anti-avoidance provisions. The estimate is clamped
// to [0, count].
func EstimateDepartures(count int, elasticity, statutoryRate float64, oneTime bool, antiAvoidance float64) (DepartureEstimate, error) {
	if err := validation.First(
		validation.NonNegative("elasticity", elasticity),
		validation.Fraction("antiAvoidanceDiscount", antiAvoidance),
	); err != nil {
		return DepartureEstimate{}, err
	}
	if count < 0 {
		return DepartureEstimate{}, validation.Invalid("population.count", float64(count), "must not be negative")
	}

	rate := statutoryRate
	if oneTime {
		rate *= OneTimeToAnnualFactor
	}
	if rate >= 1 {
		return DepartureEstimate{}, validation.Invalid("statutoryRate", statutoryRate,
			fmt.Sprintf("adjusted annual rate %v must stay below 1", rate))
	}

	pct := rate / (1 - rate)
	raw := float64(count) * elasticity * pct
	estimated := mathutil.Clamp(raw*(1-antiAvoidance), 0, float64(count))

	return DepartureEstimate{
		PopulationCount:       count,
		Elasticity:            elasticity,
		StatutoryRate:         statutoryRate,
		EffectiveAnnualRate:   rate,
		OneTimeAdjusted:       oneTime,
		PctChangeNetOfTax:     pct,
		RawDepartures:         raw,
		AntiAvoidanceDiscount: antiAvoidance,
		EstimatedDepartures:   estimated,
		DepartureRate:         mathutil.SafeDivide(estimated, float64(count), 0),
	}, nil
}

// IncomeTaxLoss is the state income tax no longer paid by departers each year.
type IncomeTaxLoss struct {
	Departures           float64 `json:"departures"`
	AvgIncomeTaxMillions float64 `json:"avgIncomeTaxMillions"`
	AnnualLossMillions   float64 `json:"annualLossMillions"`
	AnnualLoss           float64 `json:"annualLoss"`
}

// AnnualIncomeTaxLoss scales the average income tax per departer.
func AnnualIncomeTaxLoss(departures, avgIncomeTaxMillions float64) IncomeTaxLoss {
	lossM := departures * avgIncomeTaxMillions
	return IncomeTaxLoss{
		Departures:           departures,
		AvgIncomeTaxMillions: avgIncomeTaxMillions,
		AnnualLossMillions:   lossM,
		AnnualLoss:           lossM / constants.MillionsPerBillion,
	}
}

// FirmImpact is the annual economic loss at firms owned by departers.
type FirmImpact struct {
	Departures           float64     `json:"departures"`
	AvgFirmRevenue       float64     `json:"avgFirmRevenue"`
	TotalAffectedRevenue float64     `json:"totalAffectedRevenue"`
	RawEffects           FirmEffects `json:"rawEffects"`
	AdjustedEffects      FirmEffects `json:"adjustedEffects"`
	Discount             float64     `json:"discount"`
	EstimatedRevenueLoss float64     `json:"estimatedRevenueLoss"`
}

// FirmLevelEffects discounts the observed firm effects and applies the adjusted
// value-added change to the revenue of affected firms.
func FirmLevelEffects(departures, avgWealth float64, effects FirmEffects, discount float64) FirmImpact {
	firmRevenue := avgWealth * FirmRevenueShare
	affected := departures * firmRevenue
	adjusted := effects.Scale(1 - discount)

	loss := affected * adjusted.ValueAdded
	if loss < 0 {
		loss = -loss
	}

	return FirmImpact{
		Departures:           departures,
		AvgFirmRevenue:       firmRevenue,
		TotalAffectedRevenue: affected,
		RawEffects:           effects,
		AdjustedEffects:      adjusted,
		Discount:             discount,
		EstimatedRevenueLoss: loss,
	}
}

// VCImpact is the venture capital no longer invested by departers each year.
type VCImpact struct {
	DepartureRate       float64 `json:"departureRate"`
	BillionaireVCTotal  float64 `json:"billionaireVCTotal"`
	LostVC              float64 `json:"lostVC"`
	Multiplier          float64 `json:"multiplier"`
	TotalEconomicImpact float64 `json:"totalEconomicImpact"`
}

// VCEcosystemImpact scales the population's VC share by the departure rate.
// A zero population yields a zero departure rate.
func VCEcosystemImpact(departures float64, count int, annualVC, share, multiplier float64) VCImpact {
	rate := 0.0
	if count > 0 {
		rate = departures / float64(count)
	}
	total := annualVC * share
	lost := total * rate

	return VCImpact{
		DepartureRate:       rate,
		BillionaireVCTotal:  total,
		LostVC:              lost,
		Multiplier:          multiplier,
		TotalEconomicImpact: lost * multiplier,
	}
}
