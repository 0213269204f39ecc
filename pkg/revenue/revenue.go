// Package revenue estimates one-time wealth tax revenue: per-record phase-in,
// exclusions, compliance, administrative cost and the installment collection
// schedule.
package revenue

import (
	"fmt"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/validation"
)

// Mode identifies how a Result was estimated.
type Mode string

const (
	// ModeAggregate treats the whole population as above the phase-in ceiling.
	ModeAggregate Mode = "aggregate"
	// ModeIndividual applies phase-in and exclusions per record.
	ModeIndividual Mode = "individual"
)

// RateSchedule is the statutory rate and its linear phase-in band, in billions.
type RateSchedule struct {
	StatutoryRate float64
	Floor         float64
	Ceiling       float64
}

// Exclusions are fractions of net worth excluded from the taxable base.
type Exclusions struct {
	RealEstate float64
	Pension    float64
}

// Total is the combined excluded fraction. It is not capped at one.
func (e Exclusions) Total() float64 {
	return e.RealEstate + e.Pension
}

// TaxParameters fully determine a revenue estimate.
type TaxParameters struct {
	StatutoryRate           float64 `json:"statutoryRate"`
	PhaseInFloor            float64 `json:"phaseInFloor"`
	PhaseInCeiling          float64 `json:"phaseInCeiling"`
	RealEstateExclusion     float64 `json:"realEstateExclusion"`
	PensionExclusion        float64 `json:"pensionExclusion"`
	ComplianceRate          float64 `json:"complianceRate"`
	AdminCostMillions       float64 `json:"adminCostMillions"`
	InstallmentFraction     float64 `json:"installmentFraction"`
	InstallmentYears        int     `json:"installmentYears"`
	InstallmentInterestRate float64 `json:"installmentInterestRate"`
}

// Schedule returns the rate schedule portion of the parameters.
func (p TaxParameters) Schedule() RateSchedule {
	return RateSchedule{StatutoryRate: p.StatutoryRate, Floor: p.PhaseInFloor, Ceiling: p.PhaseInCeiling}
}

// Exclusions returns the policy-wide exclusion fractions.
func (p TaxParameters) Exclusions() Exclusions {
	return Exclusions{RealEstate: p.RealEstateExclusion, Pension: p.PensionExclusion}
}

// AdminCost returns the administrative cost in billions.
func (p TaxParameters) AdminCost() float64 {
	return p.AdminCostMillions / constants.MillionsPerBillion
}

// Validate rejects parameter values for which the estimate is undefined.
func (p TaxParameters) Validate() error {
	if p.PhaseInFloor >= p.PhaseInCeiling {
		return validation.Invalid("phaseInFloor", p.PhaseInFloor,
			fmt.Sprintf("must be below phaseInCeiling (%v)", p.PhaseInCeiling))
	}
	return validation.First(
		validation.Fraction("statutoryRate", p.StatutoryRate),
		validation.NonNegative("realEstateExclusion", p.RealEstateExclusion),
		validation.NonNegative("pensionExclusion", p.PensionExclusion),
		validation.Fraction("complianceRate", p.ComplianceRate),
		validation.NonNegative("adminCostMillions", p.AdminCostMillions),
		validation.Fraction("installmentFraction", p.InstallmentFraction),
		validation.PositiveInt("installmentYears", p.InstallmentYears),
		validation.NonNegative("installmentInterestRate", p.InstallmentInterestRate),
	)
}

// Warnings reports accepted but questionable parameter combinations.
func (p TaxParameters) Warnings() []string {
	var warnings []string
	if msg := validation.FractionSumWarning("exclusion", false, p.RealEstateExclusion, p.PensionExclusion); msg != "" {
		warnings = append(warnings, msg+"; taxable wealth will be negative")
	}
	return warnings
}

// Individual is the tax computed for one net worth.
type Individual struct {
	NetWorth          float64 `json:"netWorth"`
	ExclusionFraction float64 `json:"exclusionFraction"`
	ExclusionAmount   float64 `json:"exclusionAmount"`
	TaxableWealth     float64 `json:"taxableWealth"`
	EffectiveRate     float64 `json:"effectiveRate"`
	TaxOwed           float64 `json:"taxOwed"`
}

// Result is a revenue estimate. All amounts are in billions.
type Result struct {
	Mode              Mode    `json:"mode"`
	Count             int     `json:"count"`
	GrossWealth       float64 `json:"grossWealth"`
	TotalExclusions   float64 `json:"totalExclusions"`
	TaxableWealth     float64 `json:"taxableWealth"`
	StatutoryRate     float64 `json:"statutoryRate"`
	GrossTax          float64 `json:"grossTax"`
	ComplianceRate    float64 `json:"complianceRate"`
	ExpectedCollected float64 `json:"expectedCollected"`
	Uncollected       float64 `json:"uncollected"`
	AdminCost         float64 `json:"adminCost"`
	NetRevenue        float64 `json:"netRevenue"`
}

// EffectiveRate applies the linear phase-in: zero at or below floor, the full
// statutory rate at or above ceiling.
func EffectiveRate(netWorth, statutoryRate, floor, ceiling float64) float64 {
	switch {
	case netWorth <= floor:
		return 0
	case netWorth >= ceiling:
		return statutoryRate
	}
	return statutoryRate * (netWorth - floor) / (ceiling - floor)
}

// IndividualTax computes the tax owed on one net worth. Exclusions summing
// above one produce negative taxable wealth.
func IndividualTax(netWorth float64, schedule RateSchedule, exclusions Exclusions) Individual {
	excluded := exclusions.Total()
	taxable := netWorth * (1 - excluded)
	rate := EffectiveRate(netWorth, schedule.StatutoryRate, schedule.Floor, schedule.Ceiling)

	return Individual{
		NetWorth:          netWorth,
		ExclusionFraction: excluded,
		ExclusionAmount:   netWorth * excluded,
		TaxableWealth:     taxable,
		EffectiveRate:     rate,
		TaxOwed:           taxable * rate,
	}
}

// EstimateAggregate estimates revenue from a count and total wealth, assuming
// every member sits at or above the phase-in ceiling. This overstates revenue
// relative to EstimateIndividuals when members fall inside the phase-in band.
func EstimateAggregate(pop population.Aggregate, params TaxParameters) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, fmt.Errorf("aggregate revenue: %w", err)
	}
	if pop.Count < 0 {
		return Result{}, fmt.Errorf("aggregate revenue: %w",
			validation.Invalid("population.count", float64(pop.Count), "must not be negative"))
	}

	excluded := params.Exclusions().Total()
	taxable := pop.TotalWealth * (1 - excluded)

	res := Result{
		Mode:            ModeAggregate,
		Count:           pop.Count,
		GrossWealth:     pop.TotalWealth,
		TotalExclusions: pop.TotalWealth * excluded,
		TaxableWealth:   taxable,
		GrossTax:        taxable * params.StatutoryRate,
	}
	return collect(res, params), nil
}

// EstimateIndividuals estimates revenue record by record. A record's
// RealEstateExclusion overrides the policy-wide real estate fraction.
func EstimateIndividuals(records []population.Individual, params TaxParameters) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, fmt.Errorf("individual revenue: %w", err)
	}

	schedule := params.Schedule()
	res := Result{Mode: ModeIndividual, Count: len(records)}
	for _, rec := range records {
		excl := params.Exclusions()
		if rec.RealEstateExclusion != nil {
			excl.RealEstate = *rec.RealEstateExclusion
		}
		tax := IndividualTax(rec.NetWorth, schedule, excl)
		res.GrossWealth += tax.NetWorth
		res.TotalExclusions += tax.ExclusionAmount
		res.TaxableWealth += tax.TaxableWealth
		res.GrossTax += tax.TaxOwed
	}
	return collect(res, params), nil
}

func collect(res Result, params TaxParameters) Result {
	res.StatutoryRate = params.StatutoryRate
	res.ComplianceRate = params.ComplianceRate
	res.ExpectedCollected = res.GrossTax * params.ComplianceRate
	res.Uncollected = res.GrossTax * (1 - params.ComplianceRate)
	res.AdminCost = params.AdminCost()
	res.NetRevenue = res.ExpectedCollected - res.AdminCost
	return res
}
