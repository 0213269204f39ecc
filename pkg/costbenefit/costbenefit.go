// Package costbenefit combines revenue, migration and spending estimates into
// a discounted year-by-year timeline with summary metrics and sensitivity sweeps.
package costbenefit

import (
	"fmt"
	"math"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/migration"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/revenue"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/spending"
)

// TimelineEntry is one projected year. Amounts are in billions.
type TimelineEntry struct {
	Year             int     `json:"year"`
	YearOffset       int     `json:"yearOffset"`
	RevenueCollected float64 `json:"revenueCollected"`
	GDPBenefit       float64 `json:"gdpBenefit"`
	TotalBenefits    float64 `json:"totalBenefits"`
	AdminCost        float64 `json:"adminCost"`
	IncomeTaxLoss    float64 `json:"incomeTaxLoss"`
	FirmLoss         float64 `json:"firmLoss"`
	VCLoss           float64 `json:"vcLoss"`
	TotalCosts       float64 `json:"totalCosts"`
	NetBenefit       float64 `json:"netBenefit"`
	CumulativeNet    float64 `json:"cumulativeNet"`
	DiscountFactor   float64 `json:"discountFactor"`
	DiscountedNet    float64 `json:"discountedNet"`
	CumulativeNPV    float64 `json:"cumulativeNpv"`
}

// Result is the full output of Compute.
type Result struct {
	Revenue    revenue.Result            `json:"revenue"`
	Collection []revenue.CollectionEntry `json:"collection"`
	Migration  migration.Result          `json:"migration"`
	Spending   spending.Result           `json:"spending"`
	Timeline   []TimelineEntry           `json:"timeline"`
	Summary    Summary                   `json:"summary"`
	Warnings   []string                  `json:"warnings,omitempty"`
}

// Compute runs every engine and merges their outputs into the timeline. Either
// a complete Result or an error is returned.
func Compute(params Parameters) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, fmt.Errorf("cost-benefit: %w", err)
	}

	var (
		res Result
		err error
	)
	res.Warnings = params.Warnings()

	if len(params.Individuals) > 0 {
		res.Revenue, err = revenue.EstimateIndividuals(params.Individuals, params.Tax)
	} else {
		res.Revenue, err = revenue.EstimateAggregate(params.Population, params.Tax)
	}
	if err != nil {
		return Result{}, fmt.Errorf("cost-benefit: %w", err)
	}

	res.Collection, err = revenue.CollectionTimeline(res.Revenue.NetRevenue, params.Tax.InstallmentFraction,
		params.Tax.InstallmentInterestRate, params.Tax.InstallmentYears, params.StartYear)
	if err != nil {
		return Result{}, fmt.Errorf("cost-benefit: %w", err)
	}

	res.Migration, err = migration.TotalCosts(params.EffectivePopulation(), params.Tax.StatutoryRate,
		params.Migration, params.HorizonYears, params.StartYear)
	if err != nil {
		return Result{}, fmt.Errorf("cost-benefit: %w", err)
	}

	res.Spending, err = spending.TotalImpact(res.Revenue.NetRevenue, params.Spending)
	if err != nil {
		return Result{}, fmt.Errorf("cost-benefit: %w", err)
	}

	res.Timeline = buildTimeline(params, res)
	res.Summary = summarize(params, res.Revenue.NetRevenue, res.Timeline)
	return res, nil
}

func buildTimeline(params Parameters, res Result) []TimelineEntry {
	annualGDP := res.Spending.AnnualGDPImpact()
	timeline := make([]TimelineEntry, 0, params.HorizonYears)

	var cumulativeNet, cumulativeNPV float64
	for t := 0; t < params.HorizonYears; t++ {
		entry := TimelineEntry{Year: params.StartYear + t, YearOffset: t}

		if t < len(res.Collection) {
			entry.RevenueCollected = res.Collection[t].Total
		}
		if t < params.Spending.SpendingYears {
			entry.GDPBenefit = annualGDP
		}
		entry.TotalBenefits = entry.RevenueCollected + entry.GDPBenefit

		costs, _ := res.Migration.CostsForYear(t)
		entry.IncomeTaxLoss = costs.IncomeTaxLoss
		entry.FirmLoss = costs.FirmLevelLoss
		entry.VCLoss = costs.VCEcosystemLoss
		if t == 0 {
			entry.AdminCost = res.Revenue.AdminCost
		}
		entry.TotalCosts = costs.Total() + entry.AdminCost

		entry.NetBenefit = entry.TotalBenefits - entry.TotalCosts
		cumulativeNet += entry.NetBenefit
		entry.CumulativeNet = cumulativeNet

		entry.DiscountFactor = 1 / math.Pow(1+params.DiscountRate, float64(t))
		entry.DiscountedNet = entry.NetBenefit * entry.DiscountFactor
		cumulativeNPV += entry.DiscountedNet
		entry.CumulativeNPV = cumulativeNPV

		timeline = append(timeline, entry)
	}
	return timeline
}
