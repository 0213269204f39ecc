package revenue

import (
	"fmt"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/format"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/validation"
)

// CollectionEntry holds the amounts collected in one year of the schedule.
type CollectionEntry struct {
	Year             int     `json:"year"`
	YearOffset       int     `json:"yearOffset"`
	LumpSum          float64 `json:"lumpSum"`
	Installment      float64 `json:"installment"`
	Interest         float64 `json:"interest"`
	Total            float64 `json:"total"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// CollectionTimeline spreads net revenue over years: the non-installment share is
// collected in full in the first year, the installment share in equal principal
// payments. Interest accrues on the balance outstanding at the start of each year.
func CollectionTimeline(netRevenue, installmentFraction, interestRate float64, years, startYear int) ([]CollectionEntry, error) {
	if err := validation.First(
		validation.PositiveInt("installmentYears", years),
		validation.Fraction("installmentFraction", installmentFraction),
	); err != nil {
		return nil, fmt.Errorf("collection timeline: %w", err)
	}

	lumpSum := netRevenue * (1 - installmentFraction)
	balance := netRevenue * installmentFraction
	principal := balance / float64(years)

	schedule := make([]CollectionEntry, 0, years)
	for i := 0; i < years; i++ {
		entry := CollectionEntry{
			Year:        startYear + i,
			YearOffset:  i,
			Installment: principal,
			Interest:    balance * interestRate,
		}
		if i == 0 {
			entry.LumpSum = lumpSum
		}
		balance -= principal
		entry.RemainingBalance = balance
		entry.Total = entry.LumpSum + entry.Installment + entry.Interest
		schedule = append(schedule, entry)
	}
	return schedule, nil
}

// WaterfallStep is one bar of the revenue waterfall.
type WaterfallStep struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Kind    string  `json:"kind"`
	Running float64 `json:"running"`
}

// Waterfall kinds.
const (
	StepTotal    = "total"
	StepSubtotal = "subtotal"
	StepDecrease = "decrease"
)

// Waterfall breaks a Result down from gross wealth to net revenue.
func Waterfall(r Result) []WaterfallStep {
	steps := []WaterfallStep{
		{Label: "Gross Wealth", Value: r.GrossWealth, Kind: StepTotal},
		{Label: "Exclusions", Value: -r.TotalExclusions, Kind: StepDecrease},
		{Label: "Taxable Wealth", Value: r.TaxableWealth, Kind: StepSubtotal},
		{Label: "Tax @ " + format.Percent(r.StatutoryRate, 0), Value: -(r.TaxableWealth - r.GrossTax), Kind: StepDecrease},
		{Label: "Gross Tax", Value: r.GrossTax, Kind: StepSubtotal},
		{Label: "Non-compliance", Value: -r.Uncollected, Kind: StepDecrease},
		{Label: "Admin Costs", Value: -r.AdminCost, Kind: StepDecrease},
		{Label: "Net Revenue", Value: r.NetRevenue, Kind: StepTotal},
	}

	running := 0.0
	for i := range steps {
		if steps[i].Kind == StepDecrease {
			running += steps[i].Value
		} else {
			running = steps[i].Value
		}
		steps[i].Running = running
	}
	return steps
}
