// Package output provides utilities for formatting and displaying projection results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/analysis"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/format"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/revenue"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WritePretty writes each projection followed by a comparison table when there
// is more than one.
func WritePretty(w io.Writer, projections []analysis.Projection) {
	for i, p := range projections {
		writeProjection(w, p)
		if i < len(projections)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
	if len(projections) > 1 {
		_, _ = fmt.Fprintf(w, "\n")
		WriteComparison(w, analysis.Compare(projections))
	}
}

func writeProjection(w io.Writer, p analysis.Projection) {
	printer := message.NewPrinter(language.English)
	r := p.Result

	_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", p.Scenario.Name)
	if p.Scenario.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n", p.Scenario.Description)
	}
	if len(p.Parameters.Individuals) > 0 {
		writePopulation(w, population.Summarize(p.Parameters.Individuals))
	}

	_, _ = fmt.Fprintf(w, "\nRevenue (%s mode)\n", r.Revenue.Mode)
	writeWaterfall(w, revenue.Waterfall(r.Revenue))

	mig := r.Migration
	_, _ = fmt.Fprintf(w, "\nMigration\n")
	_, _ = printer.Fprintf(w, "  Departures:           %.2f of %d (%s)\n",
		mig.Departures.EstimatedDepartures, mig.Departures.PopulationCount,
		format.Percent(mig.Departures.DepartureRate, 2))
	_, _ = fmt.Fprintf(w, "  Income tax loss:      %s/yr\n", format.Millions(mig.Annual.IncomeTaxLoss))
	_, _ = fmt.Fprintf(w, "  Firm-level loss:      %s/yr\n", format.Millions(mig.Annual.FirmLevelLoss))
	_, _ = fmt.Fprintf(w, "  VC ecosystem loss:    %s/yr\n", format.Millions(mig.Annual.VCEcosystemLoss))

	sp := r.Spending
	_, _ = fmt.Fprintf(w, "\nSpending\n")
	_, _ = fmt.Fprintf(w, "  Healthcare:           %s (%s person-years)\n",
		format.Billions(sp.Healthcare.TotalSpending), format.Count(sp.Healthcare.OutcomeCount))
	_, _ = fmt.Fprintf(w, "  Education:            %s (%s teacher position-years)\n",
		format.Billions(sp.Education.TotalSpending), format.Count(sp.Education.OutcomeCount))
	_, _ = fmt.Fprintf(w, "  Food assistance:      %s (%s household-years)\n",
		format.Billions(sp.FoodAssistance.TotalSpending), format.Count(sp.FoodAssistance.OutcomeCount))
	_, _ = printer.Fprintf(w, "  GDP impact:           %s (multiplier %.2f)\n",
		format.Billions(sp.TotalGDPImpact), sp.WeightedAvgMultiplier)

	_, _ = fmt.Fprintf(w, "\n")
	WriteTimeline(w, r.Timeline)

	_, _ = fmt.Fprintf(w, "\n")
	writeSummary(w, r.Summary)

	for _, warning := range r.Warnings {
		_, _ = fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
}

func writePopulation(w io.Writer, s population.Summary) {
	_, _ = fmt.Fprintf(w, "\nPopulation (%d individuals)\n", s.Count)
	_, _ = fmt.Fprintf(w, "  Total wealth:         %s\n", format.Billions(s.TotalWealth))
	_, _ = fmt.Fprintf(w, "  Median:               %s\n", format.Billions(s.Median))
	_, _ = fmt.Fprintf(w, "  Mean:                 %s\n", format.Billions(s.Mean))
	_, _ = fmt.Fprintf(w, "  Range:                %s to %s\n", format.Billions(s.Min), format.Billions(s.Max))
}

func writeWaterfall(w io.Writer, steps []revenue.WaterfallStep) {
	for _, step := range steps {
		_, _ = fmt.Fprintf(w, "  %-20s %14s\n", step.Label+":", format.Billions(step.Value))
	}
}

// WriteTimeline writes the year-by-year table.
func WriteTimeline(w io.Writer, timeline []costbenefit.TimelineEntry) {
	printer := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "Year | Revenue    | GDP Benefit | Costs      | Net        | Cumulative NPV\n")
	_, _ = fmt.Fprintf(w, "____ | __________ | ___________ | __________ | __________ | ______________\n")
	for _, entry := range timeline {
		_, _ = printer.Fprintf(w, "%d | %10.3f | %11.3f | %10.3f | %10.3f | %14.3f\n",
			entry.Year, entry.RevenueCollected, entry.GDPBenefit, entry.TotalCosts,
			entry.NetBenefit, entry.CumulativeNPV)
	}
}

func writeSummary(w io.Writer, s costbenefit.Summary) {
	breakeven := "never"
	if s.BreakevenYear != nil {
		breakeven = fmt.Sprintf("%d", *s.BreakevenYear)
	}
	_, _ = fmt.Fprintf(w, "Total benefits:        %s\n", format.Billions(s.TotalBenefits))
	_, _ = fmt.Fprintf(w, "Total costs:           %s\n", format.Billions(s.TotalCosts))
	_, _ = fmt.Fprintf(w, "Net benefit:           %s\n", format.Billions(s.NetBenefit))
	_, _ = fmt.Fprintf(w, "NPV (%s, %d yrs):    %s\n", format.Percent(s.DiscountRate, 1), s.HorizonYears, format.Billions(s.NPV))
	_, _ = fmt.Fprintf(w, "Benefit-cost ratio:    %s\n", format.Ratio(s.BenefitCostRatio))
	_, _ = fmt.Fprintf(w, "Breakeven year:        %s\n", breakeven)
}

// WriteComparison writes the side-by-side scenario table.
func WriteComparison(w io.Writer, rows []analysis.ComparisonRow) {
	width := len("Scenario")
	for _, row := range rows {
		if len(row.Scenario) > width {
			width = len(row.Scenario)
		}
	}

	_, _ = fmt.Fprintf(w, "--- Scenario comparison ---\n")
	_, _ = fmt.Fprintf(w, "%-*s | Net Revenue | Departures | Migration/yr | GDP Impact | NPV        | BCR     | Breakeven\n", width, "Scenario")
	_, _ = fmt.Fprintf(w, "%s | ___________ | __________ | ____________ | __________ | __________ | _______ | _________\n", strings.Repeat("_", width))
	for _, row := range rows {
		breakeven := "never"
		if row.Summary.BreakevenYear != nil {
			breakeven = fmt.Sprintf("%d", *row.Summary.BreakevenYear)
		}
		_, _ = fmt.Fprintf(w, "%-*s | %11s | %10.2f | %12s | %10s | %10s | %7s | %s\n",
			width, row.Scenario,
			format.Billions(row.NetRevenue),
			row.Departures,
			format.Millions(row.AnnualMigration),
			format.Billions(row.TotalGDPImpact),
			format.Billions(row.Summary.NPV),
			format.Ratio(row.Summary.BenefitCostRatio),
			breakeven,
		)
	}
}

// WriteSensitivity writes the tornado table, widest swing first.
func WriteSensitivity(w io.Writer, report analysis.SensitivityReport) {
	printer := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "--- Sensitivity for scenario %s ---\n", report.Scenario)
	_, _ = fmt.Fprintf(w, "Base NPV: %s\n", format.Billions(report.BaseNPV))
	_, _ = fmt.Fprintf(w, "Parameter               | Low      | High     | NPV @ Low    | NPV @ High   | Swing\n")
	_, _ = fmt.Fprintf(w, "_______________________ | ________ | ________ | ____________ | ____________ | ____________\n")
	for _, row := range report.Rows {
		_, _ = printer.Fprintf(w, "%-23s | %8.3f | %8.3f | %12s | %12s | %12s\n",
			row.Parameter, row.LowValue, row.HighValue,
			format.Billions(row.LowNPV), format.Billions(row.HighNPV), format.Billions(row.Swing))
	}
}
