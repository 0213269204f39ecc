package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/analysis"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"github.com/shopspring/decimal"
)

// TimelineHeader is the column layout of a timeline export.
var TimelineHeader = []string{
	"year", "revenue_collected", "gdp_benefit", "total_benefits",
	"total_costs", "net_benefit", "cumulative_npv",
}

// SensitivityHeader is the column layout of a sensitivity export.
var SensitivityHeader = []string{
	"parameter", "low_value", "high_value", "low_npv", "high_npv", "base_npv", "swing",
}

func amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(constants.CurrencyPlaces)
}

func ratio(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(constants.RatioPlaces)
}

func timelineRecord(entry costbenefit.TimelineEntry) []string {
	return []string{
		strconv.Itoa(entry.Year),
		amount(entry.RevenueCollected),
		amount(entry.GDPBenefit),
		amount(entry.TotalBenefits),
		amount(entry.TotalCosts),
		amount(entry.NetBenefit),
		amount(entry.CumulativeNPV),
	}
}

// WriteTimelineCSV writes a single timeline. Amounts are in billions rounded to
// three decimals.
func WriteTimelineCSV(w io.Writer, timeline []costbenefit.TimelineEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TimelineHeader); err != nil {
		return fmt.Errorf("unable to write csv header: %w", err)
	}
	for _, entry := range timeline {
		if err := cw.Write(timelineRecord(entry)); err != nil {
			return fmt.Errorf("unable to write csv row for %d: %w", entry.Year, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteScenariosCSV writes every projection's timeline with a leading scenario column.
func WriteScenariosCSV(w io.Writer, projections []analysis.Projection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"scenario"}, TimelineHeader...)); err != nil {
		return fmt.Errorf("unable to write csv header: %w", err)
	}
	for _, p := range projections {
		for _, entry := range p.Result.Timeline {
			if err := cw.Write(append([]string{p.Scenario.Name}, timelineRecord(entry)...)); err != nil {
				return fmt.Errorf("unable to write csv row for %s %d: %w", p.Scenario.Name, entry.Year, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSensitivityCSV writes the rows of a sensitivity report.
func WriteSensitivityCSV(w io.Writer, report analysis.SensitivityReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SensitivityHeader); err != nil {
		return fmt.Errorf("unable to write csv header: %w", err)
	}
	for _, row := range report.Rows {
		record := []string{
			row.Parameter,
			ratio(row.LowValue),
			ratio(row.HighValue),
			amount(row.LowNPV),
			amount(row.HighNPV),
			amount(row.BaseNPV),
			amount(row.Swing),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("unable to write csv row for %s: %w", row.Parameter, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString renders a timeline export as a string.
func CsvString(timeline []costbenefit.TimelineEntry) (string, error) {
	var buf bytes.Buffer
	if err := WriteTimelineCSV(&buf, timeline); err != nil {
		return "", err
	}
	return buf.String(), nil
}
