package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/analysis"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
)

func sampleTimeline() []costbenefit.TimelineEntry {
	return []costbenefit.TimelineEntry{
		{
			Year:             2027,
			RevenueCollected: 50.5,
			GDPBenefit:       12.25,
			TotalBenefits:    62.75,
			TotalCosts:       0.2,
			NetBenefit:       62.55,
			CumulativeNPV:    62.55,
		},
		{
			Year:             2028,
			RevenueCollected: 10.0004,
			GDPBenefit:       12.25,
			TotalBenefits:    22.2504,
			TotalCosts:       0.3,
			NetBenefit:       21.9504,
			CumulativeNPV:    83.8612,
		},
	}
}

func TestWriteTimelineCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTimelineCSV(&buf, sampleTimeline()); err != nil {
		t.Fatalf("WriteTimelineCSV() error = %v", err)
	}

	expected := "year,revenue_collected,gdp_benefit,total_benefits,total_costs,net_benefit,cumulative_npv\n" +
		"2027,50.500,12.250,62.750,0.200,62.550,62.550\n" +
		"2028,10.000,12.250,22.250,0.300,21.950,83.861\n"
	if buf.String() != expected {
		t.Errorf("WriteTimelineCSV() =\n%s\nexpected\n%s", buf.String(), expected)
	}
}

func TestCsvString(t *testing.T) {
	got, err := CsvString(nil)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if got != strings.Join(TimelineHeader, ",")+"\n" {
		t.Errorf("CsvString(nil) = %q, expected header only", got)
	}
}

func TestWriteScenariosCSV(t *testing.T) {
	conf := config.Default()
	results := []analysis.Projection{
		{Scenario: conf.Scenarios[0], Result: costbenefit.Result{Timeline: sampleTimeline()}},
		{Scenario: conf.Scenarios[1], Result: costbenefit.Result{Timeline: sampleTimeline()[:1]}},
	}

	var buf bytes.Buffer
	if err := WriteScenariosCSV(&buf, results); err != nil {
		t.Fatalf("WriteScenariosCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[0][0] != "scenario" || records[0][1] != "year" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][0] != "optimistic" || records[3][0] != "baseline" {
		t.Errorf("unexpected scenario column %q, %q", records[1][0], records[3][0])
	}
	if records[2][1] != "2028" || records[2][2] != "10.000" {
		t.Errorf("unexpected row %v", records[2])
	}
}

func TestWriteSensitivityCSV(t *testing.T) {
	report := analysis.SensitivityReport{
		Scenario: "baseline",
		Rows: []costbenefit.SensitivityRow{
			{Parameter: "discountRate", LowValue: 0.01, HighValue: 0.05, LowNPV: 120.1234, HighNPV: 100, BaseNPV: 110, Swing: 20.1234},
		},
	}

	var buf bytes.Buffer
	if err := WriteSensitivityCSV(&buf, report); err != nil {
		t.Fatalf("WriteSensitivityCSV() error = %v", err)
	}

	expected := "parameter,low_value,high_value,low_npv,high_npv,base_npv,swing\n" +
		"discountRate,0.0100,0.0500,120.123,100.000,110.000,20.123\n"
	if buf.String() != expected {
		t.Errorf("WriteSensitivityCSV() = %q, expected %q", buf.String(), expected)
	}
}
