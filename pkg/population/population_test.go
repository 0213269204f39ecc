package population

import (
	"math"
	"strings"
	"testing"
)

func TestAggregateAvgWealth(t *testing.T) {
	tests := []struct {
		name     string
		agg      Aggregate
		expected float64
	}{
		{"Forbes baseline", Aggregate{Count: 250, TotalWealth: 2245}, 8.98},
		{"Berkeley baseline", Aggregate{Count: 204, TotalWealth: 2190}, 2190.0 / 204},
		{"Empty population", Aggregate{Count: 0, TotalWealth: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.agg.AvgWealth(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("AvgWealth() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestLoadIndividualsFile(t *testing.T) {
	records, err := LoadIndividualsFile("testdata/individuals.json")
	if err != nil {
		t.Fatalf("LoadIndividualsFile() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[2].RealEstateExclusion == nil || *records[2].RealEstateExclusion != 0.25 {
		t.Errorf("expected record C real estate override 0.25, got %v", records[2].RealEstateExclusion)
	}
	if records[3].RealEstateExclusion != nil {
		t.Errorf("expected record D without override, got %v", *records[3].RealEstateExclusion)
	}
}

func TestLoadIndividualsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Malformed JSON", `{"billionaires": [`},
		{"Negative net worth", `{"billionaires": [{"name": "x", "net_worth_b": -1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadIndividuals(strings.NewReader(tt.input)); err == nil {
				t.Errorf("LoadIndividuals() expected error but got none")
			}
		})
	}

	if _, err := LoadIndividualsFile("testdata/missing.json"); err == nil {
		t.Error("LoadIndividualsFile() expected error for missing file")
	}
}

func TestAggregateOf(t *testing.T) {
	agg := AggregateOf([]Individual{{NetWorth: 5}, {NetWorth: 10}, {NetWorth: 20}})
	if agg.Count != 3 || agg.TotalWealth != 35 {
		t.Errorf("AggregateOf() = %+v, expected count 3 and total 35", agg)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		worths  []float64
		median  float64
		mean    float64
		max     float64
		min     float64
		isEmpty bool
	}{
		{name: "Odd count", worths: []float64{20, 5, 10}, median: 10, mean: 35.0 / 3, max: 20, min: 5},
		{name: "Even count", worths: []float64{1, 4, 2, 3}, median: 2.5, mean: 2.5, max: 4, min: 1},
		{name: "Empty", worths: nil, isEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []Individual
			for _, w := range tt.worths {
				records = append(records, Individual{NetWorth: w})
			}
			s := Summarize(records)
			if tt.isEmpty {
				if s != (Summary{}) {
					t.Errorf("Summarize(empty) = %+v, expected zero value", s)
				}
				return
			}
			if s.Count != len(tt.worths) {
				t.Errorf("Count = %d, expected %d", s.Count, len(tt.worths))
			}
			if math.Abs(s.Median-tt.median) > 1e-9 || math.Abs(s.Mean-tt.mean) > 1e-9 {
				t.Errorf("Median/Mean = %v/%v, expected %v/%v", s.Median, s.Mean, tt.median, tt.mean)
			}
			if s.Max != tt.max || s.Min != tt.min {
				t.Errorf("Max/Min = %v/%v, expected %v/%v", s.Max, s.Min, tt.max, tt.min)
			}
		})
	}
}
