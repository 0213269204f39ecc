// Package population describes the taxed population, either as an aggregate
// (count and total wealth) or as individual net-worth records.
package population

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// Aggregate summarizes a population by headcount and total wealth in billions.
type Aggregate struct {
	Count       int     `json:"count" yaml:"count" mapstructure:"count"`
	TotalWealth float64 `json:"totalWealth" yaml:"totalWealth" mapstructure:"totalWealth"`
}

// AvgWealth returns TotalWealth / Count, or 0 for an empty population.
func (a Aggregate) AvgWealth() float64 {
	if a.Count <= 0 {
		return 0
	}
	return a.TotalWealth / float64(a.Count)
}

// Individual is one record of the population. RealEstateExclusion overrides the
// policy-wide real estate exclusion fraction when set.
type Individual struct {
	Name                string   `json:"name"`
	NetWorth            float64  `json:"net_worth_b"`
	Industry            string   `json:"industry,omitempty"`
	RealEstateExclusion *float64 `json:"estimated_re_pct,omitempty"`
}

// Dataset is the on-disk layout of an individual-level population file.
type Dataset struct {
	Source      string       `json:"source,omitempty"`
	Individuals []Individual `json:"billionaires"`
}

// Summary holds descriptive statistics of individual net worth.
type Summary struct {
	Count       int     `json:"count"`
	TotalWealth float64 `json:"totalWealth"`
	Median      float64 `json:"median"`
	Mean        float64 `json:"mean"`
	Max         float64 `json:"max"`
	Min         float64 `json:"min"`
}

// AggregateOf collapses individual records into an Aggregate.
func AggregateOf(individuals []Individual) Aggregate {
	agg := Aggregate{Count: len(individuals)}
	for _, ind := range individuals {
		agg.TotalWealth += ind.NetWorth
	}
	return agg
}

// Summarize computes descriptive statistics for the records.
func Summarize(individuals []Individual) Summary {
	if len(individuals) == 0 {
		return Summary{}
	}

	worths := make([]float64, len(individuals))
	total := 0.0
	for i, ind := range individuals {
		worths[i] = ind.NetWorth
		total += ind.NetWorth
	}
	sort.Float64s(worths)

	n := len(worths)
	median := worths[n/2]
	if n%2 == 0 {
		median = (worths[n/2-1] + worths[n/2]) / 2
	}

	return Summary{
		Count:       n,
		TotalWealth: total,
		Median:      median,
		Mean:        total / float64(n),
		Max:         worths[n-1],
		Min:         worths[0],
	}
}

// LoadIndividuals decodes a Dataset from r.
func LoadIndividuals(r io.Reader) ([]Individual, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("unable to decode population dataset: %w", err)
	}
	for i, ind := range ds.Individuals {
		if ind.NetWorth < 0 {
			return nil, fmt.Errorf("record %d (%s): negative net worth %.2f", i, ind.Name, ind.NetWorth)
		}
	}
	return ds.Individuals, nil
}

// LoadIndividualsFile reads a JSON population dataset from path.
func LoadIndividualsFile(path string) ([]Individual, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading population file, %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadIndividuals(f)
}
