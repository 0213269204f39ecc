package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/revenue"
	"go.uber.org/zap"
)

type analysisBody struct {
	RunID    string `json:"runId"`
	Scenario string `json:"scenario"`
	Cached   bool   `json:"cached"`
	Result   struct {
		Summary struct {
			NPV           float64 `json:"npv"`
			BreakevenYear *int    `json:"breakevenYear"`
		} `json:"summary"`
		Timeline []json.RawMessage `json:"timeline"`
	} `json:"result"`
	Parameters costbenefit.Parameters  `json:"parameters"`
	Waterfall  []revenue.WaterfallStep `json:"waterfall"`
	Population *population.Summary     `json:"population"`
}

type sensitivityBody struct {
	RunID  string `json:"runId"`
	Report struct {
		Scenario string                       `json:"scenario"`
		BaseNPV  float64                      `json:"baseNpv"`
		Rows     []costbenefit.SensitivityRow `json:"rows"`
	} `json:"report"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	conf := config.Default()
	return NewHandler(zap.NewNop(), &conf, DefaultConfig(), "test")
}

func perform(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v (%s)", err, rr.Body.String())
	}
}

func TestHandleVersion(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/version", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	decodeBody(t, rr, &resp)
	if resp["version"] != "test" {
		t.Errorf("expected version test, got %q", resp["version"])
	}
	if rr.Header().Get(requestIDHeader) == "" {
		t.Errorf("expected %s header", requestIDHeader)
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	conf := config.Default()
	handler := NewHandler(nil, &conf, nil, "  ")

	var resp map[string]string
	decodeBody(t, perform(t, handler, http.MethodGet, "/api/version", ""), &resp)
	if resp["version"] != "dev" {
		t.Errorf("expected version dev, got %q", resp["version"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodPost, "/api/version", "{}")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleListScenarios(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/v1/scenarios", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp scenarioListResponse
	decodeBody(t, rr, &resp)
	if len(resp.Scenarios) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(resp.Scenarios))
	}
	if resp.Scenarios[1].Name != "baseline" || resp.Scenarios[1].Overrides.Elasticity == nil {
		t.Errorf("unexpected baseline scenario %+v", resp.Scenarios[1])
	}
}

func TestHandleScenario(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "Baseline", path: "/api/v1/scenarios/baseline", wantStatus: http.StatusOK},
		{name: "Extreme flight", path: "/api/v1/scenarios/extreme_flight", wantStatus: http.StatusOK},
		{name: "Unknown scenario", path: "/api/v1/scenarios/missing", wantStatus: http.StatusNotFound},
	}

	handler := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := perform(t, handler, http.MethodGet, tt.path, "")
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var resp map[string]string
				decodeBody(t, rr, &resp)
				if resp["error"] == "" {
					t.Errorf("expected error message in response")
				}
				return
			}

			var resp analysisBody
			decodeBody(t, rr, &resp)
			if _, err := uuid.Parse(resp.RunID); err != nil {
				t.Errorf("runId %q is not a UUID: %v", resp.RunID, err)
			}
			if len(resp.Result.Timeline) != 20 {
				t.Errorf("expected 20 timeline entries, got %d", len(resp.Result.Timeline))
			}
			if len(resp.Waterfall) != 8 || resp.Waterfall[7].Label != "Net Revenue" {
				t.Errorf("unexpected waterfall %+v", resp.Waterfall)
			}
		})
	}
}

func TestHandleScenarioBreakeven(t *testing.T) {
	var resp analysisBody
	decodeBody(t, perform(t, newTestHandler(t), http.MethodGet, "/api/v1/scenarios/baseline", ""), &resp)
	if resp.Result.Summary.BreakevenYear == nil || *resp.Result.Summary.BreakevenYear != 2027 {
		t.Errorf("expected breakeven 2027, got %v", resp.Result.Summary.BreakevenYear)
	}
	if resp.Result.Summary.NPV <= 0 {
		t.Errorf("expected positive NPV, got %v", resp.Result.Summary.NPV)
	}
}

func TestHandleScenarioCSV(t *testing.T) {
	handler := newTestHandler(t)

	rr := perform(t, handler, http.MethodGet, "/api/v1/scenarios/baseline/timeline.csv", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if lines[0] != "year,revenue_collected,gdp_benefit,total_benefits,total_costs,net_benefit,cumulative_npv" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 21 {
		t.Errorf("expected 21 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2027,") {
		t.Errorf("expected first row for 2027, got %q", lines[1])
	}

	rr = perform(t, handler, http.MethodGet, "/api/v1/scenarios/missing/timeline.csv", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleAnalysis(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "Scenario", body: `{"scenario": "baseline"}`, wantStatus: http.StatusOK},
		{name: "Bare baseline with overrides", body: `{"overrides": {"elasticity": 0.35, "discountRate": 0.05}}`, wantStatus: http.StatusOK},
		{name: "Invalid override", body: `{"scenario": "baseline", "overrides": {"complianceRate": 1.5}}`, wantStatus: http.StatusBadRequest},
		{name: "Negative elasticity", body: `{"overrides": {"elasticity": -1}}`, wantStatus: http.StatusBadRequest},
		{name: "Unknown field", body: `{"scenaro": "baseline"}`, wantStatus: http.StatusBadRequest},
		{name: "Unknown override", body: `{"overrides": {"bogus": 1}}`, wantStatus: http.StatusBadRequest},
		{name: "Malformed JSON", body: `{"scenario": `, wantStatus: http.StatusBadRequest},
		{name: "Unknown scenario", body: `{"scenario": "missing"}`, wantStatus: http.StatusNotFound},
	}

	handler := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := perform(t, handler, http.MethodPost, "/api/v1/analysis", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleAnalysisOverridesChangeResult(t *testing.T) {
	handler := newTestHandler(t)

	var base, flight analysisBody
	decodeBody(t, perform(t, handler, http.MethodPost, "/api/v1/analysis", `{"scenario": "baseline"}`), &base)
	decodeBody(t, perform(t, handler, http.MethodPost, "/api/v1/analysis",
		`{"scenario": "baseline", "overrides": {"elasticity": 1.9}}`), &flight)

	if flight.Result.Summary.NPV >= base.Result.Summary.NPV {
		t.Errorf("expected higher elasticity to lower NPV: %v >= %v",
			flight.Result.Summary.NPV, base.Result.Summary.NPV)
	}
}

func TestHandleAnalysisCached(t *testing.T) {
	handler := newTestHandler(t)

	var first, second analysisBody
	decodeBody(t, perform(t, handler, http.MethodPost, "/api/v1/analysis", `{"scenario": "optimistic"}`), &first)
	decodeBody(t, perform(t, handler, http.MethodPost, "/api/v1/analysis", `{"scenario": "optimistic"}`), &second)

	if first.Cached {
		t.Errorf("expected first request to miss the cache")
	}
	if !second.Cached {
		t.Errorf("expected second request to hit the cache")
	}
	if first.RunID == second.RunID {
		t.Errorf("expected distinct run IDs")
	}
	if first.Result.Summary.NPV != second.Result.Summary.NPV {
		t.Errorf("cached NPV %v differs from computed %v", second.Result.Summary.NPV, first.Result.Summary.NPV)
	}
}

func TestHandleAnalysisBodyLimit(t *testing.T) {
	conf := config.Default()
	cfg := DefaultConfig()
	cfg.SetBodySizeBytes(16)
	handler := NewHandler(zap.NewNop(), &conf, cfg, "test")

	rr := perform(t, handler, http.MethodPost, "/api/v1/analysis",
		`{"scenario": "baseline", "overrides": {"elasticity": 0.35}}`)
	if rr.Code == http.StatusOK {
		t.Fatalf("expected oversized body to be rejected")
	}
}

func TestHandleSensitivity(t *testing.T) {
	handler := newTestHandler(t)

	rr := perform(t, handler, http.MethodPost, "/api/v1/sensitivity",
		`{"scenario": "baseline", "ranges": [{"parameter": "elasticity", "low": 0.06, "high": 1.0}, {"parameter": "discountRate", "low": 0.01, "high": 0.05}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp sensitivityBody
	decodeBody(t, rr, &resp)
	if resp.Report.Scenario != "baseline" {
		t.Errorf("expected scenario baseline, got %q", resp.Report.Scenario)
	}
	if len(resp.Report.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Report.Rows))
	}
	if resp.Report.Rows[0].Swing < resp.Report.Rows[1].Swing {
		t.Errorf("rows not sorted by swing: %+v", resp.Report.Rows)
	}
}

func TestHandleSensitivityDefaults(t *testing.T) {
	var resp sensitivityBody
	decodeBody(t, perform(t, newTestHandler(t), http.MethodPost, "/api/v1/sensitivity", `{"scenario": "pessimistic"}`), &resp)
	if len(resp.Report.Rows) != len(costbenefit.DefaultRanges()) {
		t.Errorf("expected %d rows, got %d", len(costbenefit.DefaultRanges()), len(resp.Report.Rows))
	}
}

func TestHandleSensitivityErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "Unknown parameter", body: `{"ranges": [{"parameter": "bogus", "low": 0, "high": 1}]}`, wantStatus: http.StatusBadRequest},
		{name: "Range makes parameters invalid", body: `{"ranges": [{"parameter": "complianceRate", "low": 0.5, "high": 1.5}]}`, wantStatus: http.StatusBadRequest},
		{name: "Unknown scenario", body: `{"scenario": "missing"}`, wantStatus: http.StatusNotFound},
		{name: "Unknown field", body: `{"scenario": "baseline", "extra": true}`, wantStatus: http.StatusBadRequest},
	}

	handler := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := perform(t, handler, http.MethodPost, "/api/v1/sensitivity", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleAnalysisLayersOverrides(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodPost, "/api/v1/analysis",
		`{"scenario": "pessimistic", "overrides": {"discountRate": 0.05}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp analysisBody
	decodeBody(t, rr, &resp)
	if resp.Parameters.Migration.Elasticity != 1.0 {
		t.Errorf("elasticity = %v, expected the pessimistic scenario value 1.0", resp.Parameters.Migration.Elasticity)
	}
	if resp.Parameters.DiscountRate != 0.05 {
		t.Errorf("discount rate = %v, expected request override 0.05", resp.Parameters.DiscountRate)
	}
	if resp.Population != nil {
		t.Errorf("expected no population summary in aggregate mode, got %+v", resp.Population)
	}
}

func TestHandleAnalysisPopulationSummary(t *testing.T) {
	dir := t.TempDir()
	records := `{"billionaires": [
  {"name": "Record A", "net_worth_b": 12.0},
  {"name": "Record B", "net_worth_b": 1.05},
  {"name": "Record C", "net_worth_b": 3.0}
]}`
	if err := os.WriteFile(filepath.Join(dir, "individuals.json"), []byte(records), 0600); err != nil {
		t.Fatalf("failed to write records: %v", err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("population:\n  individualsFile: individuals.json\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	conf, err := config.LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	handler := NewHandler(zap.NewNop(), conf, DefaultConfig(), "test")
	rr := perform(t, handler, http.MethodGet, "/api/v1/scenarios/baseline", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp analysisBody
	decodeBody(t, rr, &resp)
	if resp.Population == nil {
		t.Fatal("expected a population summary for individual records")
	}
	if resp.Population.Count != 3 || resp.Population.Median != 3 || resp.Population.Max != 12 || resp.Population.Min != 1.05 {
		t.Errorf("unexpected population summary %+v", *resp.Population)
	}
}
