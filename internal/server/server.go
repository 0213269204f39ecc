// Package server exposes the projection model over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/analysis"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/output"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/revenue"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	conf        *config.Configuration
	cache       *resultCache
	maxBodySize int64
	version     string
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	logger          *zap.Logger
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewHandler constructs the router serving the analysis API over conf.
func NewHandler(logger *zap.Logger, conf *config.Configuration, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		conf:        conf,
		cache:       newResultCache(cfg.CacheEntries),
		maxBodySize: cfg.BodySizeBytes(),
		version:     trimmedVersion,
	}

	router := chi.NewRouter()
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/api/version", h.handleVersion)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/scenarios", h.handleListScenarios)
		r.Get("/scenarios/{name}", h.handleScenario)
		r.Get("/scenarios/{name}/timeline.csv", h.handleScenarioCSV)
		r.Post("/analysis", h.handleAnalysis)
		r.Post("/sensitivity", h.handleSensitivity)
	})

	return router
}

// New builds a Server listening on cfg.Address.
func New(logger *zap.Logger, conf *config.Configuration, cfg *Config, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:              cfg.Address,
			Handler:           NewHandler(logger, conf, cfg, version),
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			zap.String("op", "server.Start"),
			zap.String("address", s.httpServer.Addr),
		)
		serverErrors <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown initiated", zap.String("op", "server.Start"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("graceful shutdown failed",
				zap.String("op", "server.Start"),
				zap.Error(err),
			)
			return s.httpServer.Close()
		}
	}
	return nil
}

type scenarioListResponse struct {
	Scenarios []config.Scenario `json:"scenarios"`
}

type analysisRequest struct {
	Scenario  string           `json:"scenario"`
	Overrides config.Overrides `json:"overrides"`
}

type sensitivityRequest struct {
	Scenario  string              `json:"scenario"`
	Overrides config.Overrides    `json:"overrides"`
	Ranges    []costbenefit.Range `json:"ranges"`
}

type analysisResponse struct {
	RunID      string                  `json:"runId"`
	Scenario   string                  `json:"scenario,omitempty"`
	Parameters costbenefit.Parameters  `json:"parameters"`
	Result     costbenefit.Result      `json:"result"`
	Waterfall  []revenue.WaterfallStep `json:"waterfall"`
	Population *population.Summary     `json:"population,omitempty"`
	Cached     bool                    `json:"cached"`
	Duration   string                  `json:"duration"`
}

type sensitivityResponse struct {
	RunID    string                     `json:"runId"`
	Report   analysis.SensitivityReport `json:"report"`
	Duration string                     `json:"duration"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios := h.conf.Scenarios
	if scenarios == nil {
		scenarios = []config.Scenario{}
	}
	h.writeJSON(w, http.StatusOK, scenarioListResponse{Scenarios: scenarios})
}

func (h *handler) handleScenario(w http.ResponseWriter, r *http.Request) {
	h.runAnalysis(w, analysisRequest{Scenario: chi.URLParam(r, "name")}, "server.handleScenario")
}

func (h *handler) handleScenarioCSV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarioCSV"
	name := chi.URLParam(r, "name")

	params, err := h.parameters(name, config.Overrides{})
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), op)
		return
	}
	res, _, err := h.cache.compute(params)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), op)
		return
	}

	csv, err := output.CsvString(res.Timeline)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"-timeline.csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		h.logger.Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysis"
	var req analysisRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	h.runAnalysis(w, req, op)
}

func (h *handler) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSensitivity"
	var req sensitivityRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	start := time.Now()
	params, err := h.parameters(req.Scenario, req.Overrides)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), op)
		return
	}

	ranges := req.Ranges
	if len(ranges) == 0 {
		ranges = h.conf.SensitivityRanges()
	}

	label := req.Scenario
	if label == "" {
		label = "baseline parameters"
	}
	report, err := analysis.Sensitivity(r.Context(), h.logger, label, params, ranges)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, sensitivityResponse{
		RunID:    uuid.NewString(),
		Report:   report,
		Duration: time.Since(start).String(),
	})
}

func (h *handler) runAnalysis(w http.ResponseWriter, req analysisRequest, op string) {
	start := time.Now()
	params, err := h.parameters(req.Scenario, req.Overrides)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), op)
		return
	}

	res, cached, err := h.cache.compute(params)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), op)
		return
	}

	response := analysisResponse{
		RunID:      uuid.NewString(),
		Scenario:   req.Scenario,
		Parameters: params,
		Result:     res,
		Waterfall:  revenue.Waterfall(res.Revenue),
		Cached:     cached,
		Duration:   time.Since(start).String(),
	}
	if len(params.Individuals) > 0 {
		summary := population.Summarize(params.Individuals)
		response.Population = &summary
	}

	h.logger.Info("analysis computed",
		zap.String("op", op),
		zap.String("runId", response.RunID),
		zap.String("scenario", req.Scenario),
		zap.Bool("cached", cached),
		zap.Float64("npv", res.Summary.NPV),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// parameters resolves a scenario (or the bare baseline when name is empty) with
// request overrides layered on top of the scenario's own.
func (h *handler) parameters(name string, overrides config.Overrides) (costbenefit.Parameters, error) {
	if name == "" {
		return overrides.Apply(h.conf.BaselineParameters())
	}
	return h.conf.ScenarioParametersWith(name, overrides)
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrUnknownScenario):
		return http.StatusNotFound
	case errors.Is(err, validation.ErrInvalidParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
