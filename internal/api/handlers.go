package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkvc/AutumSem-OR/internal/buildinfo"
	"github.com/dkvc/AutumSem-OR/internal/dataset"
	"github.com/dkvc/AutumSem-OR/internal/metrics"
	"github.com/dkvc/AutumSem-OR/internal/model"
	"github.com/dkvc/AutumSem-OR/internal/vrp"
)

// OptimizeHandler handles POST /v1/optimize: load the named dataset, build
// the problem, run the selected solver, and return the assembled solution.
// Progress is published on the broker under the solve id throughout.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.Limiter.Allow() {
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "optimize rate limit exceeded", r.URL.Path)
		return
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	params, err := s.solveParams(&req)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
		return
	}
	solveID := req.SolveID
	if solveID == "" {
		solveID = uuid.New().String()
	}

	d, err := s.Datasets.GetDataset(r.Context(), req.Dataset)
	if errors.Is(err, dataset.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Dataset not found", req.Dataset, r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Dataset load failed", err.Error(), r.URL.Path)
		return
	}

	params.Progress = func(e vrp.ProgressEvent) {
		s.Broker.Publish(solveID, model.ProgressMessage{
			SolveID:   solveID,
			Phase:     e.Phase,
			Objective: e.Objective,
		})
	}
	p, err := vrp.Build(d.Instance, params)
	if errors.Is(err, vrp.ErrInvalidParameter) {
		writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Problem build failed", err.Error(), r.URL.Path)
		return
	}
	solver, err := vrp.ForMethod(params.Method)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
		return
	}

	start := time.Now()
	raw, err := solver.Solve(r.Context(), p)
	if err != nil {
		s.publishError(solveID, err)
		writeProblem(w, http.StatusInternalServerError, "Solve failed", err.Error(), r.URL.Path)
		return
	}
	sol, err := vrp.Assemble(p, raw)
	if err != nil {
		s.publishError(solveID, err)
		writeProblem(w, http.StatusInternalServerError, "Solve failed", err.Error(), r.URL.Path)
		return
	}
	elapsed := time.Since(start)

	metrics.OptimizeRequests.WithLabelValues(params.Method, strconv.Itoa(sol.Status)).Inc()
	metrics.SolveDuration.WithLabelValues(params.Method).Observe(elapsed.Seconds())

	s.Broker.Publish(solveID, model.ProgressMessage{
		SolveID:   solveID,
		Phase:     "done",
		Objective: sol.Objective,
		Done:      true,
		Solution:  &sol,
	})
	writeJSON(w, http.StatusOK, model.OptimizeResponse{
		SolveID:    solveID,
		Dataset:    req.Dataset,
		Method:     params.Method,
		Solution:   sol,
		ElapsedSec: elapsed.Seconds(),
	})
}

func (s *Server) publishError(solveID string, err error) {
	s.Broker.Publish(solveID, model.ProgressMessage{
		SolveID: solveID,
		Phase:   "error",
		Done:    true,
		Error:   err.Error(),
	})
}

// DatasetsHandler handles GET /v1/datasets
func (s *Server) DatasetsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	names, err := s.Datasets.ListDatasets(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List datasets failed", err.Error(), r.URL.Path)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, model.DatasetList{Datasets: names})
}

// DatasetByNameHandler handles GET /v1/datasets/{name}
func (s *Server) DatasetByNameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/v1/datasets/")
	if name == "" || strings.Contains(name, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	d, err := s.Datasets.GetDataset(r.Context(), name)
	if errors.Is(err, dataset.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Dataset not found", name, r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Dataset load failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, dataset.Describe(d))
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Info()})
}

// ReadyHandler handles GET /readyz: ready once the dataset store answers.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.Datasets.ListDatasets(ctx); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
