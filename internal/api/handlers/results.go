package handlers

import (
	"errors"
	"net/http"

	"github.com/oneselect/oneselect/internal/service"
)

type ResultsHandler struct {
	projects *service.ProjectService
	results  *service.ResultsService
}

func NewResultsHandler(projects *service.ProjectService, results *service.ResultsService) *ResultsHandler {
	return &ResultsHandler{projects: projects, results: results}
}

// Ranking returns the ordered features for one dimension.
func (h *ResultsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	ranked, err := h.results.Ranking(r.Context(), p.ID, dim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute ranking")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dimension": dim,
		"ranking":   ranked,
	})
}

// Quadrants returns the value/complexity quadrant placement.
func (h *ResultsHandler) Quadrants(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	q, err := h.results.Quadrants(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute quadrants")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Export streams both rankings as CSV or JSON depending on the format query
// parameter.
func (h *ResultsHandler) Export(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	payload, contentType, err := h.results.Export(r.Context(), p.ID, r.URL.Query().Get("format"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidExportFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to export results")
		return
	}

	w.Header().Set("Content-Type", contentType)
	if contentType == "text/csv" {
		w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
