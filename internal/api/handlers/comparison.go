package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/service"
)

type ComparisonHandler struct {
	projects    *service.ProjectService
	comparisons *service.ComparisonService
}

func NewComparisonHandler(projects *service.ProjectService, comparisons *service.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{projects: projects, comparisons: comparisons}
}

// requireDimension reads the dimension query parameter, defaulting to value.
func requireDimension(w http.ResponseWriter, r *http.Request) (domain.Dimension, bool) {
	raw := r.URL.Query().Get("dimension")
	if raw == "" {
		return domain.DimensionValue, true
	}
	if !domain.ValidDimension(raw) {
		writeError(w, http.StatusBadRequest, "invalid dimension")
		return "", false
	}
	return domain.Dimension(raw), true
}

// NextPair returns the most informative pair to judge next, or 204 when the
// dimension is resolved.
func (h *ComparisonHandler) NextPair(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	res, err := h.comparisons.NextPair(r.Context(), p.ID, dim, parseTarget(r, 0.9))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to select pair")
		return
	}

	if res.Complete() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"feature_a": res.FeatureA,
		"feature_b": res.FeatureB,
		"dimension": dim,
		"progress":  res.Progress,
	})
}

type submitComparisonRequest struct {
	FeatureAID uuid.UUID `json:"feature_a_id"`
	FeatureBID uuid.UUID `json:"feature_b_id"`
	Choice     string    `json:"choice"`
	Dimension  string    `json:"dimension"`
}

func (h *ComparisonHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, user, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req submitComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Dimension == "" {
		req.Dimension = string(domain.DimensionValue)
	}

	res, err := h.comparisons.Submit(r.Context(), service.SubmitInput{
		ProjectID:  p.ID,
		FeatureAID: req.FeatureAID,
		FeatureBID: req.FeatureBID,
		Choice:     domain.Choice(req.Choice),
		Dimension:  domain.Dimension(req.Dimension),
		UserID:     user.ID,
		Mode:       p.ComparisonMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDimension),
			errors.Is(err, service.ErrSameFeature),
			errors.Is(err, service.ErrInvalidChoice):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFeatureNotFound),
			errors.Is(err, service.ErrFeatureWrongProject):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record comparison")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"comparison":    res.Comparison,
		"score_a":       res.ScoreA,
		"score_b":       res.ScoreB,
		"inconsistency": res.Stats,
	})
}

func (h *ComparisonHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var dim *domain.Dimension
	if raw := r.URL.Query().Get("dimension"); raw != "" {
		if !domain.ValidDimension(raw) {
			writeError(w, http.StatusBadRequest, "invalid dimension")
			return
		}
		d := domain.Dimension(raw)
		dim = &d
	}

	comps, err := h.comparisons.ListActive(r.Context(), p.ID, dim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list comparisons")
		return
	}
	if comps == nil {
		comps = []domain.Comparison{}
	}
	writeJSON(w, http.StatusOK, comps)
}

func (h *ComparisonHandler) Progress(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	snap, err := h.comparisons.Progress(r.Context(), p.ID, dim, parseTarget(r, 0.9))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute progress")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *ComparisonHandler) Estimates(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	est, err := h.comparisons.Estimates(r.Context(), p.ID, dim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute estimates")
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (h *ComparisonHandler) Inconsistencies(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	cycles, err := h.comparisons.Inconsistencies(r.Context(), p.ID, dim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to detect inconsistencies")
		return
	}
	if cycles == nil {
		cycles = []service.Cycle{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dimension": dim,
		"cycles":    cycles,
	})
}

func (h *ComparisonHandler) InconsistencyStats(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	stats, err := h.comparisons.InconsistencyStats(r.Context(), p.ID, dim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute inconsistency stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ResolveInconsistency suggests the re-comparison most likely to break a
// cycle, or 204 when the history is consistent.
func (h *ComparisonHandler) ResolveInconsistency(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	pair, err := h.comparisons.SuggestResolutionPair(r.Context(), p.ID, dim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to suggest resolution pair")
		return
	}
	if pair == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Get returns one active comparison.
func (h *ComparisonHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	comparisonID, err := uuid.Parse(chi.URLParam(r, "comparisonID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comparison id")
		return
	}

	comp, err := h.comparisons.Get(r.Context(), p.ID, comparisonID)
	if err != nil {
		if errors.Is(err, service.ErrComparisonNotFound) {
			writeError(w, http.StatusNotFound, "comparison not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load comparison")
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

type resetRequest struct {
	Dimension string `json:"dimension"`
}

// Reset discards comparisons for one dimension, or every dimension when the
// body names none.
func (h *ComparisonHandler) Reset(w http.ResponseWriter, r *http.Request) {
	p, user, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req resetRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var dim *domain.Dimension
	if req.Dimension != "" {
		if !domain.ValidDimension(req.Dimension) {
			writeError(w, http.StatusBadRequest, "invalid dimension")
			return
		}
		d := domain.Dimension(req.Dimension)
		dim = &d
	}

	removed, err := h.comparisons.Reset(r.Context(), p.ID, dim, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset comparisons")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

func (h *ComparisonHandler) Undo(w http.ResponseWriter, r *http.Request) {
	p, user, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	undoneID, err := h.comparisons.Undo(r.Context(), p.ID, dim, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoComparisons) {
			writeError(w, http.StatusNotFound, "no comparisons to undo")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to undo comparison")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"undone": undoneID.String()})
}

// Skip acknowledges a skipped pair. Nothing is recorded; the selector may
// offer the same pair again.
func (h *ComparisonHandler) Skip(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireProject(w, r, h.projects); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
}

func (h *ComparisonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, user, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	comparisonID, err := uuid.Parse(chi.URLParam(r, "comparisonID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comparison id")
		return
	}

	if err := h.comparisons.Delete(r.Context(), p.ID, comparisonID, user.ID); err != nil {
		if errors.Is(err, service.ErrComparisonNotFound) {
			writeError(w, http.StatusNotFound, "comparison not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete comparison")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
