package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/service"
)

type ModelConfigHandler struct {
	projects *service.ProjectService
	configs  *service.ModelConfigService
}

func NewModelConfigHandler(projects *service.ProjectService, configs *service.ModelConfigService) *ModelConfigHandler {
	return &ModelConfigHandler{projects: projects, configs: configs}
}

func (h *ModelConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	dim, ok := requireDimension(w, r)
	if !ok {
		return
	}

	mc, err := h.configs.Get(r.Context(), p.ID, dim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load model config")
		return
	}
	writeJSON(w, http.StatusOK, mc)
}

type modelConfigRequest struct {
	Dimension            string  `json:"dimension"`
	PriorMean            float64 `json:"prior_mean"`
	PriorStdDev          float64 `json:"prior_stddev"`
	LogisticScale        float64 `json:"logistic_scale"`
	TieMultiplier        float64 `json:"tie_multiplier"`
	MuchBetterMultiplier float64 `json:"much_better_multiplier"`
	ClosenessScale       float64 `json:"closeness_scale"`
	TargetVariance       float64 `json:"target_variance"`
}

func (req modelConfigRequest) toDomain(p *domain.Project) *domain.ModelConfig {
	return &domain.ModelConfig{
		ProjectID:            p.ID,
		Dimension:            domain.Dimension(req.Dimension),
		PriorMean:            req.PriorMean,
		PriorStdDev:          req.PriorStdDev,
		LogisticScale:        req.LogisticScale,
		TieMultiplier:        req.TieMultiplier,
		MuchBetterMultiplier: req.MuchBetterMultiplier,
		ClosenessScale:       req.ClosenessScale,
		TargetVariance:       req.TargetVariance,
	}
}

// Update stores new tunables and replays the dimension's history under them.
func (h *ModelConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req modelConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mc := req.toDomain(p)
	if err := h.configs.Update(r.Context(), mc); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDimension), errors.Is(err, service.ErrInvalidModelConfig):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update model config")
		}
		return
	}
	writeJSON(w, http.StatusOK, mc)
}

// Preview simulates updates under candidate tunables without persisting
// anything.
func (h *ModelConfigHandler) Preview(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req modelConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Dimension == "" {
		req.Dimension = string(domain.DimensionValue)
	}

	steps, err := h.configs.Preview(req.toDomain(p), 5)
	if err != nil {
		if errors.Is(err, service.ErrInvalidModelConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to preview model config")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"steps": steps})
}
