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

type FeatureHandler struct {
	projects *service.ProjectService
	features *service.FeatureService
}

func NewFeatureHandler(projects *service.ProjectService, features *service.FeatureService) *FeatureHandler {
	return &FeatureHandler{projects: projects, features: features}
}

func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req service.FeatureInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.features.Create(r.Context(), p.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyFeatureName):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create feature")
		}
		return
	}

	writeJSON(w, http.StatusCreated, f)
}

type bulkFeaturesRequest struct {
	Features []service.FeatureInput `json:"features"`
}

func (h *FeatureHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req bulkFeaturesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	features, err := h.features.CreateBatch(r.Context(), p.ID, req.Features)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBatch),
			errors.Is(err, service.ErrBatchTooLarge),
			errors.Is(err, service.ErrEmptyFeatureName):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create features")
		}
		return
	}

	writeJSON(w, http.StatusCreated, features)
}

func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	features, err := h.features.List(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list features")
		return
	}
	if features == nil {
		features = []domain.Feature{}
	}
	writeJSON(w, http.StatusOK, features)
}

func (h *FeatureHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	featureID, err := uuid.Parse(chi.URLParam(r, "featureID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid feature id")
		return
	}

	f, err := h.features.Get(r.Context(), p.ID, featureID)
	if err != nil {
		if errors.Is(err, service.ErrFeatureNotFound) {
			writeError(w, http.StatusNotFound, "feature not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load feature")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FeatureHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	featureID, err := uuid.Parse(chi.URLParam(r, "featureID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid feature id")
		return
	}

	var req service.FeatureInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.features.Update(r.Context(), p.ID, featureID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeatureNotFound):
			writeError(w, http.StatusNotFound, "feature not found")
		case errors.Is(err, service.ErrEmptyFeatureName):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update feature")
		}
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	featureID, err := uuid.Parse(chi.URLParam(r, "featureID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid feature id")
		return
	}

	if err := h.features.Delete(r.Context(), p.ID, featureID); err != nil {
		if errors.Is(err, service.ErrFeatureNotFound) {
			writeError(w, http.StatusNotFound, "feature not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete feature")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	FeatureIDs []uuid.UUID `json:"feature_ids"`
}

func (h *FeatureHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	removed, err := h.features.DeleteBatch(r.Context(), p.ID, req.FeatureIDs)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBatch) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete features")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": removed})
}
