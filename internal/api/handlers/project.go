package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oneselect/oneselect/internal/api/middleware"
	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/service"
)

type ProjectHandler struct {
	projects   *service.ProjectService
	statistics *service.StatisticsService
}

func NewProjectHandler(projects *service.ProjectService, statistics *service.StatisticsService) *ProjectHandler {
	return &ProjectHandler{projects: projects, statistics: statistics}
}

// requireProject resolves the authenticated user and the project named in
// the URL, enforcing ownership. On failure it writes the response itself and
// returns ok false.
func requireProject(w http.ResponseWriter, r *http.Request, projects *service.ProjectService) (*domain.Project, *domain.User, bool) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, nil, false
	}

	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return nil, nil, false
	}

	p, err := projects.GetAuthorized(r.Context(), user, projectID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			writeError(w, http.StatusNotFound, "project not found")
		case errors.Is(err, service.ErrProjectForbidden):
			writeError(w, http.StatusForbidden, "not allowed to access this project")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load project")
		}
		return nil, nil, false
	}
	return p, user, true
}

type createProjectRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ComparisonMode string `json:"comparison_mode"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.projects.Create(r.Context(), user, req.Name, req.Description, domain.ComparisonMode(req.ComparisonMode))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyProjectName), errors.Is(err, service.ErrInvalidCompareMode):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create project")
		}
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	projects, err := h.projects.List(r.Context(), user, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type updateProjectRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	ComparisonMode *string `json:"comparison_mode"`
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, user, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var mode *domain.ComparisonMode
	if req.ComparisonMode != nil {
		m := domain.ComparisonMode(*req.ComparisonMode)
		mode = &m
	}

	updated, err := h.projects.Update(r.Context(), user, p.ID, req.Name, req.Description, mode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyProjectName), errors.Is(err, service.ErrInvalidCompareMode):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProjectNotFound):
			writeError(w, http.StatusNotFound, "project not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update project")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, user, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), user, p.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary returns the project's aggregate statistics.
func (h *ProjectHandler) Summary(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireProject(w, r, h.projects)
	if !ok {
		return
	}

	target := parseTarget(r, 0.9)
	stats, err := h.statistics.ProjectStatistics(r.Context(), p.ID, target)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// parseTarget reads the target_certainty query parameter, clamped to [0, 1].
func parseTarget(r *http.Request, def float64) float64 {
	raw := r.URL.Query().Get("target_certainty")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return def
	}
	return v
}
