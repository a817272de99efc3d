package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/models"
	"github.com/blockedby/application-tracker/internal/tracker"
)

// ApplicationsService is the business layer behind the handlers.
type ApplicationsService interface {
	Create(ctx context.Context, req *models.ApplicationRequest) (*models.Application, error)
	List(ctx context.Context) ([]models.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Application, error)
	Update(ctx context.Context, id uuid.UUID, patch *models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*models.ApplicationStats, error)
}

// ApplicationsHandler handles application-related HTTP requests.
type ApplicationsHandler struct {
	svc ApplicationsService
	log *logger.Logger
}

// NewApplicationsHandler creates a new ApplicationsHandler.
func NewApplicationsHandler(svc ApplicationsService) *ApplicationsHandler {
	return &ApplicationsHandler{
		svc: svc,
		log: logger.Get(),
	}
}

// List returns every application.
// GET /api/applications
func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list applications")
		respondError(w, http.StatusInternalServerError, "failed to fetch applications")
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	respondJSON(w, http.StatusOK, apps)
}

// GetByID returns a single application by ID.
// GET /api/applications/{id}
func (h *ApplicationsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	app, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err, "failed to fetch application")
		return
	}
	respondJSON(w, http.StatusOK, app)
}

// Create stores a new application.
// POST /api/applications
func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ApplicationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	app, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, err, "failed to create application")
		return
	}
	respondJSON(w, http.StatusCreated, app)
}

// Update applies a partial update.
// PATCH /api/applications/{id}
func (h *ApplicationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch *models.ApplicationPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	app, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, err, "failed to update application")
		return
	}
	respondJSON(w, http.StatusOK, app)
}

// Delete removes an application.
// DELETE /api/applications/{id}
func (h *ApplicationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, err, "failed to delete application")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "application deleted successfully",
	})
}

// Stats returns per-status counts and due follow-ups.
// GET /api/applications/stats
func (h *ApplicationsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("application stats")
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid application ID")
		return uuid.Nil, false
	}
	return id, true
}

// fail maps service errors to status codes.
func (h *ApplicationsHandler) fail(w http.ResponseWriter, err error, msg string) {
	var verr *tracker.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: verr.Errors})
	case errors.Is(err, tracker.ErrNotFound):
		respondError(w, http.StatusNotFound, "application not found")
	default:
		h.log.Error().Err(err).Msg(msg)
		respondError(w, http.StatusInternalServerError, msg)
	}
}
