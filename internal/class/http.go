package class

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"school-service/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/classes/add", h.CreateClass)
	router.Get("/classes", h.ListClasses)
	router.Put("/classes/{id}", h.UpdateClass)
	router.Delete("/classes/{id}", h.DeleteClass)
	router.Post("/sections", h.SectionsByClassIDs)
}

func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req SaveClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	h.logger.InfoContext(r.Context(), "creating class", "name", req.Name, "session", req.Session)
	created, err := h.service.CreateClass(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.service.ListClasses(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, classes)
}

func (h *Handler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid class ID")
		return
	}

	var req SaveClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	h.logger.InfoContext(r.Context(), "updating class", "id", id)
	updated, err := h.service.UpdateClass(r.Context(), id, req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid class ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting class", "id", id)
	if err := h.service.DeleteClass(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "class deleted successfully"})
}

func (h *Handler) SectionsByClassIDs(w http.ResponseWriter, r *http.Request) {
	var req SectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "classIds are required")
		return
	}

	sections, err := h.service.SectionsByClassIDs(r.Context(), req.ClassIDs)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, sections)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrClassNotFound) {
		httputil.RespondWithError(w, http.StatusNotFound, "class not found")
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
