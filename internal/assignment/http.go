package assignment

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
	router.Post("/teacher-assignments", h.SaveAssignments)
	router.Get("/teacher-assignments", h.AllAssignments)
	router.Get("/teacher-assignments/{courseID}", h.AssignmentsForCourse)
}

func (h *Handler) SaveAssignments(w http.ResponseWriter, r *http.Request) {
	var batch []SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, entry := range batch {
		if err := h.validate.Struct(entry); err != nil {
			httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	h.logger.InfoContext(r.Context(), "saving teacher assignments", "count", len(batch))
	saved, err := h.service.SaveAssignments(r.Context(), batch)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, saved)
}

func (h *Handler) AssignmentsForCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.Atoi(chi.URLParam(r, "courseID"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid course ID")
		return
	}

	assignments, err := h.service.AssignmentsForCourse(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, assignments)
}

func (h *Handler) AllAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.AllAssignments(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, assignments)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrAssignmentConflict) {
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
