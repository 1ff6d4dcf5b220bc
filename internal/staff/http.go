package staff

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
	router.Post("/staff", h.CreateStaff)
	router.Get("/staff", h.ListStaff)
	router.Get("/staff/{id}", h.GetStaff)
	router.Put("/staff/{id}", h.UpdateStaff)
	router.Delete("/staff/{id}", h.DeleteStaff)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating staff member", "email", req.Email, "type", req.Type)
	created, err := h.service.CreateStaff(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListStaff(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, members)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	member, err := h.service.GetStaff(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, member)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	var member Staff
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil || h.validate.Struct(&member) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	member.ID = id

	h.logger.InfoContext(r.Context(), "updating staff member", "id", id)
	updated, err := h.service.UpdateStaff(r.Context(), &member)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting staff member", "id", id)
	if err := h.service.DeleteStaff(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "staff member deactivated"})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrStaffNotFound) {
		httputil.RespondWithError(w, http.StatusNotFound, "staff member not found")
		return
	}
	if errors.Is(err, ErrStaffExists) {
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
