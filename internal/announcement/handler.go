package announcement

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
}

func NewHandler(base *transport.BaseHandler, service *Service) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, apperrors.ErrInvalidToken)
		return
	}

	var dto CreateAnnouncementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeInvalidPayload))
		return
	}

	ann, err := h.service.Create(r.Context(), claims, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ann)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	anns, err := h.service.List(r.Context(), ScopeFilter{
		Site:       q.Get("site"),
		Team:       q.Get("team"),
		TeamDetail: q.Get("teamDetail"),
	})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, anns)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var dto MarkReadDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeInvalidPayload))
		return
	}

	ann, err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ann)
}

func (h *Handler) UnreadUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.UnreadUsers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}
