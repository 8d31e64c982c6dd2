package auth

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
	tokens  TokenGenerator
}

func NewHandler(base *transport.BaseHandler, service *Service, tokens TokenGenerator) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
		tokens:      tokens,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeInvalidPayload))
		return
	}

	resp, err := h.service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeInvalidPayload))
		return
	}

	resp, err := h.service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, apperrors.ErrInvalidToken)
		return
	}

	user, err := h.service.Me(r.Context(), claims)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

// Authenticate validates the bearer token and stores the claims on the
// request context for downstream handlers.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := h.ExtractTokenFromHeader(r)
		if tokenStr == "" {
			h.HandleServiceError(w, apperrors.NewUnauthorizedError("missing token", apperrors.ErrCodeInvalidToken))
			return
		}

		claims, err := h.tokens.ValidateToken(tokenStr)
		if err != nil {
			if err == ErrTokenExpired {
				h.HandleServiceError(w, apperrors.ErrTokenExpired)
				return
			}
			h.HandleServiceError(w, apperrors.ErrInvalidToken)
			return
		}

		ctx := ContextWithClaims(r.Context(), claims)
		ctx = apperrors.ContextWithUserID(ctx, claims.UserID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCapability gates a route group on the capability table. It must run
// after Authenticate.
func (h *Handler) RequireCapability(cap Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				h.HandleServiceError(w, apperrors.ErrInvalidToken)
				return
			}
			if !Allowed(claims.Role, cap) {
				h.HandleServiceError(w, apperrors.NewForbiddenError("Forbidden", apperrors.ErrCodeInsufficientRole))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
