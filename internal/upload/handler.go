package upload

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/core/common/validation"
	"github.com/familyone/factory-ops/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	store *Store
}

func NewHandler(base *transport.BaseHandler, store *Store) *Handler {
	return &Handler{BaseHandler: base, store: store}
}

type base64DTO struct {
	Filename string `json:"filename,omitempty"`
	Data     string `json:"data"`
}

func (d base64DTO) Validate() error {
	v := validation.NewValidator()
	v.Field("data", d.Data).Required()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (h *Handler) Base64(w http.ResponseWriter, r *http.Request) {
	var dto base64DTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleServiceError(w, apperrors.NewValidationError("Invalid payload", apperrors.ErrCodeInvalidPayload))
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	url, err := h.store.SaveBase64(dto.Filename, dto.Data)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, uploadResponse{URL: url})
}

// Stream accepts a raw body; the filename comes from ?filename= or the
// X-Filename header, and the extension falls back to the Content-Type.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = r.Header.Get("X-Filename")
	}

	url, err := h.store.SaveStream(filename, r.Header.Get("Content-Type"), r.Body, r.ContentLength)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, uploadResponse{URL: url})
}
