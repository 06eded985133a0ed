package session

import (
	"log/slog"
	"net/http"

	"github.com/decodedesk/decodedesk/internal/api"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create issues a guest session token for anonymous visitors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.Create(r.Context())
	if err != nil {
		slog.Error("creating guest session", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]string{"session_id": id})
}
