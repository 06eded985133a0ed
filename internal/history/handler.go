package history

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/decodedesk/decodedesk/internal/api"
	"github.com/decodedesk/decodedesk/internal/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List returns the user's saved translations, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident := session.GetIdentity(r.Context())
	if ident == nil || !ident.Authenticated {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	userID, err := uuid.Parse(ident.UserID)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	page := 1
	pageSize := 20
	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	entries, total, err := h.svc.List(r.Context(), userID, page, pageSize)
	if err != nil {
		slog.Error("listing history", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if entries == nil {
		entries = []*Entry{}
	}

	api.JSONPaginated(w, http.StatusOK, entries, total, page, pageSize)
}

// Delete removes one of the user's own saved translations.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := session.GetIdentity(r.Context())
	if ident == nil || !ident.Authenticated {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	userID, err := uuid.Parse(ident.UserID)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "translationID"))
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid translation ID"))
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id, userID)
	if err != nil {
		slog.Error("deleting history entry", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if !deleted {
		api.HandleError(w, api.NewNotFoundError("translation not found"))
		return
	}

	api.JSONMessage(w, http.StatusOK, "translation deleted")
}
