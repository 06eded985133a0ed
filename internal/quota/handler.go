package quota

import (
	"net/http"

	"github.com/decodedesk/decodedesk/internal/api"
	"github.com/decodedesk/decodedesk/internal/session"
)

// Handler exposes the current identity's quota status for UI display.
type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// Get returns the quota Status for the calling identity. Pro-plan users
// have no local allowance to report; they always see Allowed.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident := session.GetIdentity(r.Context())
	if ident == nil {
		api.HandleError(w, api.ErrMissingIdentity)
		return
	}

	if ident.Unlimited() {
		api.JSON(w, http.StatusOK, Status{Allowed: true, Remaining: -1, Total: -1, DaysUntilReset: 7})
		return
	}

	status := h.manager.Check(r.Context(), ident.Key, ident.Authenticated)
	api.JSON(w, http.StatusOK, status)
}

// Reset clears the calling identity's quota record and revokes its guest
// session. Exposed for manual/test resets only.
func (h *Handler) Reset(sessions *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := session.GetIdentity(r.Context())
		if ident == nil {
			api.HandleError(w, api.ErrMissingIdentity)
			return
		}

		h.manager.Reset(r.Context(), ident.Key)
		if !ident.Authenticated && ident.SessionID != "" {
			sessions.Revoke(r.Context(), ident.SessionID)
		}

		api.JSONMessage(w, http.StatusOK, "quota reset")
	}
}
