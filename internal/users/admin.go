package users

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/decodedesk/decodedesk/internal/api"
	"github.com/decodedesk/decodedesk/internal/session"
)

// AdminHandler exposes plan management, restricted to operator accounts
// listed in ADMIN_EMAILS.
type AdminHandler struct {
	svc         *Service
	adminEmails []string
	validate    *validator.Validate
}

func NewAdminHandler(svc *Service, adminEmails []string) *AdminHandler {
	return &AdminHandler{
		svc:         svc,
		adminEmails: adminEmails,
		validate:    validator.New(),
	}
}

type GrantPlanRequest struct {
	Email string `json:"email" validate:"required,email"`
	Plan  string `json:"plan" validate:"required,oneof=free pro"`
}

// GrantPlan sets a user's plan. Pro accounts translate without metering;
// demoting back to free re-enters the weekly allowance on next login.
func (h *AdminHandler) GrantPlan(w http.ResponseWriter, r *http.Request) {
	ident := session.GetIdentity(r.Context())
	if ident == nil || !ident.Authenticated || !h.isAdmin(ident.Email) {
		api.HandleError(w, api.ErrForbidden)
		return
	}

	var req GrantPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	user, err := h.svc.SetPlan(r.Context(), req.Email, req.Plan)
	if err != nil {
		slog.Error("updating plan", "email", req.Email, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if user == nil {
		api.HandleError(w, api.NewNotFoundError("user not found"))
		return
	}

	slog.Info("plan updated", "email", user.Email, "plan", user.Plan, "by", ident.Email)
	api.JSON(w, http.StatusOK, user)
}

func (h *AdminHandler) isAdmin(email string) bool {
	for _, a := range h.adminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}
