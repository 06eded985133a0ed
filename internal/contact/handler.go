package contact

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/decodedesk/decodedesk/internal/api"
	"github.com/decodedesk/decodedesk/internal/events"
)

type Handler struct {
	repo      Repository
	publisher *events.Publisher
	validate  *validator.Validate
}

func NewHandler(repo Repository, publisher *events.Publisher) *Handler {
	return &Handler{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
	}
}

type SubmitRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=5000"`
}

// Submit accepts a contact-form message. Public; protected only by the
// global per-IP rate limit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	msg := &Message{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}
	if err := h.repo.Create(r.Context(), msg); err != nil {
		slog.Error("saving contact message", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	if h.publisher != nil {
		event := events.ContactEvent{
			Name:      msg.Name,
			Email:     msg.Email,
			Subject:   msg.Subject,
			Timestamp: msg.CreatedAt,
		}
		if err := h.publisher.PublishContact(r.Context(), event); err != nil {
			slog.Warn("publishing contact event", "error", err)
		}
	}

	api.JSONMessage(w, http.StatusCreated, "message received")
}
