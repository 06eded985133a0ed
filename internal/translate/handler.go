package translate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/decodedesk/decodedesk/internal/api"
	"github.com/decodedesk/decodedesk/internal/events"
	"github.com/decodedesk/decodedesk/internal/history"
	"github.com/decodedesk/decodedesk/internal/metrics"
	"github.com/decodedesk/decodedesk/internal/quota"
	"github.com/decodedesk/decodedesk/internal/session"
)

// Translator is the provider-facing contract; satisfied by *Client and
// faked in handler tests.
type Translator interface {
	Translate(ctx context.Context, text string, mode Mode) (*Result, error)
}

type Handler struct {
	translator Translator
	cache      *Cache
	quotaMgr   *quota.Manager
	historySvc *history.Service
	publisher  *events.Publisher
	validate   *validator.Validate
}

func NewHandler(translator Translator, cache *Cache, quotaMgr *quota.Manager, historySvc *history.Service, publisher *events.Publisher) *Handler {
	return &Handler{
		translator: translator,
		cache:      cache,
		quotaMgr:   quotaMgr,
		historySvc: historySvc,
		publisher:  publisher,
		validate:   validator.New(),
	}
}

type Request struct {
	Text string `json:"text" validate:"max=10000"`
	Mode string `json:"mode" validate:"required"`
}

type Response struct {
	Result *Result       `json:"result"`
	Quota  *quota.Status `json:"quota,omitempty"`
}

// Translate checks the caller's allowance, performs the translation, and
// records consumption only after success. The quota check and the later
// increment are not atomic; a rapid double submit can slip one extra action
// through, which is acceptable for an advisory limit.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	ident := session.GetIdentity(r.Context())
	if ident == nil {
		api.HandleError(w, api.ErrMissingIdentity)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	mode, err := ParseMode(req.Mode)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError(err.Error()))
		return
	}
	if req.Text == "" && !mode.Generative() {
		api.HandleError(w, api.NewValidationError("text is required for this mode"))
		return
	}

	metered := !ident.Unlimited()
	if metered {
		status := h.quotaMgr.Check(r.Context(), ident.Key, ident.Authenticated)
		if !status.Allowed {
			metrics.QuotaRejectionsTotal.WithLabelValues(identityLabel(ident)).Inc()
			api.JSON(w, http.StatusTooManyRequests, Response{Quota: &status})
			return
		}
	}

	result, ok := h.cache.Get(mode, req.Text)
	if !ok {
		result, err = h.translator.Translate(r.Context(), req.Text, mode)
		if err != nil {
			metrics.TranslationsTotal.WithLabelValues(string(mode), "error").Inc()
			api.HandleError(w, translateError(err))
			return
		}
		h.cache.Put(mode, req.Text, result)
	}
	metrics.TranslationsTotal.WithLabelValues(string(mode), "success").Inc()

	if metered {
		h.quotaMgr.RecordUse(r.Context(), ident.Key, ident.Authenticated)
	}

	h.recordHistory(r.Context(), ident, result)
	h.publishEvent(r.Context(), ident, req.Text, result)

	resp := Response{Result: result}
	if metered {
		status := h.quotaMgr.Check(r.Context(), ident.Key, ident.Authenticated)
		resp.Quota = &status
	}
	api.JSON(w, http.StatusOK, resp)
}

// recordHistory is best-effort: a history write failure never fails the
// translation the user already paid quota for.
func (h *Handler) recordHistory(ctx context.Context, ident *session.Identity, res *Result) {
	if h.historySvc == nil || !ident.Authenticated {
		return
	}
	userID, err := uuid.Parse(ident.UserID)
	if err != nil {
		return
	}

	original, translation := res.Original, res.Translation
	if res.Mode.Generative() {
		original, translation = res.Word, res.Meaning
	}

	if _, err := h.historySvc.Record(ctx, userID, string(res.Mode), original, translation); err != nil {
		slog.Warn("recording translation history", "error", err)
	}
}

func (h *Handler) publishEvent(ctx context.Context, ident *session.Identity, text string, res *Result) {
	if h.publisher == nil {
		return
	}

	original, translation := res.Original, res.Translation
	if res.Mode.Generative() {
		original, translation = res.Word, res.Meaning
	}

	event := events.TranslationEvent{
		Identity:      ident.Key,
		Authenticated: ident.Authenticated,
		Mode:          string(res.Mode),
		InputLength:   len(text),
		Original:      original,
		Translation:   translation,
		Timestamp:     time.Now(),
	}
	if err := h.publisher.PublishTranslation(ctx, event); err != nil {
		slog.Warn("publishing translation event", "error", err)
	}
}

// translateError maps the client's typed failure onto an HTTP error.
func translateError(err error) error {
	var terr *Error
	if !errors.As(err, &terr) {
		return api.ErrInternalServer
	}
	switch terr.Kind {
	case KindRateLimited:
		return &api.AppError{Code: http.StatusTooManyRequests, Message: terr.Message}
	default:
		return api.NewUnavailableError(terr.Message)
	}
}

func identityLabel(ident *session.Identity) string {
	if ident.Authenticated {
		return "user"
	}
	return "guest"
}
