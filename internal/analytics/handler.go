package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/decodedesk/decodedesk/internal/api"
	"github.com/decodedesk/decodedesk/internal/translate"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Examples returns popular phrases for landing-page display. Public.
func (h *Handler) Examples(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode != "" {
		if _, err := translate.ParseMode(mode); err != nil {
			api.HandleError(w, api.NewBadRequestError(err.Error()))
			return
		}
	}

	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}

	examples, err := h.repo.ListExamples(r.Context(), mode, limit)
	if err != nil {
		slog.Error("listing example phrases", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if examples == nil {
		examples = []*ExamplePhrase{}
	}

	api.JSON(w, http.StatusOK, examples)
}

// Summary returns the public usage rollup. Public.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.Summary(r.Context())
	if err != nil {
		slog.Error("building stats summary", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, summary)
}
