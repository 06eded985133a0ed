package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decodedesk/decodedesk/internal/config"
	"github.com/decodedesk/decodedesk/internal/quota"
	"github.com/decodedesk/decodedesk/internal/session"
)

type fakeTranslator struct {
	calls int
	err   error
}

func (f *fakeTranslator) Translate(ctx context.Context, text string, mode Mode) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Result{Mode: mode, Original: text, Translation: "translated"}, nil
}

func newTestHandler(t *testing.T, translator Translator) (*Handler, *quota.Manager) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	mgr := quota.NewManager(quota.NewRedisStore(rdb, time.Hour), config.QuotaConfig{})
	return NewHandler(translator, nil, mgr, nil, nil), mgr
}

func doTranslate(h *Handler, ident *session.Identity, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(body))
	req = req.WithContext(session.WithIdentity(req.Context(), ident))
	rec := httptest.NewRecorder()
	h.Translate(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var envelope struct {
		Data Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestHandler_GuestTranslation(t *testing.T) {
	ft := &fakeTranslator{}
	h, _ := newTestHandler(t, ft)
	guest := &session.Identity{Key: "guest:s1", SessionID: "s1"}

	rec := doTranslate(h, guest, `{"text":"circle back","mode":"decode"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "translated", resp.Result.Translation)
	require.NotNil(t, resp.Quota)
	assert.Equal(t, quota.DefaultGuestLimit-1, resp.Quota.Remaining)
	assert.Equal(t, 1, ft.calls)
}

func TestHandler_GuestExhaustsQuota(t *testing.T) {
	ft := &fakeTranslator{}
	h, _ := newTestHandler(t, ft)
	guest := &session.Identity{Key: "guest:s1", SessionID: "s1"}

	for i := 0; i < quota.DefaultGuestLimit; i++ {
		rec := doTranslate(h, guest, `{"text":"hi","mode":"decode"}`)
		require.Equal(t, http.StatusOK, rec.Code, "translation %d", i+1)
	}

	rec := doTranslate(h, guest, `{"text":"hi","mode":"decode"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Quota)
	assert.False(t, resp.Quota.Allowed)
	assert.Equal(t, 0, resp.Quota.Remaining)

	assert.Equal(t, quota.DefaultGuestLimit, ft.calls, "rejected request must not reach the provider")
}

func TestHandler_NoConsumptionOnFailure(t *testing.T) {
	ft := &fakeTranslator{err: errUnavailable}
	h, mgr := newTestHandler(t, ft)
	guest := &session.Identity{Key: "guest:s1", SessionID: "s1"}

	rec := doTranslate(h, guest, `{"text":"hi","mode":"decode"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	status := mgr.Check(context.Background(), "guest:s1", false)
	assert.Equal(t, quota.DefaultGuestLimit, status.Remaining, "failed translation must not consume quota")
}

func TestHandler_ProviderRateLimitSurfacesAs429(t *testing.T) {
	ft := &fakeTranslator{err: errRateLimited}
	h, _ := newTestHandler(t, ft)
	guest := &session.Identity{Key: "guest:s1", SessionID: "s1"}

	rec := doTranslate(h, guest, `{"text":"hi","mode":"decode"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandler_ProPlanBypassesQuota(t *testing.T) {
	ft := &fakeTranslator{}
	h, mgr := newTestHandler(t, ft)
	pro := &session.Identity{Key: "user:u1", Authenticated: true, UserID: "0c2b2e6a-3dc8-4c4a-9f2e-6a1d6d2b9e01", Plan: "pro"}

	for i := 0; i < 20; i++ {
		rec := doTranslate(h, pro, `{"text":"hi","mode":"decode"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 20, ft.calls)

	// No quota record is consumed for pro users.
	status := mgr.Check(context.Background(), "user:u1", true)
	assert.Equal(t, quota.DefaultUserWeeklyLimit, status.Remaining)
}

func TestHandler_Validation(t *testing.T) {
	ft := &fakeTranslator{}
	h, _ := newTestHandler(t, ft)
	guest := &session.Identity{Key: "guest:s1", SessionID: "s1"}

	t.Run("unknown mode", func(t *testing.T) {
		rec := doTranslate(h, guest, `{"text":"hi","mode":"summarize"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty text for decode mode", func(t *testing.T) {
		rec := doTranslate(h, guest, `{"text":"","mode":"decode"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty text allowed for generation mode", func(t *testing.T) {
		rec := doTranslate(h, guest, `{"text":"","mode":"generate-genz"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doTranslate(h, guest, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Equal(t, 1, ft.calls, "only the generation request reaches the provider")
}

func TestHandler_MissingIdentity(t *testing.T) {
	h, _ := newTestHandler(t, &fakeTranslator{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(`{"text":"hi","mode":"decode"}`))
	rec := httptest.NewRecorder()
	h.Translate(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
