package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewService(rdb, time.Hour), mr
}

func TestService_CreateValidateRevoke(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	assert.True(t, svc.Validate(ctx, id))

	svc.Revoke(ctx, id)
	assert.False(t, svc.Validate(ctx, id))
}

func TestService_ValidateRejectsMalformedToken(t *testing.T) {
	svc, _ := newTestService(t)

	assert.False(t, svc.Validate(context.Background(), "not-a-uuid"))
	assert.False(t, svc.Validate(context.Background(), ""))
}

func TestService_ValidateFailsOpenOnRedisError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(rdb, time.Hour)

	id, err := svc.Create(context.Background())
	require.NoError(t, err)

	mr.Close()

	assert.True(t, svc.Validate(context.Background(), id))
}

func TestMiddleware(t *testing.T) {
	svc, _ := newTestService(t)

	validate := func(token string) (*Claims, error) {
		if token == "good-token" {
			return &Claims{UserID: "user-1", Email: "a@b.com", Plan: "pro"}, nil
		}
		return nil, assert.AnError
	}

	var seen *Identity
	handler := Middleware(validate, svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("bearer token resolves user identity", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "user:user-1", seen.Key)
		assert.True(t, seen.Authenticated)
		assert.True(t, seen.Unlimited())
	})

	t.Run("invalid bearer token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session header resolves guest identity", func(t *testing.T) {
		seen = nil
		id, err := svc.Create(context.Background())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-ID", id)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "guest:"+id, seen.Key)
		assert.False(t, seen.Authenticated)
		assert.False(t, seen.Unlimited())
		assert.Equal(t, id, seen.SessionID)
	})

	t.Run("unknown session rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-ID", "11111111-2222-4333-8444-555555555555")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("neither header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := WithIdentity(req.Context(), &Identity{Key: "user:u1", Authenticated: true})
		rec := httptest.NewRecorder()

		RequireUser(next).ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("guest rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := WithIdentity(req.Context(), &Identity{Key: "guest:s1"})
		rec := httptest.NewRecorder()

		RequireUser(next).ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
