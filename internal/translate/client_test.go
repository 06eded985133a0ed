package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decodedesk/decodedesk/internal/config"
)

func testClientConfig(baseURL string) config.OpenRouterConfig {
	return config.OpenRouterConfig{
		APIKey:            "test-key",
		BaseURL:           baseURL,
		Model:             "test/model",
		MaxTokens:         400,
		Temperature:       0.7,
		Timeout:           5 * time.Second,
		MaxAttempts:       3,
		RetryBackoff:      time.Millisecond,
		RequestsPerSecond: 1000,
	}
}

func newTestClient(baseURL string) *Client {
	c := NewClient(testClientConfig(baseURL))
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestClient_SuccessfulDecode(t *testing.T) {
	var gotReq chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(completionBody("Plain English: Let's talk later.")))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	res, err := c.Translate(context.Background(), "circle back", ModeDecode)
	require.NoError(t, err)

	assert.Equal(t, "circle back", res.Original)
	assert.Equal(t, "Let's talk later.", res.Translation)

	assert.Equal(t, "test/model", gotReq.Model)
	assert.Equal(t, 400, gotReq.MaxTokens)
	assert.Equal(t, 0.7, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, `Corporate: "circle back"`)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	_, err := c.Translate(context.Background(), "text", ModeDecode)

	require.Error(t, err)
	assert.Equal(t, 3, attempts, "transport must be called exactly MaxAttempts times")

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, KindUnavailable, terr.Kind)
}

func TestClient_RecoversAfterTransientFailure(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Write([]byte(completionBody("Plain English: recovered")))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	res, err := c.Translate(context.Background(), "text", ModeDecode)

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "recovered", res.Translation)
}

func TestClient_TerminalStatusesShortCircuit(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuth},
		{"rate limited", http.StatusTooManyRequests, KindRateLimited},
		{"out of credits", http.StatusPaymentRequired, KindCredits},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attempts := 0
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				http.Error(w, "nope", tc.status)
			}))
			defer ts.Close()

			c := newTestClient(ts.URL)
			_, err := c.Translate(context.Background(), "text", ModeDecode)

			require.Error(t, err)
			assert.Equal(t, 1, attempts, "terminal status must not be retried")

			var terr *Error
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tc.kind, terr.Kind)
			assert.NotEmpty(t, terr.Message)
		})
	}
}

func TestClient_EmptyCompletionIsRetried(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.Write([]byte(completionBody("")))
			return
		}
		w.Write([]byte(completionBody("Plain English: finally")))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	res, err := c.Translate(context.Background(), "text", ModeDecode)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "finally", res.Translation)
}

func TestClient_MissingAPIKeyFailsFast(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	cfg := testClientConfig(ts.URL)
	cfg.APIKey = ""
	c := NewClient(cfg)

	_, err := c.Translate(context.Background(), "text", ModeDecode)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, KindConfig, terr.Kind)
	assert.False(t, called, "no network attempt without a credential")
}

func TestClient_GenerationFallbackOnUnstructuredReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("no labels here at all")))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	res, err := c.Translate(context.Background(), "", ModeGenerateCorporate)

	require.NoError(t, err)
	assert.NotEmpty(t, res.Word)
	assert.NotEmpty(t, res.Meaning)
	assert.NotEmpty(t, res.Example)
}
