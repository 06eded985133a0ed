package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/decodedesk/decodedesk/internal/config"
	"github.com/decodedesk/decodedesk/internal/metrics"
)

// ErrorKind classifies a translation failure for caller branching.
type ErrorKind int

const (
	// KindConfig: missing provider credential; checked before any attempt.
	KindConfig ErrorKind = iota
	// KindAuth: provider rejected the credential (401). Terminal.
	KindAuth
	// KindRateLimited: provider rate limit (429). Terminal within a call.
	KindRateLimited
	// KindCredits: provider account out of credits (402). Terminal.
	KindCredits
	// KindUnavailable: transient failures exhausted the attempt budget.
	KindUnavailable
)

// Error is the single typed failure the client raises. Message is safe to
// show to end users; raw provider payloads are never passed through.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	errNoAPIKey = &Error{Kind: KindConfig, Message: "translation provider API key is not configured"}

	errAuth        = &Error{Kind: KindAuth, Message: "translation provider rejected the API key, check the configuration"}
	errRateLimited = &Error{Kind: KindRateLimited, Message: "rate limit exceeded, please try again in a moment"}
	errCredits     = &Error{Kind: KindCredits, Message: "translation provider account has insufficient credits"}
	errUnavailable = &Error{Kind: KindUnavailable, Message: "translation service is temporarily unavailable, please try again later"}
)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client calls the OpenRouter chat-completion endpoint with bounded retries
// and tolerant parsing. One outbound request per attempt, no local state.
type Client struct {
	cfg        config.OpenRouterConfig
	httpClient *http.Client
	limiter    *rate.Limiter

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg config.OpenRouterConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		sleep:      sleepCtx,
	}
}

// Translate renders the mode's prompt around text and asks the model for a
// completion, retrying transient failures with linear backoff. Empty text is
// forwarded as-is; the generative templates treat it as "no seed".
func (c *Client) Translate(ctx context.Context, text string, mode Mode) (*Result, error) {
	if c.cfg.APIKey == "" {
		return nil, errNoAPIKey
	}

	prompt := BuildPrompt(mode, text)

	var lastErr *Error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.ProviderRetriesTotal.Inc()
			if err := c.sleep(ctx, time.Duration(attempt-1)*c.cfg.RetryBackoff); err != nil {
				return nil, errUnavailable
			}
		}

		content, attemptErr := c.complete(ctx, prompt)
		if attemptErr == nil {
			return ParseResponse(mode, content, text), nil
		}

		if terminal(attemptErr) {
			return nil, attemptErr
		}

		slog.Warn("translate: attempt failed",
			"mode", mode, "attempt", attempt, "max_attempts", c.cfg.MaxAttempts, "error", attemptErr)
		lastErr = attemptErr
	}

	if lastErr == nil {
		lastErr = errUnavailable
	}
	return nil, lastErr
}

// complete performs a single chat-completion attempt.
func (c *Client) complete(ctx context.Context, prompt string) (string, *Error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errUnavailable
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", &Error{Kind: KindUnavailable, Message: fmt.Sprintf("encoding request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindUnavailable, Message: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", &Error{Kind: KindUnavailable, Message: "translation provider is unreachable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return "", errAuth
		case http.StatusTooManyRequests:
			return "", errRateLimited
		case http.StatusPaymentRequired:
			return "", errCredits
		default:
			return "", &Error{Kind: KindUnavailable, Message: fmt.Sprintf("provider returned status %d", resp.StatusCode)}
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &Error{Kind: KindUnavailable, Message: "provider returned an unreadable response"}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &Error{Kind: KindUnavailable, Message: "provider returned an empty completion"}
	}

	return parsed.Choices[0].Message.Content, nil
}

// terminal reports whether retrying the error within this call is useless.
func terminal(err *Error) bool {
	switch err.Kind {
	case KindAuth, KindRateLimited, KindCredits:
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
