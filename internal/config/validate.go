package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// JWT secrets
	if len(c.JWT.AccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 characters")
	}
	if len(c.JWT.RefreshSecret) < 32 {
		errs = append(errs, "JWT_REFRESH_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessSecret != "" && c.JWT.RefreshSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	// Provider credential: translations fail fast without it, so refuse to boot
	if c.OpenRouter.APIKey == "" {
		errs = append(errs, "OPENROUTER_API_KEY is required")
	}
	if c.OpenRouter.MaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("OPENROUTER_MAX_ATTEMPTS must be at least 1, got %d", c.OpenRouter.MaxAttempts))
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1-65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1-65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1-65535, got %d", c.Redis.Port))
	}

	// Quota limits must stay ordered: a mixed window can never allow less
	// than a pure user window.
	if c.Quota.TotalWeeklyLimit < c.Quota.UserWeeklyLimit {
		errs = append(errs, fmt.Sprintf("QUOTA_TOTAL_WEEKLY_LIMIT (%d) must be >= QUOTA_USER_WEEKLY_LIMIT (%d)",
			c.Quota.TotalWeeklyLimit, c.Quota.UserWeeklyLimit))
	}

	// Admin emails: warn only
	if len(c.Admin.Emails) == 0 {
		slog.Warn("ADMIN_EMAILS is empty, admin endpoints are disabled")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
