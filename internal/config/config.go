package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	NATS       NATSConfig
	JWT        JWTConfig
	OpenRouter OpenRouterConfig
	Quota      QuotaConfig
	CORS       CORSConfig
	Admin      AdminConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	URL string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// OpenRouterConfig configures the outbound chat-completion client.
type OpenRouterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxAttempts int
	// RetryBackoff is the base backoff; attempt N waits N * RetryBackoff.
	RetryBackoff time.Duration
	// RequestsPerSecond caps outbound provider calls across all users.
	RequestsPerSecond float64
}

// QuotaConfig holds the local translation allowances. The window is a rolling
// 7 days anchored to the first action, not a calendar week.
type QuotaConfig struct {
	GuestLimit       int
	UserWeeklyLimit  int
	TotalWeeklyLimit int
	SessionTTL       time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AdminConfig struct {
	// Emails allowed to call the admin endpoints.
	Emails []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		JWT: JWTConfig{
			AccessSecret:  k.String("jwt.access.secret"),
			RefreshSecret: k.String("jwt.refresh.secret"),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:            k.String("openrouter.api.key"),
			BaseURL:           k.String("openrouter.base.url"),
			Model:             k.String("openrouter.model"),
			MaxTokens:         k.Int("openrouter.max.tokens"),
			Temperature:       k.Float64("openrouter.temperature"),
			MaxAttempts:       k.Int("openrouter.max.attempts"),
			RequestsPerSecond: k.Float64("openrouter.requests.per.second"),
		},
		Quota: QuotaConfig{
			GuestLimit:       k.Int("quota.guest.limit"),
			UserWeeklyLimit:  k.Int("quota.user.weekly.limit"),
			TotalWeeklyLimit: k.Int("quota.total.weekly.limit"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(k.String("cors.allowed.origins")),
		},
		Admin: AdminConfig{
			Emails: splitCSV(k.String("admin.emails")),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "decodedesk"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "decodedesk"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.OpenRouter.BaseURL == "" {
		cfg.OpenRouter.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.OpenRouter.Model == "" {
		cfg.OpenRouter.Model = "deepseek/deepseek-r1-0528-qwen3-8b:free"
	}
	if cfg.OpenRouter.MaxTokens == 0 {
		cfg.OpenRouter.MaxTokens = 400
	}
	if cfg.OpenRouter.Temperature == 0 {
		cfg.OpenRouter.Temperature = 0.7
	}
	if cfg.OpenRouter.MaxAttempts == 0 {
		cfg.OpenRouter.MaxAttempts = 3
	}
	if cfg.OpenRouter.RetryBackoff == 0 {
		cfg.OpenRouter.RetryBackoff = time.Second
	}
	if cfg.OpenRouter.RequestsPerSecond == 0 {
		cfg.OpenRouter.RequestsPerSecond = 5
	}
	if cfg.Quota.GuestLimit == 0 {
		cfg.Quota.GuestLimit = 8
	}
	if cfg.Quota.UserWeeklyLimit == 0 {
		cfg.Quota.UserWeeklyLimit = 5
	}
	if cfg.Quota.TotalWeeklyLimit == 0 {
		cfg.Quota.TotalWeeklyLimit = 13
	}
	if cfg.Quota.SessionTTL == 0 {
		cfg.Quota.SessionTTL = 30 * 24 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	accessExpStr := k.String("jwt.access.expiry")
	if accessExpStr == "" {
		accessExpStr = "15m"
	}
	cfg.JWT.AccessExpiry, err = time.ParseDuration(accessExpStr)
	if err != nil {
		return nil, fmt.Errorf("parsing jwt access expiry: %w", err)
	}

	refreshExpStr := k.String("jwt.refresh.expiry")
	if refreshExpStr == "" {
		refreshExpStr = "168h"
	}
	cfg.JWT.RefreshExpiry, err = time.ParseDuration(refreshExpStr)
	if err != nil {
		return nil, fmt.Errorf("parsing jwt refresh expiry: %w", err)
	}

	timeoutStr := k.String("openrouter.timeout")
	if timeoutStr == "" {
		timeoutStr = "30s"
	}
	cfg.OpenRouter.Timeout, err = time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("parsing openrouter timeout: %w", err)
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
