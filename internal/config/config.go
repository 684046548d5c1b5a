package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds every setting the API reads from the environment.
type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8080"`

	// multiStatements is needed by the migration runner.
	DatabaseDSN string `env:"DB_DSN" default:"root:root@tcp(127.0.0.1:3306)/strongx?parseTime=true&multiStatements=true"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" default:"168h"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	CORSOrigins     string `env:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:3001,http://localhost:3002,http://localhost:3003"`
	ExpirySchedule  string `env:"EXPIRY_SCHEDULE" default:"@every 1h"`
	LoginRatePerMin int    `env:"LOGIN_RATE_PER_MIN" default:"10"`

	// Profile images uploaded through /api/uploads.
	UploadDir string `env:"UPLOAD_DIR" default:"./uploads"`
	BaseURL   string `env:"BASE_URL" default:"http://localhost:8080"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if cfg.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if cfg.LoginRatePerMin <= 0 {
		return errors.New("LOGIN_RATE_PER_MIN must be positive")
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
