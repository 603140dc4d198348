package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"tool-advisor/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	LLMProvider       string
	LLMModel          string
	LLMTemperature    float64
	LLMTimeoutSeconds int
	GeminiAPIKey      string
	OpenAIAPIKey      string
	OpenAIBaseURL     string

	DatabaseURL     string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string

	RateLimitRPS   float64
	RateLimitBurst int
}

var defaults = map[string]any{
	"PORT":                "8080",
	"ENV":                 "dev",
	"LOG_LEVEL":           "info",
	"CORS_ALLOW_ORIGINS":  "http://localhost:3000,http://localhost:9002",
	"LLM_PROVIDER":        "gemini",
	"LLM_MODEL":           "",
	"LLM_TEMPERATURE":     0.2,
	"LLM_TIMEOUT_SECONDS": 60,
	"GEMINI_API_KEY":      "",
	"OPENAI_API_KEY":      "",
	"OPENAI_BASE_URL":     "",
	"DATABASE_URL":        "",
	"OBJECT_STORE":        "local",
	"LOCAL_STORE_DIR":     "./data",
	"AWS_REGION":          "",
	"S3_BUCKET":           "",
	"S3_PREFIX":           "exports/",
	"RATE_LIMIT_RPS":      1.0,
	"RATE_LIMIT_BURST":    10,
}

// Load reads configuration from process environment variables, then local .env files
// (which never override a variable already set), then an optional advisor.yaml, then
// built-in defaults. Earlier sources win.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetConfigName("advisor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			telemetry.Warn("config.file_invalid", map[string]any{"error": err.Error()})
		}
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:              v.GetString("PORT"),
		Env:               env,
		LogLevel:          v.GetString("LOG_LEVEL"),
		CORSAllowOrigin:   splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LLMProvider:       normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:          strings.TrimSpace(v.GetString("LLM_MODEL")),
		LLMTemperature:    v.GetFloat64("LLM_TEMPERATURE"),
		LLMTimeoutSeconds: v.GetInt("LLM_TIMEOUT_SECONDS"),
		GeminiAPIKey:      strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		OpenAIAPIKey:      strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:     strings.TrimSpace(v.GetString("OPENAI_BASE_URL")),
		DatabaseURL:       dbURL,
		ObjectStoreType:   normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:     v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:         v.GetString("AWS_REGION"),
		S3Bucket:          v.GetString("S3_BUCKET"),
		S3Prefix:          v.GetString("S3_PREFIX"),
		RateLimitRPS:      v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
	}
}

// IsDevLike reports whether the environment tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "none", "off", "disabled":
		return "none"
	default:
		return "gemini"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
