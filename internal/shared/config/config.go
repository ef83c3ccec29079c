package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. All of it is read once at
// startup and shared read-only.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	GeminiAPIKey        string
	GeminiModel         string
	LLMTemperature      float32
	LLMMaxTokens        int32
	LLMRetryMaxTokens   int32
	LLMSummaryMaxTokens int32
	LLMTimeout          time.Duration

	MaxTextLength   int
	MaxTableRows    int
	MaxColumnValues int

	AllowedExtensions  []string
	ExcludedExtensions []string
	MaxUploadBytes     int64
}

// Load reads configuration from environment variables with sensible
// defaults. A local .env file is loaded best-effort for dev convenience.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "8000"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8080,http://localhost:5173")),

		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		LLMTemperature:      getEnvFloat32("LLM_TEMPERATURE", 0),
		LLMMaxTokens:        int32(getEnvInt("LLM_MAX_TOKENS", 700)),
		LLMRetryMaxTokens:   int32(getEnvInt("LLM_RETRY_MAX_TOKENS", 500)),
		LLMSummaryMaxTokens: int32(getEnvInt("LLM_SUMMARY_MAX_TOKENS", 500)),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,

		MaxTextLength:   getEnvInt("MAX_TEXT_LENGTH", 15000),
		MaxTableRows:    getEnvInt("MAX_TABLE_ROWS", 200),
		MaxColumnValues: getEnvInt("MAX_COLUMN_VALUES", 10),

		AllowedExtensions:  splitAndTrim(getEnv("ALLOWED_EXTENSIONS", ".txt,.csv,.xlsx,.xls,.docx")),
		ExcludedExtensions: splitAndTrim(getEnv("EXCLUDED_EXTENSIONS", ".json,.pdf")),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_MB", 100)) << 20,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func getEnvFloat32(key string, def float32) float32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 32)
	if err != nil || parsed < 0 {
		return def
	}
	return float32(parsed)
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
