package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	GeminiAPIKey   string
	OpenAIAPIKey   string
	LLMProvider    string
	GeminiModel    string
	OpenAIModel    string
	LLMTimeout     time.Duration
	StorageBackend string
	DatabaseURL    string
	HTTPPort       string
	LogLevel       string
	LogFormat      string
}

// LoadConfig reads .env (when present) and the environment.
// A missing model credential is not fatal: the analysis client serves canned
// content until one is configured.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}

	cfg := Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),
		LLMTimeout:   getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		DatabaseURL:  getEnv("DATABASE_URL", "mirror_world.db"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		LogLevel:     strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "console")),
	}
	cfg.LLMProvider = resolveProvider(getEnv("LLM_PROVIDER", ""), cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	cfg.StorageBackend = resolveBackend(getEnv("STORAGE_BACKEND", ""), cfg.DatabaseURL)

	if cfg.APIKey() == "" {
		log.Warn().Str("provider", cfg.LLMProvider).
			Msg("No model credential configured; questions, analysis and profiles will use fallback content")
	}
	return cfg
}

// APIKey returns the credential for the selected provider.
func (c Config) APIKey() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Model returns the model name for the selected provider.
func (c Config) Model() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

func resolveProvider(explicit, geminiKey, openAIKey string) string {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case ProviderOpenAI:
		return ProviderOpenAI
	case ProviderGemini:
		return ProviderGemini
	}
	if geminiKey == "" && openAIKey != "" {
		return ProviderOpenAI
	}
	return ProviderGemini
}

func resolveBackend(explicit, databaseURL string) string {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case BackendPostgres:
		return BackendPostgres
	case BackendMemory:
		return BackendMemory
	case BackendSQLite:
		return BackendSQLite
	}
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return BackendPostgres
	}
	return BackendSQLite
}

// getEnv treats an empty variable the same as an unset one.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("45s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil && d > 0 {
		return d
	}
	if secs := getEnvAsInt(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
