package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays environment variables. A .env file in the working
// directory is loaded first when present; variables already set in the
// process environment win over it.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.HTTPAddr, os.Getenv("HTTP_ADDR"))
	setString(&config.StorageDriver, os.Getenv("STORAGE_DRIVER"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setString(&config.SessionStore, os.Getenv("SESSION_STORE"))
	setString(&config.RedisAddr, os.Getenv("REDIS_ADDR"))
	setString(&config.RedisPassword, os.Getenv("REDIS_PASSWORD"))
	setString(&config.SecretKey, os.Getenv("JWT_SECRET"))
	setString(&config.CompletionProvider, os.Getenv("COMPLETION_PROVIDER"))
	setString(&config.OllamaBaseURL, os.Getenv("OLLAMA_URL"))
	setString(&config.OllamaModel, os.Getenv("OLLAMA_MODEL"))
	setString(&config.GeminiAPIKey, os.Getenv("GEMINI_API_KEY"))
	setString(&config.GeminiModel, os.Getenv("GEMINI_MODEL"))
	setString(&config.SystemPrompt, os.Getenv("SYSTEM_PROMPT"))
	setString(&config.LogFormat, os.Getenv("LOG_FORMAT"))
	setString(&config.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&config.LogFile, os.Getenv("LOG_FILE"))

	config.SessionValidity = getEnvAsDuration("SESSION_VALIDITY", config.SessionValidity)
	config.CompletionTimeout = getEnvAsDuration("COMPLETION_TIMEOUT", config.CompletionTimeout)
	config.MinPasswordLength = getEnvAsInt("MIN_PASSWORD_LENGTH", config.MinPasswordLength)
	config.BcryptCost = getEnvAsInt("BCRYPT_COST", config.BcryptCost)
	config.CookieSecure = getEnvAsBool("COOKIE_SECURE", config.CookieSecure)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		config.AllowedOrigins = splitList(v)
	}
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
