// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the corechat server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - StorageDriver: "memory", "postgres" (pgx) or "sqlite" (modernc); DatabaseDSN is its DSN.
//   - SessionStore: "database" keeps session records next to accounts, "redis" uses RedisAddr.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use the default in prod.
//   - SessionValidity: lifetime of a login session.
//   - MinPasswordLength / BcryptCost: credential policy.
//   - CookieSecure / AllowedOrigins: browser-facing settings.
//   - CompletionProvider: "ollama", "gemini" or "echo", plus provider specific settings.
//   - BreakerFailures / BreakerOpenTimeout: circuit breaker around the completion provider.
//   - SystemPrompt: preamble sent ahead of the conversation, never stored.
//   - LogFormat / LogLevel / LogFile: see logging.Options.
type Config struct {
	HTTPAddr           string
	StorageDriver      string
	DatabaseDSN        string
	SessionStore       string
	RedisAddr          string
	RedisPassword      string
	SecretKey          string
	SessionValidity    time.Duration
	MinPasswordLength  int
	BcryptCost         int
	CookieSecure       bool
	AllowedOrigins     []string
	CompletionProvider string
	CompletionTimeout  time.Duration
	OllamaBaseURL      string
	OllamaModel        string
	GeminiAPIKey       string
	GeminiModel        string
	BreakerFailures    uint32
	BreakerOpenTimeout time.Duration
	SystemPrompt       string
	LogFormat          string
	LogLevel           string
	LogFile            string
}

const DefaultSystemPrompt = "You are Core X AI v3.0, an intelligent assistant running on Ollama with Llama 3.2. " +
	"You help users with questions, coding, problem-solving, and creative tasks. Be helpful, clear, and concise."

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside of local development.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.StorageDriver = "memory"
	c.DatabaseDSN = ""
	c.SessionStore = "database"
	c.RedisAddr = "localhost:6379"
	c.RedisPassword = ""
	c.SecretKey = "your-secret-key-change-in-production"
	c.SessionValidity = 7 * 24 * time.Hour
	c.MinPasswordLength = 8
	c.BcryptCost = 10
	c.CookieSecure = false
	c.AllowedOrigins = []string{"http://localhost:5000"}
	c.CompletionProvider = "ollama"
	c.CompletionTimeout = 120 * time.Second
	c.OllamaBaseURL = "http://127.0.0.1:11434"
	c.OllamaModel = "llama3.2:3b"
	c.GeminiAPIKey = ""
	c.GeminiModel = "gemini-2.5-flash"
	c.BreakerFailures = 5
	c.BreakerOpenTimeout = 30 * time.Second
	c.SystemPrompt = DefaultSystemPrompt
	c.LogFormat = "slog"
	c.LogLevel = "info"
	c.LogFile = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (.env included) and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
