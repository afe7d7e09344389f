package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/corechat/internal/flagx"
	"github.com/dmitrijs2005/corechat/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "168h" and integer nanoseconds are accepted.
// Absent keys leave the corresponding Config field untouched.
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	StorageDriver      string         `json:"storage_driver"`
	DatabaseDSN        string         `json:"database_dsn"`
	SessionStore       string         `json:"session_store"`
	RedisAddr          string         `json:"redis_addr"`
	RedisPassword      string         `json:"redis_password"`
	SecretKey          string         `json:"secret_key"`
	SessionValidity    timex.Duration `json:"session_validity"`
	MinPasswordLength  int            `json:"min_password_length"`
	BcryptCost         int            `json:"bcrypt_cost"`
	CookieSecure       *bool          `json:"cookie_secure"`
	AllowedOrigins     []string       `json:"allowed_origins"`
	CompletionProvider string         `json:"completion_provider"`
	CompletionTimeout  timex.Duration `json:"completion_timeout"`
	OllamaBaseURL      string         `json:"ollama_base_url"`
	OllamaModel        string         `json:"ollama_model"`
	GeminiAPIKey       string         `json:"gemini_api_key"`
	GeminiModel        string         `json:"gemini_model"`
	BreakerFailures    uint32         `json:"breaker_failures"`
	BreakerOpenTimeout timex.Duration `json:"breaker_open_timeout"`
	SystemPrompt       string         `json:"system_prompt"`
	LogFormat          string         `json:"log_format"`
	LogLevel           string         `json:"log_level"`
	LogFile            string         `json:"log_file"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics: the server must not start on a
// half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SessionStore, c.SessionStore)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CompletionProvider, c.CompletionProvider)
	setString(&config.OllamaBaseURL, c.OllamaBaseURL)
	setString(&config.OllamaModel, c.OllamaModel)
	setString(&config.GeminiAPIKey, c.GeminiAPIKey)
	setString(&config.GeminiModel, c.GeminiModel)
	setString(&config.SystemPrompt, c.SystemPrompt)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFile, c.LogFile)

	if c.SessionValidity.Duration > 0 {
		config.SessionValidity = c.SessionValidity.Duration
	}
	if c.CompletionTimeout.Duration > 0 {
		config.CompletionTimeout = c.CompletionTimeout.Duration
	}
	if c.BreakerOpenTimeout.Duration > 0 {
		config.BreakerOpenTimeout = c.BreakerOpenTimeout.Duration
	}
	if c.MinPasswordLength > 0 {
		config.MinPasswordLength = c.MinPasswordLength
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.BreakerFailures > 0 {
		config.BreakerFailures = c.BreakerFailures
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
