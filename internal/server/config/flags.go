package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/corechat/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-m string   storage driver: memory, postgres, sqlite
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      session validity, minutes
//	-r string   redis address, used when SessionStore is "redis"
//	-p string   completion provider: ollama, gemini, echo
//	-u string   Ollama base URL
//	-o string   Ollama model
//
// Only the flags defined here are parsed (see flagx.ParseKnown), so -c/-config
// and unknown flags do not break parsing.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "m", config.StorageDriver, "storage driver (memory, postgres, sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidity.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.CompletionProvider, "p", config.CompletionProvider, "completion provider (ollama, gemini, echo)")
	fs.StringVar(&config.OllamaBaseURL, "u", config.OllamaBaseURL, "Ollama base URL")
	fs.StringVar(&config.OllamaModel, "o", config.OllamaModel, "Ollama model")

	if err := flagx.ParseKnown(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	// -t only overrides the JSON/env value when it was given
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionValidity = time.Duration(*sessionValidity) * time.Minute
		}
	})
}
