// Package config provides configuration loading for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/coincat/coincat/internal/ai"
	"github.com/coincat/coincat/internal/rules"
)

// Config is the resolved application configuration.
type Config struct {
	// Rules locates the three tier files.
	Rules rules.Paths
	// Threshold is the minimum confidence for auto-categorization.
	Threshold float64
	// Workers bounds batch concurrency.
	Workers int
	// AI configures the categorization collaborator. An empty provider
	// disables AI fallback.
	AI ai.Config
	// Ledger is the path to a GnuCash book (SQLite or XML), when one is
	// configured.
	Ledger string
	// Categories is the static category list offered to the AI
	// collaborator when no ledger provides one.
	Categories []string
	// LogLevel and LogFormat feed the logger setup.
	LogLevel  string
	LogFormat string
}

// Load resolves configuration from viper: config file values, COINCAT_* env
// vars and flag bindings, with provider API keys falling back to their
// conventional environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Rules: rules.Paths{
			Manual:  ExpandPath(viper.GetString("rules.manual")),
			History: ExpandPath(viper.GetString("rules.history")),
			AI:      ExpandPath(viper.GetString("rules.ai")),
		},
		Threshold:  viper.GetFloat64("threshold"),
		Workers:    viper.GetInt("workers"),
		Ledger:     ExpandPath(viper.GetString("ledger.path")),
		Categories: viper.GetStringSlice("categories"),
		LogLevel:   viper.GetString("log.level"),
		LogFormat:  viper.GetString("log.format"),
		AI: ai.Config{
			Provider:    strings.ToLower(viper.GetString("ai.provider")),
			APIKey:      viper.GetString("ai.api_key"),
			Model:       viper.GetString("ai.model"),
			MaxRetries:  viper.GetInt("ai.max_retries"),
			RetryDelay:  viper.GetDuration("ai.retry_delay"),
			RateLimit:   viper.GetInt("ai.rate_limit"),
			Temperature: viper.GetFloat64("ai.temperature"),
			MaxTokens:   viper.GetInt("ai.max_tokens"),
		},
	}

	if cfg.Threshold == 0 {
		cfg.Threshold = 0.3
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("threshold %v outside [0,1]", cfg.Threshold)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	defaultDir := DefaultRulesDir()
	if cfg.Rules.Manual == "" {
		cfg.Rules.Manual = filepath.Join(defaultDir, "manual.yaml")
	}
	if cfg.Rules.History == "" {
		cfg.Rules.History = filepath.Join(defaultDir, "history.yaml")
	}
	if cfg.Rules.AI == "" {
		cfg.Rules.AI = filepath.Join(defaultDir, "ai.yaml")
	}

	// Provider API keys come from the environment when the config file
	// leaves them out; .env preloading makes this the common case.
	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case "openai":
			cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	return cfg, nil
}

// DefaultRulesDir is where tier files live unless configured otherwise.
func DefaultRulesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rules"
	}
	return filepath.Join(home, ".config", "coincat", "rules")
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
