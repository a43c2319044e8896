// Package config loads pathwise settings from an optional YAML file and
// PATHWISE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/store"
)

// EnvPrefix is prepended to every environment override, for example
// PATHWISE_SERVER_ADDR or PATHWISE_LLM_GEMINI_API_KEY.
const EnvPrefix = "PATHWISE"

type Config struct {
	Server   ServerConfig  `mapstructure:"server"`
	Database store.Config  `mapstructure:"database"`
	Log      logger.Config `mapstructure:"log"`
	LLM      llm.Config    `mapstructure:"llm"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode      string          `mapstructure:"mode"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RateLimitConfig allows MaxRequests per Window per client on the
// generation endpoints. Zero MaxRequests disables the limit.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

func defaults() map[string]any {
	l := llm.DefaultConfig()
	lg := logger.DefaultConfig()
	return map[string]any{
		"server.addr":                    ":8080",
		"server.mode":                    "release",
		"server.rate_limit.max_requests": 30,
		"server.rate_limit.window":       time.Minute,
		"server.shutdown_timeout":        10 * time.Second,

		"database.driver": store.DriverSQLite,
		"database.dsn":    "",

		"log.level":        lg.Level,
		"log.console":      lg.Console,
		"log.file":         lg.File,
		"log.max_size_mb":  lg.MaxSizeMB,
		"log.max_backups":  lg.MaxBackups,
		"log.max_age_days": lg.MaxAgeDays,

		"llm.provider":            l.Provider,
		"llm.gemini.api_key":      "",
		"llm.gemini.model":        l.Gemini.Model,
		"llm.openai.api_key":      "",
		"llm.openai.model":        l.OpenAI.Model,
		"llm.openai.base_url":     "",
		"llm.anthropic.api_key":   "",
		"llm.anthropic.model":     l.Anthropic.Model,
		"llm.openrouter.api_key":  "",
		"llm.openrouter.model":    l.OpenRouter.Model,
		"llm.openrouter.base_url": "",
		"llm.retry.max_attempts":  l.Retry.MaxAttempts,
		"llm.retry.initial_wait":  l.Retry.InitialWait,
		"llm.retry.max_wait":      l.Retry.MaxWait,
		"llm.retry.multiplier":    l.Retry.Multiplier,
		"llm.timeout":             l.Timeout,
		"llm.max_tokens":          l.MaxTokens,
	}
}

// Load reads configuration. path names an explicit config file; when empty,
// pathwise.yaml is looked up in the working directory and in
// $XDG_CONFIG_HOME/pathwise, and a missing file is not an error.
//
// When the selected LLM provider has no key configured, the conventional
// GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY and OPENROUTER_API_KEY
// variables are probed.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults() {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pathwise")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if !cfg.LLM.HasKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			adoptKey(&cfg.LLM, found)
		}
	}

	return &cfg, nil
}

// adoptKey copies the discovered provider and its key, keeping the rest
// of the configured settings.
func adoptKey(dst *llm.Config, found llm.Config) {
	dst.Provider = found.Provider
	switch found.Provider {
	case llm.ProviderGemini:
		dst.Gemini.APIKey = found.Gemini.APIKey
	case llm.ProviderOpenAI:
		dst.OpenAI.APIKey = found.OpenAI.APIKey
	case llm.ProviderAnthropic:
		dst.Anthropic.APIKey = found.Anthropic.APIKey
	case llm.ProviderOpenRouter:
		dst.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
}

func configDir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "pathwise"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pathwise"), nil
}
