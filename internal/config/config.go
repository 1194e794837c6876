// Package config handles loading and validating the vitalog configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the vitalog daemon.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Inference InferenceConfig `mapstructure:"inference"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds the API and health server settings.
type ServerConfig struct {
	Port       int `mapstructure:"port"`
	HealthPort int `mapstructure:"health_port"`
}

// InferenceConfig selects and configures the LLM backend.
type InferenceConfig struct {
	Backend string       `mapstructure:"backend"` // "openai" or "local"
	OpenAI  OpenAIConfig `mapstructure:"openai"`
	Local   LocalConfig  `mapstructure:"local"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey             string        `mapstructure:"api_key"`
	BaseURL            string        `mapstructure:"base_url"`
	Model              string        `mapstructure:"model"`
	TranscriptionModel string        `mapstructure:"transcription_model"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

// LocalConfig holds self-hosted LLM settings. Any OpenAI-compatible chat
// endpoint works (Ollama, vLLM, llama.cpp server).
type LocalConfig struct {
	ChatEndpoint    string        `mapstructure:"chat_endpoint"`
	Model           string        `mapstructure:"model"`
	WhisperEndpoint string        `mapstructure:"whisper_endpoint"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// StoreConfig holds the embedded record-store settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./vitalog.yaml, ./configs/vitalog.yaml, /etc/vitalog/vitalog.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("inference.backend", "openai")
	v.SetDefault("inference.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("inference.openai.model", "gpt-4o")
	v.SetDefault("inference.openai.transcription_model", "gpt-4o-transcribe")
	v.SetDefault("inference.openai.timeout", "60s")
	v.SetDefault("inference.local.chat_endpoint", "http://localhost:11434/v1/chat/completions")
	v.SetDefault("inference.local.model", "llama3")
	v.SetDefault("inference.local.whisper_endpoint", "http://localhost:8000/v1/audio/transcriptions")
	v.SetDefault("inference.local.timeout", "120s")
	v.SetDefault("store.path", "vitalog.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("vitalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/vitalog")
	}

	// Environment variables: VITALOG_SERVER_PORT, VITALOG_INFERENCE_BACKEND, etc.
	v.SetEnvPrefix("VITALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}")
	cfg.Inference.OpenAI.APIKey = resolveEnvRef(cfg.Inference.OpenAI.APIKey)

	return &cfg, nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
