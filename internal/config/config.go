package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env             string        `mapstructure:"env"`              // current application environment (local, dev, prod etc)
	ServerPort      string        `mapstructure:"server_port"`      // HTTP listen port
	DatabaseType    string        `mapstructure:"database_type"`    // sqlite, postgres or mysql; empty disables persistence
	DatabasePath    string        `mapstructure:"database_path"`    // SQLite file path
	DatabaseURL     string        `mapstructure:"-"`                // PostgreSQL/MySQL connection string loaded from environment
	MigrationsPath  string        `mapstructure:"migrations_path"`  // directory holding per-dialect migration files
	DictionaryPath  string        `mapstructure:"dictionary_path"`  // path to the bundled dictionary JSON
	SessionSecret   string        `mapstructure:"-"`                // HMAC secret for session tokens, loaded from environment
	SessionTokenTTL time.Duration `mapstructure:"session_token_ttl"`
	TTS             TTS           `mapstructure:"tts"` // text-to-speech configuration section
}

// TTS contains text-to-speech engine configuration.
type TTS struct {
	PreferredEngine string   `mapstructure:"preferred_engine"` // espeak, opentts or cache; empty uses the fallback order
	FallbackOrder   []string `mapstructure:"fallback_order"`   // engine probe order
	OpenTTSBaseURL  string   `mapstructure:"opentts_base_url"` // base URL of an OpenTTS server; empty disables the HTTP engine
	AudioCacheDir   string   `mapstructure:"audio_cache_dir"`  // directory for synthesized/pre-generated audio files
	Voice           string   `mapstructure:"voice"`            // engine-specific voice identifier
	Language        string   `mapstructure:"language"`         // BCP-47 language tag
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("env", "local")
	v.SetDefault("server_port", "8080")
	v.SetDefault("database_type", "sqlite")
	v.SetDefault("database_path", "./spellingbee.db")
	v.SetDefault("migrations_path", "./migrations")
	v.SetDefault("dictionary_path", "./data/dictionary.json")
	v.SetDefault("session_token_ttl", "24h")
	v.SetDefault("tts.preferred_engine", "")
	v.SetDefault("tts.fallback_order", []string{"espeak", "opentts", "cache"})
	v.SetDefault("tts.opentts_base_url", "")
	v.SetDefault("tts.audio_cache_dir", "./audio")
	v.SetDefault("tts.voice", "")
	v.SetDefault("tts.language", "en-US")

	// Map nested keys to ENV style names (tts.voice -> TTS_VOICE).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("session_secret", "SESSION_SECRET")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.SessionSecret = v.GetString("session_secret")
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("%w: SESSION_SECRET", ErrMissingEnvironmentVariables)
	}

	cfg.DatabaseURL = v.GetString("database_url")
	switch strings.ToLower(cfg.DatabaseType) {
	case "postgres", "postgresql", "mysql":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL required for database type %s",
				ErrMissingEnvironmentVariables, cfg.DatabaseType)
		}
	}

	return &cfg, nil
}
