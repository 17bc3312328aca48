package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultModel             = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens         = 1024
	DefaultAPIKeyEnv         = "ANTHROPIC_API_KEY"
	DefaultActivityRetention = 30
	DefaultLogLevel          = "info"
)

// envKeyReplacer maps nested keys to env names: storage.path -> STORAGE_PATH.
var envKeyReplacer = strings.NewReplacer(".", "_")

// StorageConfig controls the local entity store.
type StorageConfig struct {
	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`

	// Latency is an artificial delay applied before every repository
	// operation. Zero disables it.
	Latency time.Duration `mapstructure:"latency" yaml:"latency"`

	// ActivityRetention is how many activity entries each project keeps.
	ActivityRetention int `mapstructure:"activity_retention" yaml:"activity_retention"`
}

// AIConfig holds settings for the generative-text collaborator.
type AIConfig struct {
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`

	// APIKeyEnv names the environment variable consulted before the keyring.
	APIKeyEnv string `mapstructure:"api_key_env" yaml:"api_key_env"`
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	// Secret signs the cosmetic session token.
	Secret string `mapstructure:"secret" yaml:"secret"`
}

// CredentialConfig selects where secrets are kept.
type CredentialConfig struct {
	// Backend forces a keyring backend ("file", "keychain", ...). Empty
	// lets the keyring pick the best available one.
	Backend string `mapstructure:"backend" yaml:"backend"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	AI         AIConfig         `mapstructure:"ai" yaml:"ai"`
	Session    SessionConfig    `mapstructure:"session" yaml:"session"`
	Credential CredentialConfig `mapstructure:"credential" yaml:"credential"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/zenith, falling back to the working directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "zenith")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/zenith/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		Storage: StorageConfig{
			Path:              filepath.Join(dir, "zenith.db"),
			ActivityRetention: DefaultActivityRetention,
		},
		AI: AIConfig{
			Model:     DefaultModel,
			MaxTokens: DefaultMaxTokens,
			APIKeyEnv: DefaultAPIKeyEnv,
		},
		Session: SessionConfig{
			Secret: "zenith-local-session",
		},
		Credential: CredentialConfig{
			Dir: filepath.Join(dir, "credentials"),
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with ZENITH_ override file values
// (ZENITH_STORAGE_PATH, ZENITH_LOG_LEVEL, ...). A missing file yields the
// defaults.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("zenith")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.latency", def.Storage.Latency)
	v.SetDefault("storage.activity_retention", def.Storage.ActivityRetention)
	v.SetDefault("ai.model", def.AI.Model)
	v.SetDefault("ai.max_tokens", def.AI.MaxTokens)
	v.SetDefault("ai.api_key_env", def.AI.APIKeyEnv)
	v.SetDefault("session.secret", def.Session.Secret)
	v.SetDefault("credential.backend", def.Credential.Backend)
	v.SetDefault("credential.dir", def.Credential.Dir)
	v.SetDefault("log.level", def.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Storage.ActivityRetention <= 0 {
		cfg.Storage.ActivityRetention = DefaultActivityRetention
	}
	if cfg.Storage.Latency < 0 {
		cfg.Storage.Latency = 0
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = DefaultMaxTokens
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", map[string]any{
		"path":               cfg.Storage.Path,
		"latency":            cfg.Storage.Latency.String(),
		"activity_retention": cfg.Storage.ActivityRetention,
	})
	v.Set("ai", map[string]any{
		"model":       cfg.AI.Model,
		"max_tokens":  cfg.AI.MaxTokens,
		"api_key_env": cfg.AI.APIKeyEnv,
	})
	v.Set("session", map[string]any{"secret": cfg.Session.Secret})
	v.Set("credential", map[string]any{
		"backend": cfg.Credential.Backend,
		"dir":     cfg.Credential.Dir,
	})
	v.Set("log", map[string]any{"level": cfg.Log.Level})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
