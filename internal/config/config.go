package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку.
var ErrInvalidConfig = errors.New("invalid config")

const (
	configName = "studyquiz"
	envPrefix  = "STUDYQUIZ"
)

// Бэкенды генерации
const (
	BackendHTTP   = "http"
	BackendOpenAI = "openai"
)

// Типы хранилищ
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Storage   StorageConfig   `mapstructure:"storage"`
	User      UserConfig      `mapstructure:"user"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type GeneratorConfig struct {
	Backend       string        `mapstructure:"backend"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type StorageConfig struct {
	Type string `mapstructure:"type"`
	DSN  string `mapstructure:"dsn"`
}

type UserConfig struct {
	ID string `mapstructure:"id"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MetricsConfig struct {
	// Addr пустой, если метрики не нужны.
	Addr string `mapstructure:"addr"`
}

// Load читает конфигурацию из каталога dir: сначала .env, затем studyquiz.yaml
// и переменные окружения с префиксом STUDYQUIZ_. Оба файла необязательны.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.BindEnv("openai.api_key", envPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("generator.backend", BackendHTTP)
	v.SetDefault("generator.base_url", "http://localhost:8080")
	v.SetDefault("generator.timeout", 60*time.Second)
	v.SetDefault("generator.rate_per_minute", 10)

	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o")

	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.dsn", "")

	v.SetDefault("user.id", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.addr", "")
}

// Validate проверяет значения конфигурации.
func (c *Config) Validate() error {
	switch c.Generator.Backend {
	case BackendHTTP:
		if c.Generator.BaseURL == "" {
			return fmt.Errorf("%w, generator.base_url is required for http backend", ErrInvalidConfig)
		}
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w, openai.api_key is required for openai backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w, unknown generator backend %q", ErrInvalidConfig, c.Generator.Backend)
	}

	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("%w, generator.timeout must be positive", ErrInvalidConfig)
	}

	if c.Generator.RatePerMinute < 0 {
		return fmt.Errorf("%w, generator.rate_per_minute must not be negative", ErrInvalidConfig)
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres, StorageSQLite:
		if c.Storage.DSN == "" {
			return fmt.Errorf("%w, storage.dsn is required for %s storage", ErrInvalidConfig, c.Storage.Type)
		}
	default:
		return fmt.Errorf("%w, unknown storage type %q", ErrInvalidConfig, c.Storage.Type)
	}

	if c.User.ID == "" {
		return fmt.Errorf("%w, user.id is required", ErrInvalidConfig)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel возвращает уровень логирования для slog.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w, unknown log level %q", ErrInvalidConfig, l.Level)
	}

	return level, nil
}
