package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the learntabs binary.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Inference InferenceConfig `mapstructure:"inference"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type GeneralConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // console or json
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

func (s ServerConfig) Normalize() ServerConfig {
	s.Address = strings.TrimSpace(s.Address)
	if s.Address == "" {
		s.Address = ":10001"
	}
	if s.Address[0] != ':' && !strings.Contains(s.Address, ":") {
		s.Address = ":" + s.Address
	}
	return s
}

// RetrievalConfig controls the source adapters.
type RetrievalConfig struct {
	Timeout   time.Duration     `mapstructure:"timeout"`
	UserAgent string            `mapstructure:"user_agent"`
	Disabled  []string          `mapstructure:"disabled"`
	Endpoints map[string]string `mapstructure:"endpoints"`
}

func (r RetrievalConfig) Validate() error {
	if r.Timeout <= 0 {
		return fmt.Errorf("retrieval.timeout must be > 0")
	}
	for name, endpoint := range r.Endpoints {
		if strings.TrimSpace(endpoint) == "" {
			continue
		}
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			return fmt.Errorf("retrieval.endpoints.%s must be an http(s) URL", name)
		}
	}
	return nil
}

// InferenceConfig describes the hosted text-generation endpoint. Token and
// Model are fallbacks for values missing from the settings store.
type InferenceConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Token        string        `mapstructure:"token"`
	Model        string        `mapstructure:"model"`
	MaxNewTokens int           `mapstructure:"max_new_tokens"`
	Temperature  float64       `mapstructure:"temperature"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

func (c InferenceConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("inference.timeout must be > 0")
	}
	if c.MaxNewTokens <= 0 {
		return fmt.Errorf("inference.max_new_tokens must be > 0")
	}
	if c.Temperature < 0 {
		return fmt.Errorf("inference.temperature cannot be negative")
	}
	return nil
}

type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig points at the settings store. An empty Host disables it.
type RedisConfig struct {
	Host      string        `mapstructure:"host"`
	Port      string        `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	Timeout   time.Duration `mapstructure:"timeout"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

func (r RedisConfig) Validate() error {
	if !r.Enabled() {
		return nil
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port is required when storage.redis.host is set")
	}
	if r.DB < 0 {
		return fmt.Errorf("storage.redis.db cannot be negative")
	}
	return nil
}

type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.log_format", "console")
	v.SetDefault("server.address", ":10001")
	v.SetDefault("retrieval.timeout", 15*time.Second)
	v.SetDefault("retrieval.user_agent", "learntabs/1.0 (+https://github.com/mohammad-safakhou/learntabs)")
	v.SetDefault("retrieval.disabled", []string{})
	v.SetDefault("retrieval.endpoints", map[string]string{})
	v.SetDefault("inference.base_url", "https://api-inference.huggingface.co/models")
	v.SetDefault("inference.token", "")
	v.SetDefault("inference.model", "Qwen/Qwen2.5-0.5B-Instruct")
	v.SetDefault("inference.max_new_tokens", 400)
	v.SetDefault("inference.temperature", 0.7)
	v.SetDefault("inference.timeout", 30*time.Second)
	v.SetDefault("storage.redis.host", "")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", 2*time.Second)
	v.SetDefault("storage.redis.key_prefix", "learntabs:settings:")
	v.SetDefault("telemetry.enabled", true)
}

// LoadConfig reads config.json from the usual locations, or path when set,
// and overlays LEARNTABS_* environment variables. A missing config file is
// fine when path is empty; every setting has a default.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("LEARNTABS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Server = cfg.Server.Normalize()

	if err := cfg.Retrieval.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Inference.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Redis.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
