package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrMissingAPIKey = errors.New("missing required env GOOGLE_API_KEY")

type Config struct {
	Port string `yaml:"port"`

	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`

	UploadDir         string `yaml:"uploadDir"`
	MaxUploadSize     string `yaml:"maxUploadSize"`
	RequestTimeoutSec int    `yaml:"requestTimeoutSec"`

	Debug bool `yaml:"debug"`
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func defaults() *Config {
	return &Config{
		Port:              "5005",
		Model:             "gemini-1.5-flash",
		UploadDir:         filepath.Join(os.TempDir(), "leaf-doctor"),
		MaxUploadSize:     "10M",
		RequestTimeoutSec: 60,
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE and the environment, in that order of precedence (env wins).
func Load() (*Config, error) {
	cfg := defaults()

	if p := getEnv("CONFIG_FILE", ""); p != "" {
		if err := cfg.loadFile(p); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.APIKey = getEnv("GOOGLE_API_KEY", cfg.APIKey)
	cfg.Model = getEnv("GEMINI_MODEL", cfg.Model)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.MaxUploadSize = getEnv("MAX_UPLOAD_SIZE", cfg.MaxUploadSize)

	if v, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT", "")); err == nil && v > 0 {
		cfg.RequestTimeoutSec = v
	}
	if v, err := strconv.ParseBool(getEnv("DEBUG", "")); err == nil {
		cfg.Debug = v
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// RequestTimeout bounds a single upstream inference call.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeoutSec) * time.Second
}
