package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/matkrin/shtokd/internal/document"
	"gopkg.in/yaml.v3"
)

// LoadFrom returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; an empty path or a missing file is not an error.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if yamlPath != "" {
		if err := loadYAML(&cfg, yamlPath); err != nil {
			return nil, fmt.Errorf("config yaml: %w", err)
		}
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays non-empty environment variables onto cfg.
func loadEnv(cfg *Config) {
	setString(&cfg.Logging.Level, "SHTOKD_LOG_LEVEL")
	setString(&cfg.Logging.File, "SHTOKD_LOG_FILE")
	setString(&cfg.PositionEncoding, "SHTOKD_POSITION_ENCODING")
	setBool(&cfg.SemanticTokens.Delta, "SHTOKD_SEMANTIC_TOKENS_DELTA")
	setBool(&cfg.SemanticTokens.FullOnUnknownResult, "SHTOKD_SEMANTIC_TOKENS_FULL_ON_UNKNOWN_RESULT")
	setInt(&cfg.SemanticTokens.MaxConcurrent, "SHTOKD_SEMANTIC_TOKENS_MAX_CONCURRENT")
	setDuration(&cfg.SemanticTokens.Timeout, "SHTOKD_SEMANTIC_TOKENS_TIMEOUT")
}

func validate(cfg *Config) error {
	if _, err := document.ParseEncoding(cfg.PositionEncoding); err != nil {
		return fmt.Errorf("positionEncoding: %w", err)
	}
	if cfg.SemanticTokens.MaxConcurrent < 1 {
		return errors.New("semanticTokens.maxConcurrent must be >= 1")
	}
	if cfg.SemanticTokens.Timeout <= 0 {
		return errors.New("semanticTokens.timeout must be positive")
	}
	return nil
}

// Encoding returns the validated position encoding.
func (c *Config) Encoding() document.Encoding {
	enc, err := document.ParseEncoding(c.PositionEncoding)
	if err != nil {
		return document.UTF16
	}
	return enc
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
