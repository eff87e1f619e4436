package config

import "time"

// Config is the server configuration.
type Config struct {
	Logging          Logging        `yaml:"logging"`
	PositionEncoding string         `yaml:"positionEncoding"`
	SemanticTokens   SemanticTokens `yaml:"semanticTokens"`
}

type Logging struct {
	Level string `yaml:"level"`
	// Empty means stderr. Stdout carries the protocol stream.
	File string `yaml:"file"`
}

type SemanticTokens struct {
	// Advertise textDocument/semanticTokens/full/delta.
	Delta bool `yaml:"delta"`
	// Answer a delta request naming an unknown resultId with a full result
	// instead of an error.
	FullOnUnknownResult bool          `yaml:"fullOnUnknownResult"`
	MaxConcurrent       int           `yaml:"maxConcurrent"`
	Timeout             time.Duration `yaml:"timeout"`
}

func Defaults() Config {
	return Config{
		Logging: Logging{
			Level: "info",
		},
		PositionEncoding: "utf-16",
		SemanticTokens: SemanticTokens{
			Delta:         true,
			MaxConcurrent: 4,
			Timeout:       5 * time.Second,
		},
	}
}
