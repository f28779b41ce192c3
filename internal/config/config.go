// Package config defines the persisted source configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Source type values as stored in the config record.
const (
	SourceNone    = ""
	SourceFile    = "file"
	SourceJournal = "journalctl"
)

// DefaultMaxLines is the retained-line limit when none is configured.
const DefaultMaxLines = 500

// Config is the source configuration record. It is immutable once applied
// to a session.
type Config struct {
	// SourceType is one of SourceNone, SourceFile, SourceJournal.
	SourceType string `mapstructure:"sourceType" json:"sourceType"`
	// FilePath is the file to tail; required when SourceType is SourceFile.
	FilePath string `mapstructure:"filePath" json:"filePath"`
	// JournalUnit restricts journalctl to one unit; empty streams all.
	JournalUnit string `mapstructure:"journalUnit" json:"journalUnit"`
	// MaxLines is the buffer capacity.
	MaxLines int `mapstructure:"maxLines" json:"maxLines"`
}

// Default returns an unconfigured record with the default capacity.
func Default() Config {
	return Config{MaxLines: DefaultMaxLines}
}

// Validate checks the record for internal consistency.
func (c Config) Validate() error {
	switch c.SourceType {
	case SourceNone, SourceFile, SourceJournal:
	default:
		return fmt.Errorf("unknown sourceType %q", c.SourceType)
	}
	if c.SourceType == SourceFile && c.FilePath == "" {
		return fmt.Errorf("filePath is required for sourceType %q", SourceFile)
	}
	if c.MaxLines < 1 {
		return fmt.Errorf("maxLines must be >= 1, got %d", c.MaxLines)
	}
	return nil
}

// Load reads and validates a config record from a file.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("maxLines", DefaultMaxLines)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the record as JSON, the format the host persistence layer
// uses.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
