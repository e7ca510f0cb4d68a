package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrEmptyDataDir  = errors.New("storage.dataDir cannot be empty")
	ErrEmptyTreeName = errors.New("storage.treeName cannot be empty")
	ErrInvalidOrder  = errors.New("storage.order must be at least 4")
	ErrInvalidLevel  = errors.New("invalid logging.level")
	ErrInvalidFormat = errors.New("invalid logging.format")
)

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return ErrEmptyDataDir
	}
	if c.Storage.TreeName == "" {
		return ErrEmptyTreeName
	}
	if c.Storage.Order < 4 {
		return fmt.Errorf("%w: got %d", ErrInvalidOrder, c.Storage.Order)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Logging.Format)
	}
	return nil
}
