package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Parser errors.
var (
	ErrFileNotFound  = errors.New("configuration file not found")
	ErrInvalidLine   = errors.New("invalid configuration line")
	ErrUnknownKey    = errors.New("unknown configuration key")
	ErrInvalidNumber = errors.New("invalid number format")
)

// Load loads configuration from a file path.
// It reads the file, substitutes environment variables, parses the
// key: value lines, and applies defaults for missing values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return Parse(data)
}

// Parse parses configuration data. The format is a flat list of
// dotted "section.key: value" lines; '#' starts a comment.
func Parse(data []byte) (*Config, error) {
	data = substituteEnvVars(data)
	cfg := DefaultConfig()

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidLine, i+1, line)
		}
		if err := cfg.set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return cfg, nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "storage.dataDir":
		c.Storage.DataDir = value
	case "storage.treeName":
		c.Storage.TreeName = value
	case "storage.order":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidNumber, value)
		}
		c.Storage.Order = n
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.output":
		c.Logging.Output = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values.
func substituteEnvVars(data []byte) []byte {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllFunc(data, func(match []byte) []byte {
		content := string(match[2 : len(match)-1])

		if idx := strings.Index(content, ":-"); idx != -1 {
			if val := os.Getenv(content[:idx]); val != "" {
				return []byte(val)
			}
			return []byte(content[idx+2:])
		}
		return []byte(os.Getenv(content))
	})
}
