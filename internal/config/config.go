// Package config provides configuration parsing for the revtree store.
package config

// Config holds the complete store configuration.
type Config struct {
	Storage StorageConfig
	Logging LogConfig
}

// StorageConfig holds storage engine configuration.
type StorageConfig struct {
	// DataDir is the directory holding the backing record store.
	DataDir string

	// TreeName is the index root path in the document tree.
	TreeName string

	// Order is the maximum number of keys per index page.
	Order int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
	Output string
}
