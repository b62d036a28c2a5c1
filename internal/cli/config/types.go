// Package config provides configuration management for the pgask CLI.
package config

import "github.com/leapstack-labs/pgask/pkg/catalog"

// TargetConfig is an alias for the catalog connection configuration.
type TargetConfig = catalog.Config

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Config holds all CLI configuration options.
type Config struct {
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	LogLevel     string               `koanf:"log_level"`
	OutputFormat string               `koanf:"output"`
	Format       string               `koanf:"format"`
	Target       *TargetConfig        `koanf:"target"`
	Serve        ServeConfig          `koanf:"serve"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultTargetType = "postgres"
	DefaultOutput     = "auto" // text; styled on a terminal
	DefaultFormat     = FormatCompact
	DefaultLogLevel   = "info"
	DefaultServeAddr  = ":8087"
	DefaultPGPort     = 5432
	MemoryDatabase    = ":memory:"
)

// Schema text grammars accepted by the format key.
const (
	FormatCompact = "compact"
	FormatVerbose = "verbose"
)
