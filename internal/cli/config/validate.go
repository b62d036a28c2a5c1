package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pgask/internal/cli/output"
	"github.com/leapstack-labs/pgask/pkg/catalog"
)

// ApplyTargetDefaults applies default values to a TargetConfig based on its type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	if t.Type == "" {
		t.Type = DefaultTargetType
	}
	t.Type = strings.ToLower(t.Type)

	switch t.Type {
	case "postgres":
		if t.Port == 0 {
			t.Port = DefaultPGPort
		}
	case "duckdb", "sqlite":
		if t.Database == "" {
			t.Database = MemoryDatabase
		}
	}
}

// ValidateTarget checks that the target names a registered backend.
func ValidateTarget(t *TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !catalog.IsRegistered(t.Type) {
		return &catalog.UnknownBackendError{Type: t.Type, Available: catalog.ListBackends()}
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	switch c.Format {
	case FormatCompact, FormatVerbose:
	default:
		return fmt.Errorf("unknown schema format %q (expected compact or verbose)", c.Format)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if err := ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}
