package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pgask/pkg/catalog"
	// Import backend packages to ensure backends are registered via init()
	_ "github.com/leapstack-labs/pgask/pkg/catalog/postgres"
	_ "github.com/leapstack-labs/pgask/pkg/catalog/sqlite"
)

const testdataDir = "../testdata"

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")
	t.Setenv("TEST_VAR_EMPTY", "")

	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"${TEST_VAR_ONE}", "value_one"},
		{"prefix_${TEST_VAR_ONE}_${TEST_VAR_TWO}", "prefix_value_one_value_two"},
		{"${TEST_VAR_EMPTY}", ""},
		{"${TEST_VAR_MISSING_XYZ}", "${TEST_VAR_MISSING_XYZ}"},
		{"$TEST_VAR_ONE", "$TEST_VAR_ONE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestMergeTargetConfig(t *testing.T) {
	base := &TargetConfig{
		Type:     "postgres",
		Host:     "base.internal",
		Port:     5432,
		Database: "app",
		Options:  map[string]string{"sslmode": "require", "search_path": "public"},
		Params:   map[string]any{"application_name": "base"},
	}
	override := &TargetConfig{
		Host:    "override.internal",
		Options: map[string]string{"sslmode": "disable"},
		Params:  map[string]any{"statement_timeout": 10},
	}

	merged := MergeTargetConfig(base, override)

	assert.Equal(t, "postgres", merged.Type)
	assert.Equal(t, "override.internal", merged.Host)
	assert.Equal(t, 5432, merged.Port)
	assert.Equal(t, "app", merged.Database)
	assert.Equal(t, map[string]string{"sslmode": "disable", "search_path": "public"}, merged.Options)
	assert.Equal(t, map[string]any{"application_name": "base", "statement_timeout": 10}, merged.Params)

	// Inputs stay untouched.
	assert.Equal(t, "require", base.Options["sslmode"])
	assert.Same(t, base, MergeTargetConfig(base, nil))
	assert.Same(t, override, MergeTargetConfig(nil, override))
}

func TestApplyTargetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		target   TargetConfig
		expected TargetConfig
	}{
		{"empty defaults to postgres", TargetConfig{}, TargetConfig{Type: "postgres", Port: 5432}},
		{"postgres keeps port", TargetConfig{Type: "Postgres", Port: 6432}, TargetConfig{Type: "postgres", Port: 6432}},
		{"duckdb in memory", TargetConfig{Type: "duckdb"}, TargetConfig{Type: "duckdb", Database: ":memory:"}},
		{"sqlite keeps file", TargetConfig{Type: "sqlite", Database: "app.db"}, TargetConfig{Type: "sqlite", Database: "app.db"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			ApplyTargetDefaults(&target)
			assert.Equal(t, tt.expected, target)
		})
	}

	ApplyTargetDefaults(nil)
}

func TestValidateTarget(t *testing.T) {
	require.NoError(t, ValidateTarget(&TargetConfig{Type: "postgres"}))
	require.NoError(t, ValidateTarget(&TargetConfig{Type: "sqlite"}))

	err := ValidateTarget(&TargetConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target type is required")

	err = ValidateTarget(&TargetConfig{Type: "mysql"})
	var unknown *catalog.UnknownBackendError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Available, "postgres")
	assert.Contains(t, err.Error(), "pgask.yaml")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}
	logger := cfg.NewLogger(os.Stderr)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	cfg.Verbose = true
	assert.True(t, cfg.NewLogger(os.Stderr).Enabled(context.Background(), slog.LevelDebug))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.Same(t, logger, ctx.Value(LoggerKey()))
}

func TestConfigContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	cfg := &Config{Format: FormatVerbose}
	assert.Same(t, cfg, FromContext(WithConfig(context.Background(), cfg)))
}

func TestLoadConfigWithTarget_Fixtures(t *testing.T) {
	t.Run("valid postgres config", func(t *testing.T) {
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_postgres.yaml"), "", nil)
		require.NoError(t, err)

		assert.Equal(t, "postgres", cfg.Target.Type)
		assert.Equal(t, "db.internal", cfg.Target.Host)
		assert.Equal(t, 5432, cfg.Target.Port)
		assert.Equal(t, "disable", cfg.Target.Options["sslmode"])
		assert.Equal(t, "pgask-test", cfg.Target.Params["application_name"])
		assert.Equal(t, FormatVerbose, cfg.Format)
		assert.Equal(t, DefaultOutput, cfg.OutputFormat)
		assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
		assert.Equal(t, filepath.Join(testdataDir, "valid_postgres.yaml"), cfg.File)
	})

	t.Run("environment key selects target", func(t *testing.T) {
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_with_envs.yaml"), "", nil)
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Target.Type)
		assert.Equal(t, "dev.db", cfg.Target.Database)
	})

	t.Run("target override to staging", func(t *testing.T) {
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_with_envs.yaml"), "staging", nil)
		require.NoError(t, err)

		assert.Equal(t, "postgres", cfg.Target.Type)
		assert.Equal(t, "staging.internal", cfg.Target.Host)
		assert.Equal(t, "staging", cfg.Target.Database)
		assert.Equal(t, 5432, cfg.Target.Port)
	})

	t.Run("target override to prod", func(t *testing.T) {
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_with_envs.yaml"), "prod", nil)
		require.NoError(t, err)

		assert.Equal(t, 6432, cfg.Target.Port)
		assert.Equal(t, "prod", cfg.Target.Database)
	})

	t.Run("nonexistent environment falls back to base target", func(t *testing.T) {
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_with_envs.yaml"), "nonexistent", nil)
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Target.Type)
		assert.Equal(t, "base.db", cfg.Target.Database)
	})

	t.Run("env vars are expanded", func(t *testing.T) {
		t.Setenv("TEST_PGASK_HOST", "expanded.internal")
		t.Setenv("TEST_PGASK_USER", "testuser")
		t.Setenv("TEST_PGASK_PASSWORD", "secret123")

		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_env_vars.yaml"), "", nil)
		require.NoError(t, err)

		assert.Equal(t, "expanded.internal", cfg.Target.Host)
		assert.Equal(t, "testuser", cfg.Target.User)
		assert.Equal(t, "secret123", cfg.Target.Password)
		assert.Equal(t, "${TEST_PGASK_UNSET_DB}", cfg.Target.Database)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := LoadConfigWithTarget(filepath.Join(testdataDir, "invalid_unknown_type.yaml"), "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid target configuration")
		assert.Contains(t, err.Error(), "mysql")
	})

	t.Run("unknown output mode", func(t *testing.T) {
		_, err := LoadConfigWithTarget(filepath.Join(testdataDir, "invalid_output.yaml"), "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output mode")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfigWithTarget(filepath.Join(testdataDir, "does_not_exist.yaml"), "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, FormatCompact, cfg.Format)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadConfig_FindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pgask.yml"), []byte("target:\n  type: sqlite\n"), 0600))
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "pgask.yml", cfg.File)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, ":memory:", cfg.Target.Database)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pgask.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "", "schema format")
	flags.String("log-level", "", "log level")
	flags.String("addr", "", "listen address")
	flags.String("target", "", "environment")
	return flags
}

func TestLoadConfigWithTarget_FlagPrecedence(t *testing.T) {
	cfgPath := writeConfig(t, "format: compact\nlog_level: error\ntarget:\n  type: sqlite\n")
	t.Setenv("PGASK_FORMAT", "compact")
	t.Setenv("PGASK_LOG_LEVEL", "warn")

	flags := newFlags()
	require.NoError(t, flags.Set("format", "verbose"))
	require.NoError(t, flags.Set("addr", "127.0.0.1:9000"))
	require.NoError(t, flags.Set("target", "ignored"))

	cfg, err := LoadConfigWithTarget(cfgPath, "", flags)
	require.NoError(t, err)

	assert.Equal(t, FormatVerbose, cfg.Format, "flag value should override config file and env var")
	assert.Equal(t, "warn", cfg.LogLevel, "env var should be used when flag is not set")
	assert.Equal(t, "127.0.0.1:9000", cfg.Serve.Addr)
	assert.Equal(t, "sqlite", cfg.Target.Type, "target flag must not clobber the target section")
}

func TestLoadConfigWithTarget_EnvPrecedenceOverFile(t *testing.T) {
	cfgPath := writeConfig(t, "target:\n  type: postgres\n  host: from_file\n")
	t.Setenv("PGASK_TARGET__HOST", "from_env")
	t.Setenv("PGASK_TARGET__PORT", "6543")

	cfg, err := LoadConfigWithTarget(cfgPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Target.Host)
	assert.Equal(t, 6543, cfg.Target.Port)
}

func TestLoadConfigWithTarget_InvalidFormat(t *testing.T) {
	cfgPath := writeConfig(t, "format: tabular\ntarget:\n  type: sqlite\n")

	_, err := LoadConfigWithTarget(cfgPath, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema format")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
