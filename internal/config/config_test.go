package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/circuit-extractor/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, "Description", cfg.Processing.DescriptionColumn)
	assert.Equal(t, "processed_output", cfg.Processing.OutputBasename)
	assert.Equal(t, "Sheet1", cfg.Processing.SheetName)
	assert.Equal(t, int64(32<<20), cfg.Processing.MaxUploadBytes)
	assert.Equal(t, "0.0.0.0:8086", cfg.Addr())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  request_timeout: 5s
processing:
  description_column: Interface Description
  sheet_name: Circuits
  default_instance_keyword: ae2
observability:
  log_format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "Interface Description", cfg.Processing.DescriptionColumn)
	assert.Equal(t, "Circuits", cfg.Processing.SheetName)
	assert.Equal(t, "ae2", cfg.Processing.DefaultInstanceKeyword)
	assert.Equal(t, "console", cfg.Observability.LogFormat)
	// Untouched keys keep their defaults.
	assert.Equal(t, "processed_output", cfg.Processing.OutputBasename)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7001")
	t.Setenv("DESCRIPTION_COLUMN", "Desc")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("OUTER_KEYWORD", "outer -1002")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "Desc", cfg.Processing.DescriptionColumn)
	assert.Equal(t, int64(1024), cfg.Processing.MaxUploadBytes)
	assert.Equal(t, "outer -1002", cfg.Processing.DefaultOuterKeyword)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"empty column", "processing:\n  description_column: \"\"\n"},
		{"long sheet name", "processing:\n  sheet_name: this-sheet-name-is-far-too-long-for-excel\n"},
		{"bad log format", "observability:\n  log_format: xml\n"},
		{"bad yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeConfig, domain.TypeOf(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
