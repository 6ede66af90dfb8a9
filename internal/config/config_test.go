package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	gcperrors "github.com/gcpctl/gcpctl/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("", false)
	require.NoError(t, err)
	require.Equal(t, ".", cfg.OutputDir)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadParsesFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
project: acme-prod
output_dir: /tmp/scripts
default_mode: emit-full
log_level: debug
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	require.Equal(t, "acme-prod", cfg.Project)
	require.Equal(t, "/tmp/scripts", cfg.OutputDir)
	require.Equal(t, "emit-full", cfg.DefaultMode)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "default_mode: dry-run\n")
	_, err := Load(path, true)

	var valErr *gcperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, "DefaultMode", valErr.Field)
}

func TestLoadMissingImplicitFileIsFine(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "default_mode: [oops\n")
	_, err := Load(path, true)

	var parseErr *gcperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}
