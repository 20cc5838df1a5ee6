package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proofmd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: "127.0.0.1:8080"
storage:
  db_path: "/tmp/proofs.db"
validation:
  strict: true
logging:
  format: json
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "/tmp/proofs.db", cfg.Storage.DBPath)
	assert.True(t, cfg.Validation.Strict)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/lean", cfg.Workspace.LeanDir)
}

func TestLoadConfig_EnvironmentWins(t *testing.T) {
	t.Setenv("PROOFMD_ADDR", ":9999")
	t.Setenv("PROOFMD_DB", "env.db")
	t.Setenv("PROOFMD_STRICT", "true")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "env.db", cfg.Storage.DBPath)
	assert.True(t, cfg.Validation.Strict)
}

func TestLoadConfig_RejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proofmd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Format")
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proofmd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfig_ValidateRequiresAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	require.Error(t, cfg.Validate())
}
