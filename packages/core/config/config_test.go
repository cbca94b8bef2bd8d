package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BBGONE/courier/packages/clientpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndLoadConfig_Defaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, clientpool.DefaultProfile, cfg.Profile)
	assert.Equal(t, ".courier.history.db", cfg.HistoryDB)
	assert.False(t, cfg.GetVerbose())
	assert.False(t, cfg.GetNoColor())
}

func TestFindAndLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"profile": "internal",
		"charset": "iso-8859-1",
		"noColor": true,
		"profiles": {
			"internal": {
				"timeout": 5000,
				"validateSSL": false,
				"headers": {"X-Env": "test"}
			}
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".courier.config.json"), []byte(content), 0o644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "internal", cfg.Profile)
	assert.Equal(t, "iso-8859-1", cfg.Charset)
	assert.True(t, cfg.GetNoColor())
	require.Contains(t, cfg.Profiles, "internal")
	assert.Equal(t, 5000, cfg.Profiles["internal"].Timeout)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courier.config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestRegisterProfiles(t *testing.T) {
	cfg := &Config{
		Profiles: map[string]ProfileConfig{
			"slow": {Timeout: 120000},
		},
	}
	registry := clientpool.NewRegistry()
	cfg.RegisterProfiles(registry)

	client, err := registry.Client("slow")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, client.Timeout)
}
