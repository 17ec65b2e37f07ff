package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `json:"port"`
	Strategy string `json:"strategy"`
	Database struct {
		Url string `json:"url"`
	} `json:"database"`
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		// comments are allowed
		port: 8000,
		strategy: "warmup",
		database: { url: "libsql://remote" },
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		strategy: "rendered",
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, 8000, cfg.Port)
	require.Equal(t, "rendered", cfg.Strategy)
	require.Equal(t, "libsql://remote", cfg.Database.Url)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("a", "config.local.json5"), localPath(filepath.Join("a", "config.json5")))
}
