package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yaml")
	envPath := filepath.Join(dir, "app.env")

	if err := os.WriteFile(cfgPath, []byte("env: \"local\"\nhttp_server:\n  host: \"localhost\"\n  port: 8080\n  timeout: 4s\nstorage:\n  dir: ${DATA_DIR}\n  subscriptions_file: \"subs.json\"\n  preferences_file: \"prefs.json\"\nexport:\n  dir: \"/tmp/exports\"\n  include_bom: true\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := os.WriteFile(envPath, []byte("DATA_DIR=/var/lib/subtrack\n"), 0o600); err != nil {
		t.Fatalf("failed to write env: %v", err)
	}

	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("ENV_FILE", envPath)

	cfg := LoadConfig()

	assert.Equal(t, Config{
		Env: "local",
		Server: ServerConfig{
			Host:    "localhost",
			Port:    8080,
			Timeout: 4 * time.Second,
		},
		Storage: StorageConfig{
			Dir:               "/var/lib/subtrack",
			SubscriptionsFile: "subs.json",
			PreferencesFile:   "prefs.json",
		},
		Export: ExportConfig{
			Dir:        "/tmp/exports",
			IncludeBOM: true,
		},
	}, *cfg)
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("http_server:\n  host: \"localhost\"\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))

	cfg := LoadConfig()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, "subscriptions.json", cfg.Storage.SubscriptionsFile)
	assert.Equal(t, "preferences.json", cfg.Storage.PreferencesFile)
	assert.Equal(t, os.TempDir(), cfg.Export.Dir)
	assert.False(t, cfg.Export.IncludeBOM)
}

func TestStoragePaths(t *testing.T) {
	c := StorageConfig{Dir: "/data", SubscriptionsFile: "subs.json", PreferencesFile: "prefs.json"}
	assert.Equal(t, filepath.Join("/data", "subs.json"), c.SubscriptionsPath())
	assert.Equal(t, filepath.Join("/data", "prefs.json"), c.PreferencesPath())
}
