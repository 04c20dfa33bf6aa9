package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadOverlaysEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "base.yaml", `
app:
  name: kiosk-api
  http_addr: ":8080"
mysql:
  dsn: "base-dsn"
payment:
  provider: simulator
  timeout: 10s
`)
	writeYAML(t, dir, "dev.yaml", `
mysql:
  dsn: "dev-dsn"
`)

	cfg, err := Load(dir, "dev")
	require.NoError(t, err)
	assert.Equal(t, "dev-dsn", cfg.MySQL.DSN)
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.Payment.Timeout)
}

func TestLoadEnvVarsWin(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "base.yaml", `
app:
  http_addr: ":8080"
mysql:
  dsn: "base-dsn"
payment:
  provider: simulator
`)
	t.Setenv("KIOSK_MYSQL__DSN", "env-dsn")

	cfg, err := Load(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, "env-dsn", cfg.MySQL.DSN)
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.App.HTTPAddr = ":8080"
	cfg.MySQL.DSN = "dsn"
	cfg.Payment.Provider = ProviderSimulator
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Payment.Provider = "stripe"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Payment.Provider = ProviderMercadoPago
	assert.Error(t, bad.Validate(), "live provider needs an access token")
	bad.Payment.AccessToken = "APP_USR-123-xyz"
	assert.NoError(t, bad.Validate())

	bad = cfg
	bad.Kafka.Enabled = true
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Rabbit.Enabled = true
	assert.Error(t, bad.Validate())
}
