package bot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

var testRecord = Record{Name: "ReminderBot", RequiredConfigFields: []string{CfgTgToken}}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
reminderbot:
  tg_token: "123:abc"
  retry_attempts: 5
  retry_delay: 250ms
  debug: true
`)

	cfgs, err := LoadConfig(path)
	require.NoError(t, err)

	cfg, err := cfgs.For(testRecord)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		TgToken:       "123:abc",
		RetryAttempts: 5,
		RetryDelay:    250 * time.Millisecond,
		Debug:         true,
	}, cfg)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
reminderbot:
  tg_token: "123:abc"
`)

	cfgs, err := LoadConfig(path)
	require.NoError(t, err)

	cfg, err := cfgs.For(testRecord)
	require.NoError(t, err)
	assert.Equal(t, defaultRetryAttempts, cfg.RetryAttempts)
	assert.Equal(t, defaultRetryDelay, cfg.RetryDelay)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, `
reminderbot:
  tg_token: "from-file"
`)
	t.Setenv("BOTFARM_REMINDERBOT__TG_TOKEN", "from-env")
	t.Setenv("BOTFARM_REMINDERBOT__RETRY_ATTEMPTS", "7")

	cfgs, err := LoadConfig(path)
	require.NoError(t, err)

	cfg, err := cfgs.For(testRecord)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TgToken)
	assert.Equal(t, 7, cfg.RetryAttempts)
}

func TestConfigMissingFields(t *testing.T) {
	path := writeConfig(t, `
reminderbot:
  debug: true
`)

	cfgs, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = cfgs.For(testRecord)
	require.Error(t, err)
	assert.Equal(t, "ReminderBot's configuration is missing field(s): tg_token", err.Error())
}

func TestConfigMissingSection(t *testing.T) {
	path := writeConfig(t, `
otherbot:
  tg_token: "123:abc"
`)

	cfgs, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = cfgs.For(testRecord)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ReminderBot"`)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
