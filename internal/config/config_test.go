package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupConfigEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	return tmp
}

func TestLoadAndGet(t *testing.T) {
	setupConfigEnv(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	require.Equal(t, 15, GetInt("notification_timeout", 0))
	require.False(t, GetBool("sound_notification", true))
	require.Equal(t, []string{"ogg", "mp3"}, GetList("sound_formats", nil))
}

func TestDerivedDBPath(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	require.Equal(t, filepath.Join(tmp, "state", "bufferbell", "buffers.db"), Get("db_path", ""))
}

func TestEnvOverridesFile(t *testing.T) {
	tmp := setupConfigEnv(t)
	configFile := filepath.Join(tmp, "custom.toml")
	content := `
sound_notification = true
notification_timeout = 30
telegram_chat_id = -1001
sound_formats = ["mp3"]
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("BUFFERBELL_CONFIG_PATH", configFile)
	t.Setenv("BUFFERBELL_NOTIFICATION_TIMEOUT", "5")

	Load()

	require.True(t, GetBool("sound_notification", false))
	require.Equal(t, 5, GetInt("notification_timeout", 0))
	require.Equal(t, int64(-1001), GetInt64("telegram_chat_id", 0))
	require.Equal(t, []string{"mp3"}, GetList("sound_formats", nil))
	require.Equal(t, configFile, Path())
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv("BUFFERBELL_NOTIFICATION_TIMEOUT", "-3")
	t.Setenv("BUFFERBELL_SOUND_NOTIFICATION", "maybe")
	t.Setenv("BUFFERBELL_LOGGING_LEVEL", "verbose")
	t.Setenv("BUFFERBELL_TELEGRAM_CHAT_ID", "abc")

	Load()

	require.Equal(t, "15", Get("notification_timeout", ""))
	require.Equal(t, "false", Get("sound_notification", ""))
	require.Equal(t, "info", Get("logging_level", ""))
	require.Equal(t, "0", Get("telegram_chat_id", ""))
}

func TestBoolNormalization(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv("BUFFERBELL_TMUX_PUBLISH", "off")
	t.Setenv("BUFFERBELL_DESKTOP_ENABLED", "YES")

	Load()

	require.Equal(t, "false", Get("tmux_publish", ""))
	require.Equal(t, "true", Get("desktop_enabled", ""))
}

func TestSampleConfigCreated(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	sample := filepath.Join(tmp, "config", "bufferbell", "config.toml")
	data, err := os.ReadFile(sample)
	require.NoError(t, err)
	require.Contains(t, string(data), "# bufferbell configuration")
	require.Contains(t, string(data), "notification_timeout = 15")
}

func TestGetListDefaults(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv("BUFFERBELL_SOUND_FORMATS", " , ")
	Load()

	require.Equal(t, []string{"wav"}, GetList("sound_formats", []string{"wav"}))
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	require.Panics(t, func() {
		RegisterValidator("debug", BoolValidator())
	})
}

func TestHooksSettings(t *testing.T) {
	tmp := setupConfigEnv(t)
	t.Setenv("BUFFERBELL_HOOKS_FAILURE_MODE", "explode")
	t.Setenv("BUFFERBELL_HOOKS_ASYNC", "no")

	Load()

	require.Equal(t, filepath.Join(tmp, "config", "bufferbell", "hooks"), Get("hooks_dir", ""))
	require.Equal(t, "warn", Get("hooks_failure_mode", ""))
	require.False(t, GetBool("hooks_async", true))
	require.Equal(t, 30, GetInt("hooks_timeout", 0))
}

func TestExplicitHooksDirWins(t *testing.T) {
	tmp := setupConfigEnv(t)
	t.Setenv("BUFFERBELL_HOOKS_DIR", filepath.Join(tmp, "scripts"))

	Load()

	require.Equal(t, filepath.Join(tmp, "scripts"), Get("hooks_dir", ""))
}
