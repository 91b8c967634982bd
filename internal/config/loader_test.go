package config

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromString(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromString(`
show_hidden = true
only_folders = false
show_sizes = true
respect_gitignore = "on"
height = 42
exclude = ["*.bak", "node_modules"]
`, "test")
	require.NoError(t, err)

	assert.True(t, cfg.ShowHidden)
	assert.False(t, cfg.OnlyFolders)
	assert.True(t, cfg.ShowSizes)
	assert.Equal(t, "on", cfg.RespectGitignore)
	assert.Equal(t, 42, cfg.Height)
	assert.Equal(t, []string{"*.bak", "node_modules"}, cfg.Exclude)
}

func TestLoadFromStringInvalid(t *testing.T) {
	t.Parallel()

	_, err := LoadFromString("height = [oops", "test")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "test")
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestUnknownKeysAreWarnedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggingWithWriter(slog.LevelWarn, "text", &buf)
	t.Cleanup(func() { SetupLogging(slog.LevelWarn, "text") })

	cfg, err := LoadFromString(`
show_hidden = true
future_option = "whatever"
`, "test")
	require.NoError(t, err)
	assert.True(t, cfg.ShowHidden)
	assert.Contains(t, buf.String(), "future_option")
}
