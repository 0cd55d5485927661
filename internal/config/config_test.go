package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Strip.Margin)
	assert.Equal(t, 30, cfg.Strip.Batch)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultDBName), cfg.DBPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "margin = 10")

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreate_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
db_path = "~/tasks/strip.db"

[strip]
back_days = 7
forward_days = 7
margin = 2
batch = 14
item_width = 9
defer_corrections = true

[keys]
left = "a"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks", "strip.db"), cfg.DBPath)
	assert.Equal(t, 14, cfg.Strip.Params().Batch)
	assert.True(t, cfg.Strip.DeferCorrections)
	assert.Equal(t, "a", cfg.Keys.Left)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, "l", cfg.Keys.Right)
	assert.Equal(t, 150, cfg.Strip.SettleDelayMS)
}

func TestLoadOrCreate_RejectsMarginNotBelowBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[strip]\nmargin = 30\nbatch = 30\n"), 0o644))

	_, err := LoadOrCreate(path)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "Margin", verrs[0].Field())
	assert.Equal(t, "ltfield", verrs[0].Tag())
}

func TestLoadOrCreate_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[strip\n"), 0o644))

	_, err := LoadOrCreate(path)
	require.Error(t, err)
}

func TestValidate_EmptyKey(t *testing.T) {
	cfg := defaultConfig(t.TempDir())
	cfg.Keys.Quit = ""
	require.Error(t, cfg.Validate())
}
