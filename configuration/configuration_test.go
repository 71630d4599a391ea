package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInitializesDefaults(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	t.Setenv("AIMCHAT_DATABASE", filepath.Join(dir, "sessions.db"))

	path := filepath.Join(dir, "config.json")
	config, err := Parse(path)
	req.NoError(err)

	// The default config file was written out.
	_, err = os.Stat(path)
	req.NoError(err)

	req.Equal("gemini-2.5-flash", config.DefaultModel)
	req.Equal(120, config.RequestTimeout)
	req.Len(config.Models, 3)
	req.True(filepath.IsAbs(config.Database))
}

func TestParseMergesPartialConfig(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	t.Setenv("AIMCHAT_DATABASE", filepath.Join(dir, "x.db"))
	path := filepath.Join(dir, "config.json")
	req.NoError(os.WriteFile(path, []byte(`{"request_timeout": 30, "default_model": "gemini-3-pro-preview"}`), 0644))

	config, err := Parse(path)
	req.NoError(err)
	req.Equal(30, config.RequestTimeout)
	req.Equal("gemini-3-pro-preview", config.DefaultModel)
	req.Equal(filepath.Join(dir, "x.db"), config.Database)

	// Unset fields are filled from the defaults.
	req.Len(config.Models, 3)
}

func TestParseEnvOverrides(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("AIMCHAT_DATABASE", filepath.Join(dir, "env.db"))

	config, err := Parse(filepath.Join(dir, "config.json"))
	req.NoError(err)
	req.Equal("from-env", config.APIKey)
	req.Equal(filepath.Join(dir, "env.db"), config.Database)
}

func TestModelLookup(t *testing.T) {
	req := require.New(t)

	config := &defaultConfig
	model, err := config.Model("gemini-2.5-flash")
	req.NoError(err)
	req.Nil(model.ThinkingBudget)

	thinking, err := config.Model("gemini-2.5-flash-thinking-preview-01-21")
	req.NoError(err)
	req.NotNil(thinking.ThinkingBudget)
	req.Equal(int32(1024), *thinking.ThinkingBudget)

	_, err = config.Model("gpt-4")
	req.Error(err)
}
