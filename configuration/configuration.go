// Package configuration loads the aimchat config file, filling gaps with
// defaults and applying environment overrides.
package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/aimchat/aimchat/internal/file"
)

var defaultConfig = Config{
	Database:       "~/.config/aimchat/sessions.db",
	RequestTimeout: 120,
	DefaultModel:   "gemini-2.5-flash",
	Models: []*Model{
		{Name: "gemini-2.5-flash", Label: "Gemini 2.5 Flash"},
		{Name: "gemini-3-pro-preview", Label: "Gemini 3.0 Pro"},
		{Name: "gemini-2.5-flash-thinking-preview-01-21", Label: "Gemini 2.5 Flash (Thinking)", ThinkingBudget: int32Ptr(1024)},
	},
}

// Model describes one selectable model. The set is config-driven so new
// model identifiers need no code change.
type Model struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	// ThinkingBudget enables extended reasoning for models that support it.
	ThinkingBudget *int32 `json:"thinking_budget,omitempty"`
}

// Config holds configuration for the aimchat tool.
type Config struct {
	APIKey         string   `json:"api_key" env:"GEMINI_API_KEY"`
	Database       string   `json:"database" env:"AIMCHAT_DATABASE"`
	RequestTimeout int      `json:"request_timeout"`
	DefaultModel   string   `json:"default_model"`
	Models         []*Model `json:"models"`
}

// Model returns the configured model with the given name.
func (c *Config) Model(name string) (*Model, error) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, nil
		}
	}
	return nil, errors.Errorf("unknown model (%s)", name)
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if err := mergo.Merge(config, defaultConfig); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}
	if err := env.Parse(config); err != nil {
		return nil, errors.Wrap(err, "parsing environment overrides")
	}

	expandedDatabasePath, err := file.ExpandPath(config.Database)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.Database = expandedDatabasePath
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(path, bytes, 0644); err != nil {
		return errors.Wrap(err, "writing file")
	}
	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}

func int32Ptr(v int32) *int32 { return &v }
