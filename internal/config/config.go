package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	AI struct {
		Provider string        `yaml:"provider"` // gemini | rest
		Model    string        `yaml:"model"`    // pins the model, overriding the workspace setting
		APIKey   string        `yaml:"api_key"`  // used when the workspace has no key
		BaseURL  string        `yaml:"base_url"` // rest provider only
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"ai"`
	Render struct {
		Engine string `yaml:"engine"` // quirky | commonmark
	} `yaml:"render"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Storage.Path = "promptpad.db"
	cfg.AI.Provider = "gemini"
	cfg.AI.Timeout = 90 * time.Second
	cfg.Render.Engine = "quirky"
	cfg.Log.Level = "info"
	return cfg
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error. Environment variables (optionally from .env) win over the file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("PROMPTPAD_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if model := os.Getenv("PROMPTPAD_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if provider := os.Getenv("PROMPTPAD_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if db := os.Getenv("PROMPTPAD_DB"); db != "" {
		cfg.Storage.Path = db
	}

	return cfg, nil
}
