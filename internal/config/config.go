// Package config loads the application configuration: a YAML file in the
// data directory, overridden by BYEBYE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file kept in the data directory.
const FileName = "config.yaml"

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Environment variables.
const (
	EnvDataDir      = "BYEBYE_DATA_DIR"
	EnvGeminiAPIKey = "BYEBYE_GEMINI_API_KEY"
	EnvModel        = "BYEBYE_MODEL"
	EnvUseMockLLM   = "BYEBYE_USE_MOCK_LLM"
)

// Config is the application configuration.
type Config struct {
	DataDir           string     `yaml:"data_dir"`
	Provider          string     `yaml:"provider"`
	Model             string     `yaml:"model"`
	GeminiAPIKey      string     `yaml:"gemini_api_key,omitempty"`
	Preferences       string     `yaml:"preferences,omitempty"`
	AskMeInstructions string     `yaml:"ask_me_instructions,omitempty"`
	Chat              ChatConfig `yaml:"chat"`
}

// ChatConfig tunes the chat surfaces.
type ChatConfig struct {
	IdleTTL      time.Duration `yaml:"idle_ttl"`
	HistoryTurns int           `yaml:"history_turns"`
}

// DefaultDataDir returns ~/.byebye, or .byebye when the home directory is
// unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".byebye"
	}
	return filepath.Join(home, ".byebye")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir(),
		Provider: ProviderGemini,
		Model:    "gemini-2.5-flash",
		Chat: ChatConfig{
			IdleTTL:      30 * time.Minute,
			HistoryTurns: 20,
		},
	}
}

// Path returns the config file path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// LoadDefault loads the config file from the data directory named by
// BYEBYE_DATA_DIR, or the default one.
func LoadDefault() (*Config, error) {
	dir := os.Getenv(EnvDataDir)
	if dir == "" {
		dir = DefaultDataDir()
	}
	return Load(Path(dir))
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		c.DataDir = dir
	}
	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		c.GeminiAPIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.GeminiAPIKey == "" {
		c.GeminiAPIKey = key
	}
	if model := os.Getenv(EnvModel); model != "" {
		c.Model = model
	}
	if raw := os.Getenv(EnvUseMockLLM); raw != "" {
		mock, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvUseMockLLM, err)
		}
		if mock {
			c.Provider = ProviderMock
		}
	}
	return nil
}

// Validate checks the provider name and chat limits.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("config: invalid provider %q (valid: %s, %s)", c.Provider, ProviderGemini, ProviderMock)
	}
	if c.Chat.IdleTTL < 0 {
		return fmt.Errorf("config: chat.idle_ttl must not be negative")
	}
	if c.Chat.HistoryTurns < 0 {
		return fmt.Errorf("config: chat.history_turns must not be negative")
	}
	return nil
}

// UseMock reports whether the mock model should be used: either asked for
// explicitly or because no Gemini key is configured.
func (c *Config) UseMock() bool {
	return c.Provider == ProviderMock || c.GeminiAPIKey == ""
}
