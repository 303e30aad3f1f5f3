// ABOUTME: Application configuration stored as JSON under the XDG config home
// ABOUTME: Environment variables override file values at load time
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	AppName        = "sherpa"
	ConfigFileName = "config.json"

	DefaultOwnerID           = "me"
	DefaultCacheTTL          = 60 * time.Minute
	DefaultRateLimitPerHour  = 100
	DefaultOpenAIModel       = "gpt-4o-mini"
	defaultDataDirectoryName = "data"
)

type Config struct {
	DatabasePath     string        `json:"database_path"`
	CacheDir         string        `json:"cache_dir"`
	CacheTTL         time.Duration `json:"cache_ttl"`
	RateLimitPerHour int           `json:"rate_limit_per_hour"`
	OwnerID          string        `json:"owner_id"`
	DataDir          string        `json:"data_dir"`
	PolicyPath       string        `json:"policy_path,omitempty"`
	OpenAIModel      string        `json:"openai_model,omitempty"`
	OpenAIBaseURL    string        `json:"openai_base_url,omitempty"`

	// Secrets come from the environment only.
	OpenAIAPIKey string `json:"-"`
	Debug        bool   `json:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		DatabasePath:     filepath.Join(xdg.DataHome, AppName, "sherpa.db"),
		CacheDir:         filepath.Join(xdg.CacheHome, AppName, "cache"),
		CacheTTL:         DefaultCacheTTL,
		RateLimitPerHour: DefaultRateLimitPerHour,
		OwnerID:          DefaultOwnerID,
		DataDir:          filepath.Join(xdg.DataHome, AppName, defaultDataDirectoryName),
		OpenAIModel:      DefaultOpenAIModel,
	}
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// Load reads the config at Path and applies environment overrides.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.fillDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.DatabasePath == "" {
		c.DatabasePath = def.DatabasePath
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.RateLimitPerHour <= 0 {
		c.RateLimitPerHour = def.RateLimitPerHour
	}
	if c.OwnerID == "" {
		c.OwnerID = def.OwnerID
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = def.OpenAIModel
	}
}

func (c *Config) applyEnv() {
	c.DatabasePath = GetEnvString("SHERPA_DB_PATH", c.DatabasePath)
	c.DataDir = GetEnvString("SHERPA_DATA_DIR", c.DataDir)
	c.OwnerID = GetEnvString("SHERPA_OWNER_ID", c.OwnerID)
	c.PolicyPath = GetEnvString("SHERPA_POLICY_PATH", c.PolicyPath)
	c.OpenAIAPIKey = GetEnvString("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = GetEnvString("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.OpenAIModel = GetEnvString("OPENAI_MODEL", c.OpenAIModel)
	c.Debug = GetEnvBool("SHERPA_DEBUG", c.Debug)
}

// Save writes the config to Path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
