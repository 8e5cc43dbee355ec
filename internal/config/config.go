package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the web UI.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the web UI.
	Listen string `yaml:"listen" json:"listen"`

	// PortalBaseURL is the university portal endpoint. Overridable mainly
	// for tests against a stub portal.
	PortalBaseURL string `yaml:"portal_base_url" json:"portal_base_url"`

	// Timezone is the IANA zone used to display occurrence previews.
	// Compiled documents always carry the fixed Asia/Dhaka definition.
	Timezone string `yaml:"timezone" json:"timezone"`

	// StoreTTLMinutes is how long a generated calendar stays downloadable.
	StoreTTLMinutes int `yaml:"store_ttl_minutes" json:"store_ttl_minutes"`

	// SweepCron is a cron-style schedule for evicting expired calendars.
	SweepCron string `yaml:"sweep" json:"sweep"`

	// BasicAuth, if non-nil, protects all endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:3000",
		PortalBaseURL:   "https://portal.ewubd.edu",
		Timezone:        "Asia/Dhaka",
		StoreTTLMinutes: 15,
		SweepCron:       "*/5 * * * *",
		BasicAuth:       nil,
	}
}

// Normalize fills in missing/zero values so partially-filled configs from
// older versions still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:3000"
	}
	if c.PortalBaseURL == "" {
		c.PortalBaseURL = "https://portal.ewubd.edu"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Dhaka"
	}
	if c.StoreTTLMinutes <= 0 {
		c.StoreTTLMinutes = 15
	}
	if c.SweepCron == "" {
		c.SweepCron = "*/5 * * * *"
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (0600)
// and returned; otherwise the file is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".ewucal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
