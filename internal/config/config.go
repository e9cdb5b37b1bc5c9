package config

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"

	pkgerrors "github.com/zhubert/confide/internal/errors"
)

const (
	// DefaultAPIBaseURL points at the local dev server.
	DefaultAPIBaseURL = "http://localhost:8080"
	// DefaultTypingIntervalMs is the delay between typing steps.
	DefaultTypingIntervalMs = 40
	// DefaultRequestTimeoutSeconds bounds every backend request.
	DefaultRequestTimeoutSeconds = 60

	// Environment overrides, also read from a .env file in the working directory.
	EnvAPIURL         = "CONFIDE_API_URL"
	EnvTypingInterval = "CONFIDE_TYPING_INTERVAL_MS"
)

// Config holds the application configuration
type Config struct {
	APIBaseURL            string `json:"api_base_url,omitempty"`
	// nil means unset; an explicit 0 disables the typing delay or the request bound.
	TypingIntervalMs      *int   `json:"typing_interval_ms,omitempty"`
	RequestTimeoutSeconds *int   `json:"request_timeout_seconds,omitempty"`

	SidebarCollapsed     bool `json:"sidebar_collapsed,omitempty"`     // Restored on next start
	NotificationsEnabled bool `json:"notifications_enabled,omitempty"` // Desktop notification when a reply finishes unfocused
	TelemetryEnabled     bool `json:"telemetry_enabled,omitempty"`

	mu          sync.RWMutex
	filePath    string
	apiOverride string // from the environment or a flag; never saved
}

// Dir returns the path to the config directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".confide"), nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Default returns a config with default values that is not backed by a file.
func Default() *Config {
	cfg := &Config{}
	cfg.ensureInitialized()
	return cfg
}

// Load reads the config from disk, or creates a new one if it doesn't exist.
// Environment overrides (including a .env file) are applied on top.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, pkgerrors.ConfigLoadFailed("~/.confide", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, pkgerrors.ConfigLoadFailed(path, err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, pkgerrors.ConfigLoadFailed(path, err)
		}
	}

	// godotenv.Load never overrides variables that are already set.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.apiOverride = v
	}
	if v := os.Getenv(EnvTypingInterval); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return pkgerrors.ConfigInvalid("failed to parse " + EnvTypingInterval + " value '" + v + "' as int")
		}
		c.TypingIntervalMs = &ms
	}
	return nil
}

// ensureInitialized fills unset values with defaults.
// Only called during Load() before the Config is shared.
func (c *Config) ensureInitialized() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.TypingIntervalMs == nil {
		c.TypingIntervalMs = intPtr(DefaultTypingIntervalMs)
	}
	if c.RequestTimeoutSeconds == nil {
		c.RequestTimeoutSeconds = intPtr(DefaultRequestTimeoutSeconds)
	}
}

// intPtr returns a pointer to v.
func intPtr(v int) *int {
	return &v
}

// intOr returns *p, or def when p is unset.
func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	base := c.baseURL()
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return pkgerrors.ConfigInvalid("api_base_url must be an absolute http(s) URL: " + base)
	}
	if intOr(c.TypingIntervalMs, 0) < 0 {
		return pkgerrors.ConfigInvalid("typing_interval_ms must not be negative")
	}
	if intOr(c.RequestTimeoutSeconds, 0) < 0 {
		return pkgerrors.ConfigInvalid("request_timeout_seconds must not be negative")
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filePath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return pkgerrors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return pkgerrors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return pkgerrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// GetAPIBaseURL returns the backend base URL
func (c *Config) GetAPIBaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL()
}

// SetAPIBaseURL overrides the backend base URL (e.g. from a command line
// flag) for this run. The override is not written by Save.
func (c *Config) SetAPIBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiOverride = u
}

// baseURL must be called with mu held.
func (c *Config) baseURL() string {
	if c.apiOverride != "" {
		return c.apiOverride
	}
	return c.APIBaseURL
}

// TypingInterval returns the delay between typing steps
func (c *Config) TypingInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(intOr(c.TypingIntervalMs, DefaultTypingIntervalMs)) * time.Millisecond
}

// RequestTimeout returns the per-request deadline. Zero means unbounded.
func (c *Config) RequestTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(intOr(c.RequestTimeoutSeconds, DefaultRequestTimeoutSeconds)) * time.Second
}

// GetSidebarCollapsed returns whether the sidebar is collapsed
func (c *Config) GetSidebarCollapsed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SidebarCollapsed
}

// SetSidebarCollapsed sets whether the sidebar is collapsed
func (c *Config) SetSidebarCollapsed(collapsed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SidebarCollapsed = collapsed
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetTelemetryEnabled returns whether traces and metrics are exported
func (c *Config) GetTelemetryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.TelemetryEnabled
}

// SetTelemetryEnabled sets whether traces and metrics are exported
func (c *Config) SetTelemetryEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TelemetryEnabled = enabled
}
