package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type PickerKind string

const (
	PickerNative PickerKind = "native"
	PickerDialog PickerKind = "dialog"

	DefaultConfigPath     string = "config.json"
	DefaultAPIBase        string = "http://127.0.0.1:5000"
	DefaultRequestTimeout uint   = 120
	DefaultLogLevel       string = "info"
)

var PickersList = [...]string{
	string(PickerNative),
	string(PickerDialog),
}

type Config struct {
	mu sync.RWMutex

	// APIBase is the persisted override of the service address. Empty means unset.
	APIBase           string     `json:"api_base,omitempty" yaml:"api_base,omitempty"`
	RequestTimeoutSec uint       `json:"request_timeout_sec" yaml:"request_timeout_sec"`
	Picker            PickerKind `json:"picker" yaml:"picker"`
	LogLevel          string     `json:"log_level" yaml:"log_level"`
}

// Resolve returns persisted when it is set, otherwise fallback.
func Resolve(persisted, fallback string) string {
	if p := strings.TrimSpace(persisted); p != "" {
		return strings.TrimRight(p, "/")
	}
	return fallback
}

// BaseURL resolves the service address for this process.
func (c *Config) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Resolve(c.APIBase, DefaultAPIBase)
}

func (c *Config) GetAPIBase() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.APIBase
}

func (c *Config) SetAPIBase(base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.APIBase = strings.TrimSpace(base)
}

func (c *Config) GetTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.RequestTimeoutSec == 0 {
		return time.Duration(DefaultRequestTimeout) * time.Second
	}
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c *Config) SetTimeout(sec uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RequestTimeoutSec = sec
}

func (c *Config) GetPicker() PickerKind {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Picker
}

func (c *Config) SetPicker(kind PickerKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Picker = kind
}

func (c *Config) GetLogLevel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogLevel
}

// Save writes the settings to path, YAML for .yaml/.yml and JSON otherwise.
func (c *Config) Save(path string) error {
	c.mu.RLock()
	b, err := marshal(path, c)
	c.mu.RUnlock()

	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// LoadConfigFile reads path over the defaults. A missing or unreadable file yields the defaults.
func LoadConfigFile(path string) *Config {
	var cfg *Config = NewDefaultConfig()

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg
	}

	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cannot read settings, using defaults")
		return cfg
	}

	loaded := NewDefaultConfig()
	if err := unmarshal(path, b, loaded); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("invalid settings file, using defaults")
		return cfg
	}

	if loaded.Picker != PickerNative && loaded.Picker != PickerDialog {
		loaded.Picker = PickerNative
	}

	return loaded
}

func NewDefaultConfig() *Config {
	return &Config{
		RequestTimeoutSec: DefaultRequestTimeout,
		Picker:            PickerNative,
		LogLevel:          DefaultLogLevel,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func marshal(path string, c *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(c)
	}
	return json.MarshalIndent(c, "", "  ")
}

func unmarshal(path string, b []byte, c *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(b, c)
	}
	return json.Unmarshal(b, c)
}
