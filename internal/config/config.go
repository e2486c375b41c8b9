// Package config loads assistant configuration from a JSON file backend
// at $XDG_CONFIG_HOME/assistant/config.json with ASSISTANT_* environment
// overrides on top of compiled-in defaults.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Widget  WidgetConfig
	Contact ContactConfig
	Storage StorageConfig
	Site    SiteConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type WidgetConfig struct {
	// TypingDelay and SessionTTL are duration strings ("600ms", "30m").
	TypingDelay string
	SessionTTL  string
}

type ContactConfig struct {
	// FormEndpoint is the third-party URL contact submissions are
	// forwarded to. Empty disables the contact route.
	FormEndpoint string
}

type StorageConfig struct {
	DataDir string
}

type SiteConfig struct {
	// Owner overrides the compiled-in portfolio owner name.
	Owner string
	// ResumePath points at a resume PDF to attach to the knowledge
	// base at startup. Empty skips attachment.
	ResumePath string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server:  ServerConfig{Port: 4600},
		Widget:  WidgetConfig{TypingDelay: "600ms", SessionTTL: "30m"},
		Storage: StorageConfig{DataDir: defaultDataDir()},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads configuration from the JSON file backend and applies
// environment overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b *fileBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if _, err := time.ParseDuration(cfg.Widget.TypingDelay); err != nil {
		return Config{}, fmt.Errorf("invalid widget.typing_delay %q: %w", cfg.Widget.TypingDelay, err)
	}
	if _, err := time.ParseDuration(cfg.Widget.SessionTTL); err != nil {
		return Config{}, fmt.Errorf("invalid widget.session_ttl %q: %w", cfg.Widget.SessionTTL, err)
	}
	return cfg, nil
}

func applyBackend(cfg *Config, b *fileBackend) error {
	if v, ok, err := b.GetInt("server.port"); err != nil {
		return err
	} else if ok {
		cfg.Server.Port = v
	}

	stringKeys := []struct {
		key string
		dst *string
	}{
		{"widget.typing_delay", &cfg.Widget.TypingDelay},
		{"widget.session_ttl", &cfg.Widget.SessionTTL},
		{"contact.form_endpoint", &cfg.Contact.FormEndpoint},
		{"storage.data_dir", &cfg.Storage.DataDir},
		{"site.owner", &cfg.Site.Owner},
		{"site.resume_path", &cfg.Site.ResumePath},
		{"log.level", &cfg.Log.Level},
	}
	for _, sk := range stringKeys {
		if v, ok, err := b.GetString(sk.key); err != nil {
			return err
		} else if ok {
			*sk.dst = v
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ASSISTANT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	envStrings := []struct {
		name string
		dst  *string
	}{
		{"ASSISTANT_TYPING_DELAY", &cfg.Widget.TypingDelay},
		{"ASSISTANT_SESSION_TTL", &cfg.Widget.SessionTTL},
		{"ASSISTANT_CONTACT_ENDPOINT", &cfg.Contact.FormEndpoint},
		{"ASSISTANT_DATA_DIR", &cfg.Storage.DataDir},
		{"ASSISTANT_SITE_OWNER", &cfg.Site.Owner},
		{"ASSISTANT_RESUME_PATH", &cfg.Site.ResumePath},
		{"ASSISTANT_LOG_LEVEL", &cfg.Log.Level},
	}
	for _, es := range envStrings {
		if v := os.Getenv(es.name); v != "" {
			*es.dst = v
		}
	}
}

// TypingDelay returns the parsed typing delay. Load has already
// validated the string.
func (c Config) TypingDelay() time.Duration {
	d, _ := time.ParseDuration(c.Widget.TypingDelay)
	return d
}

// SessionTTL returns the parsed session TTL.
func (c Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Widget.SessionTTL)
	return d
}

// KV is one config entry for display.
type KV struct {
	Key   string
	Value string
}

// ShowAll returns the effective configuration as sorted key/value pairs.
func ShowAll(cfg Config) []KV {
	kvs := []KV{
		{"server.port", strconv.Itoa(cfg.Server.Port)},
		{"widget.typing_delay", cfg.Widget.TypingDelay},
		{"widget.session_ttl", cfg.Widget.SessionTTL},
		{"contact.form_endpoint", cfg.Contact.FormEndpoint},
		{"storage.data_dir", cfg.Storage.DataDir},
		{"site.owner", cfg.Site.Owner},
		{"site.resume_path", cfg.Site.ResumePath},
		{"log.level", cfg.Log.Level},
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return kvs
}

// SetKey writes one configuration value to the file backend.
func SetKey(key, value string) error {
	if !validKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	b := newFileBackend(configFilePath())
	if key == "server.port" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", value, err)
		}
		return b.SetInt(key, port)
	}
	return b.SetString(key, value)
}

func validKey(key string) bool {
	switch key {
	case "server.port", "widget.typing_delay", "widget.session_ttl",
		"contact.form_endpoint", "storage.data_dir",
		"site.owner", "site.resume_path", "log.level":
		return true
	}
	return false
}
