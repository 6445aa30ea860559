package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the full gateway-client configuration. It is loaded from a JSON
// file and can be overridden with MILKY_* environment variables.
type Config struct {
	Clients   []ClientConfig  `json:"clients"`
	Reconnect ReconnectConfig `json:"reconnect"`
	Bot       BotConfig       `json:"bot"`
}

// ClientConfig identifies one Milky gateway endpoint. Immutable after load.
type ClientConfig struct {
	BaseURL     string `env:"MILKY_BASE_URL"     json:"base_url"`
	AccessToken string `env:"MILKY_ACCESS_TOKEN" json:"access_token,omitempty"`
}

type ReconnectConfig struct {
	IntervalSeconds int `env:"MILKY_RECONNECT_INTERVAL" json:"interval_seconds"`
}

// BotConfig holds settings consumed above the protocol layer.
type BotConfig struct {
	// Nicknames the bot answers to; a leading nickname in a text segment
	// marks the message as addressed to the bot.
	Nicknames []string `env:"MILKY_BOT_NICKNAMES" envSeparator:"," json:"nicknames,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Reconnect: ReconnectConfig{IntervalSeconds: 3},
	}
}

// LoadConfig reads the JSON config at path, then applies environment
// overrides. A missing file yields the defaults. When MILKY_BASE_URL is set,
// an endpoint built from the environment is appended to the client list.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	var envClient ClientConfig
	if err := env.Parse(&envClient); err != nil {
		return nil, err
	}
	if envClient.BaseURL != "" {
		cfg.Clients = append(cfg.Clients, envClient)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks that every configured endpoint has a usable base URL.
func (c *Config) Validate() error {
	for i, client := range c.Clients {
		if err := client.validate(); err != nil {
			return fmt.Errorf("clients[%d]: %w", i, err)
		}
	}
	if c.Reconnect.IntervalSeconds <= 0 {
		c.Reconnect.IntervalSeconds = 3
	}
	return nil
}

func (c ClientConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url %q has no host", c.BaseURL)
	}
	return nil
}

// APIURL returns the HTTP endpoint for one API action.
func (c ClientConfig) APIURL(action string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/" + action
}

// EventURL returns the websocket URL of the event stream, with the access
// token appended as a query parameter when configured.
func (c ClientConfig) EventURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("base_url %q must use http or https", c.BaseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/event"
	if c.AccessToken != "" {
		q := u.Query()
		q.Set("access_token", c.AccessToken)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
