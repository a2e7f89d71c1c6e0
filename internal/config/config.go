package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/subtrack/internal/player"
	"github.com/mgpai22/subtrack/internal/sanitize"
)

const DefaultPath = "subtrack.yaml"

type Config struct {
	Display  player.Settings `yaml:"display"`
	Playback Playback        `yaml:"playback"`
	Sanitize Sanitize        `yaml:"sanitize"`
	Server   Server          `yaml:"server"`

	path string
}

type Playback struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Encoding     string        `yaml:"encoding"` // empty means detect
	Disabled     bool          `yaml:"start_disabled"`
}

// Sanitize is the markup allow-list table.
type Sanitize struct {
	AllowedTags   []string            `yaml:"allowed_tags"`
	AttributeTags map[string][]string `yaml:"attribute_tags"`
	DropTags      []string            `yaml:"drop_tags"`
}

type Server struct {
	Addr         string   `yaml:"addr"`
	CORSOrigins  []string `yaml:"cors_origins"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
}

func Default() *Config {
	c := &Config{}

	c.Display = player.DefaultSettings()

	c.Playback.PollInterval = player.DefaultPollInterval

	c.Sanitize.AllowedTags = []string{"b", "i", "u", "em", "strong", "s", "br"}
	c.Sanitize.AttributeTags = map[string][]string{"font": {"color", "size", "face"}}

	c.Server.Addr = ":8080"
	c.Server.CORSOrigins = []string{"*"}
	c.Server.MaxBodyBytes = 4 << 20

	return c
}

// Load reads path over the defaults; keys missing from the file keep
// their default values. A missing file is not an error when path is
// the default location. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		cfg.path = path
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// Path is the file the config was read from, empty for defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("SUBTRACK_ADDR", c.Server.Addr)

	if v := os.Getenv("SUBTRACK_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("SUBTRACK_ENCODING"); v != "" {
		c.Playback.Encoding = v
	}
}

func (c *Config) normalize() {
	c.Display.TextColor = strings.TrimSpace(c.Display.TextColor)
	c.Display.Position = player.Position(strings.ToLower(strings.TrimSpace(string(c.Display.Position))))
	c.Playback.Encoding = strings.TrimSpace(c.Playback.Encoding)
}

// Policy builds the sanitizer policy from the allow-list table.
func (c *Config) Policy() *sanitize.Policy {
	return sanitize.NewPolicy(
		c.Sanitize.AllowedTags,
		c.Sanitize.AttributeTags,
		c.Sanitize.DropTags,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
