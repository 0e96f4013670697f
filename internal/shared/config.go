package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const maxPageSize = 100

// Config represents the application configuration loaded from a TOML file and the environment.
type Config struct {
	Notion  NotionConfig  `toml:"notion"`
	YouTube YouTubeConfig `toml:"youtube"`
	Log     LogConfig     `toml:"log"`
}

// NotionConfig contains the destination database settings.
type NotionConfig struct {
	APIKey     string `toml:"api_key"`
	DatabaseID string `toml:"database_id"`
	Version    string `toml:"version"`
	BaseURL    string `toml:"base_url"`
	PageSize   int    `toml:"page_size"`
}

// YouTubeConfig contains the ytmusicapi proxy location and credentials.
type YouTubeConfig struct {
	ProxyURL string `toml:"proxy_url"`
	AuthJSON string `toml:"auth_json"`
	AuthFile string `toml:"auth_file"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// envBinding maps an environment variable onto a config field.
type envBinding struct {
	name  string
	field func(*Config) *string
}

var envBindings = []envBinding{
	{"NOTION_API_KEY", func(c *Config) *string { return &c.Notion.APIKey }},
	{"NOTION_DATABASE_ID", func(c *Config) *string { return &c.Notion.DatabaseID }},
	{"NOTION_VERSION", func(c *Config) *string { return &c.Notion.Version }},
	{"NOTION_BASE_URL", func(c *Config) *string { return &c.Notion.BaseURL }},
	{"YTMUSIC_PROXY_URL", func(c *Config) *string { return &c.YouTube.ProxyURL }},
	{"YOUTUBE_OAUTH_JSON", func(c *Config) *string { return &c.YouTube.AuthJSON }},
	{"YOUTUBE_AUTH_FILE", func(c *Config) *string { return &c.YouTube.AuthFile }},
	{"LOG_LEVEL", func(c *Config) *string { return &c.Log.Level }},
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values absent from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig layers defaults, the config file at path (when it exists) and the environment.
func ResolveConfig(path string, getenv func(string) string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	config.ApplyEnv(getenv)
	return config, nil
}

// ApplyEnv overwrites fields with any non-empty environment values.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	for _, b := range envBindings {
		if v := strings.TrimSpace(getenv(b.name)); v != "" {
			*b.field(c) = v
		}
	}
}

// Validate reports every missing or invalid value required for a sync run.
func (c *Config) Validate() error {
	missing := append(c.missingNotion(), c.missingYouTube()...)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	if err := c.validateAuthJSON(); err != nil {
		return err
	}

	if c.Notion.PageSize < 0 || c.Notion.PageSize > maxPageSize {
		return fmt.Errorf("%w: notion.page_size must be at most %d", ErrInvalidConfig, maxPageSize)
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// ValidateNotion checks only the values needed to talk to the database.
func (c *Config) ValidateNotion() error {
	if missing := c.missingNotion(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateYouTube checks only the values needed to read liked songs.
func (c *Config) ValidateYouTube() error {
	if missing := c.missingYouTube(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return c.validateAuthJSON()
}

func (c *Config) missingNotion() []string {
	var missing []string
	if c.Notion.APIKey == "" {
		missing = append(missing, "NOTION_API_KEY")
	}
	if c.Notion.DatabaseID == "" {
		missing = append(missing, "NOTION_DATABASE_ID")
	}
	if c.Notion.Version == "" {
		missing = append(missing, "NOTION_VERSION")
	}
	return missing
}

func (c *Config) missingYouTube() []string {
	if c.YouTube.AuthJSON == "" && c.YouTube.AuthFile == "" {
		return []string{"YOUTUBE_OAUTH_JSON"}
	}
	return nil
}

func (c *Config) validateAuthJSON() error {
	if c.YouTube.AuthJSON == "" {
		return nil
	}
	if err := ValidateJSON([]byte(c.YouTube.AuthJSON)); err != nil {
		return fmt.Errorf("%w: YOUTUBE_OAUTH_JSON is not valid JSON", ErrInvalidCredentials)
	}
	return nil
}

// Credentials returns the proxy credentials in the form [services.YouTubeService.Authenticate] accepts.
func (c *Config) Credentials() map[string]string {
	return map[string]string{
		"auth_json": c.YouTube.AuthJSON,
		"auth_file": c.YouTube.AuthFile,
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
