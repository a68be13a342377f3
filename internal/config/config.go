// Package config loads the site configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/notion-site/internal/validate"
)

// Config is the notion-site configuration.
type Config struct {
	// Addr is the listen address for `nsite serve`.
	Addr string `yaml:"addr,omitempty"`

	// TokenSource is where the Notion integration token comes from:
	// "env:VAR_NAME", "keyring", or a literal token value.
	TokenSource string `yaml:"token_source,omitempty"`

	// HomepageID is the Notion page served at /api/homepage.
	HomepageID string `yaml:"homepage_id,omitempty"`

	// PagesDataSource is the data source holding static pages.
	PagesDataSource string `yaml:"pages_data_source,omitempty"`

	// BlogDataSource is the data source holding blog posts.
	BlogDataSource string `yaml:"blog_data_source,omitempty"`

	// SlugProperty is the rich_text property used for slug lookup.
	SlugProperty string `yaml:"slug_property,omitempty"`

	// PublishedProperty is the checkbox property gating blog posts.
	PublishedProperty string `yaml:"published_property,omitempty"`

	// DescriptionLength caps derived page descriptions, in runes.
	DescriptionLength int `yaml:"description_length,omitempty"`

	// KeepEmptyParagraphs renders empty paragraphs as <p></p> instead
	// of dropping them.
	KeepEmptyParagraphs bool `yaml:"keep_empty_paragraphs,omitempty"`

	// ChildFetchLimit caps children fetched per container block.
	ChildFetchLimit int `yaml:"child_fetch_limit,omitempty"`

	// AllowedOrigins is the CORS allowlist for the API.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`

	// CacheMaxAge is the Cache-Control max-age in seconds.
	CacheMaxAge int `yaml:"cache_max_age,omitempty"`
}

// configPathFunc returns the default config path; overridable for tests.
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// defaultConfigPath returns ~/.config/notion-site/config.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "notion-site", "config.yaml"), nil
}

// DefaultConfigPath returns ~/.config/notion-site/config.yaml
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Load loads config from the default path, returning defaults if the
// file does not exist.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return applyDefaults(&Config{}), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyDefaults(&Config{}), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return applyDefaults(&cfg), nil
}

// applyDefaults fills in zero-value fields.
func applyDefaults(cfg *Config) *Config {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.TokenSource == "" {
		cfg.TokenSource = "env:NOTION_TOKEN"
	}
	if cfg.SlugProperty == "" {
		cfg.SlugProperty = "Slug"
	}
	if cfg.PublishedProperty == "" {
		cfg.PublishedProperty = "Published"
	}
	if cfg.DescriptionLength == 0 {
		cfg.DescriptionLength = 200
	}
	if cfg.ChildFetchLimit == 0 {
		cfg.ChildFetchLimit = 500
	}
	return cfg
}

// Validate checks that every configured Notion ID is well-formed.
func (c *Config) Validate() error {
	ids := map[string]string{
		"homepage_id":       c.HomepageID,
		"pages_data_source": c.PagesDataSource,
		"blog_data_source":  c.BlogDataSource,
	}
	for field, id := range ids {
		if id == "" {
			continue
		}
		if err := validate.UUID(field, id); err != nil {
			return err
		}
	}
	return nil
}

// SaveToPath saves config to a specific path with restrictive permissions.
func (c *Config) SaveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Save saves config to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// ResolveToken resolves the configured token source to a token value.
// keyringLookup is called for the "keyring" source; pass the auth
// package's lookup so config stays free of keyring imports.
func (c *Config) ResolveToken(keyringLookup func() (string, error)) (string, error) {
	source := strings.TrimSpace(c.TokenSource)
	switch {
	case strings.HasPrefix(source, "env:"):
		name := strings.TrimPrefix(source, "env:")
		token := os.Getenv(name)
		if token == "" {
			return "", fmt.Errorf("environment variable %s is not set", name)
		}
		return token, nil
	case source == "keyring":
		if keyringLookup == nil {
			return "", fmt.Errorf("keyring token source is not available")
		}
		return keyringLookup()
	case source != "":
		return source, nil
	default:
		return "", fmt.Errorf("no token source configured")
	}
}
