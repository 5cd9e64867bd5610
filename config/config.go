// Package config loads notionpipe settings from the environment, an optional
// .env file and an optional YAML or TOML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/notionpipe/core"
)

const (
	defaultContentRoot = "./md"
	defaultBaseURL     = "/"
	defaultDelay       = 400 * time.Millisecond
	defaultTimeout     = 30 * time.Second
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultLedgerPath  = ".notionpipe/ledger.db"
)

// Config is the resolved configuration of a run.
type Config struct {
	Secret         string           `mapstructure:"notion_secret"`
	DatabaseID     string           `mapstructure:"notion_database_id"`
	BlogDatabaseID string           `mapstructure:"notion_blog_database_id"`
	ContentType    string           `mapstructure:"content_type"`
	ContentRoot    string           `mapstructure:"content_root"`
	AssetRoot      string           `mapstructure:"asset_root"`
	PublicBaseURL  string           `mapstructure:"public_base_url"`
	PageDelay      time.Duration    `mapstructure:"page_delay"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	LogLevel       string           `mapstructure:"log_level"`
	LogFormat      string           `mapstructure:"log_format"`
	LedgerPath     string           `mapstructure:"ledger_path"`
	ExportFormats  []string         `mapstructure:"export_formats"`
	Types          []core.SyncEntry `mapstructure:"types"`
}

// Load reads envFile (missing is fine), the environment and configFile
// (optional), in increasing order of precedence for the environment.
func Load(envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("NOTION_SECRET", "")
	v.SetDefault("NOTION_DATABASE_ID", "")
	v.SetDefault("NOTION_BLOG_DATABASE_ID", "")
	v.SetDefault("CONTENT_TYPE", "")
	v.SetDefault("CONTENT_ROOT", defaultContentRoot)
	v.SetDefault("ASSET_ROOT", "")
	v.SetDefault("PUBLIC_BASE_URL", defaultBaseURL)
	v.SetDefault("PAGE_DELAY", defaultDelay)
	v.SetDefault("REQUEST_TIMEOUT", defaultTimeout)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("LOG_FORMAT", defaultLogFormat)
	v.SetDefault("LEDGER_PATH", defaultLedgerPath)
	v.SetDefault("EXPORT_FORMATS", []string{})
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.AssetRoot == "" {
		c.AssetRoot = c.ContentRoot
	}
	formats := make([]string, 0, len(c.ExportFormats))
	for _, f := range c.ExportFormats {
		for _, part := range strings.Split(f, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				formats = append(formats, part)
			}
		}
	}
	c.ExportFormats = formats
}

// Entries returns the configured sync entries. Without a types list, the
// single database from NOTION_DATABASE_ID (or NOTION_BLOG_DATABASE_ID) is
// used.
func (c *Config) Entries() []core.SyncEntry {
	if len(c.Types) > 0 {
		return c.Types
	}
	id := c.DatabaseID
	if id == "" {
		id = c.BlogDatabaseID
	}
	return []core.SyncEntry{{DatabaseID: id, ContentType: c.ContentType}}
}

// SkipReason explains why a sync must not run, or returns "" when it can.
// Missing credentials or root make the sync a deliberate no-op.
func (c *Config) SkipReason() string {
	switch {
	case strings.TrimSpace(c.Secret) == "":
		return "NOTION_SECRET is not set"
	case strings.TrimSpace(c.ContentRoot) == "":
		return "CONTENT_ROOT is empty"
	}
	return ""
}

// HasExport reports whether format was requested.
func (c *Config) HasExport(format string) bool {
	for _, f := range c.ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}
