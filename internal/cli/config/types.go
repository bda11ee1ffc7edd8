// Package config provides configuration management for the cfcheck CLI.
//
// Configuration is layered: built-in defaults, then cfcheck.yaml, then
// CFCHECK_* environment variables, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/cfcheck/pkg/table"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose       bool   `koanf:"verbose"`
	OutputFormat  string `koanf:"output"`
	CFVersion     string `koanf:"cf_version"`
	Severity      string `koanf:"severity"`
	StandardNames string `koanf:"standard_names"`
	AreaTypes     string `koanf:"area_types"`
	RegionNames   string `koanf:"region_names"`
	CacheTables   bool   `koanf:"cache_tables"`
	CacheDays     int    `koanf:"cache_time"`
	CacheDir      string `koanf:"cache_dir"`
}

// Default configuration values. The table locators point at the
// published vocabularies; any of them may be overridden with a local
// file path.
const (
	DefaultStandardNames = "http://cfconventions.org/Data/cf-standard-names/current/src/cf-standard-name-table.xml"
	DefaultAreaTypes     = "http://cfconventions.org/Data/area-type-table/current/src/area-type-table.xml"
	DefaultRegionNames   = "http://cfconventions.org/Data/standardized-region-list/standardized-region-list.xml"
	DefaultSeverity      = "info"
	DefaultOutput        = "auto"
	DefaultCacheDays     = 1
)

// CachePolicy builds the table cache policy for one vocabulary. key
// distinguishes the cache entries of the three tables.
func (c *Config) CachePolicy(key string) table.Policy {
	if !c.CacheTables {
		return table.Disabled
	}
	dir := c.CacheDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "cfcheck")
	}
	return table.Policy{
		Enabled: true,
		MaxAge:  time.Duration(c.CacheDays) * 24 * time.Hour,
		Dir:     dir,
		Key:     key,
	}
}
