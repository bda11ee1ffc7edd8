package config

import (
	"fmt"

	"github.com/leapstack-labs/cfcheck/pkg/cf"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("invalid output format %q (want auto, text or json)", c.OutputFormat)
	}
	if c.Severity != "" {
		if _, ok := report.ParseSeverity(c.Severity); !ok {
			return fmt.Errorf("invalid severity %q", c.Severity)
		}
	}
	if c.CFVersion != "" {
		if _, ok := cf.ParseVersion(c.CFVersion); !ok {
			return fmt.Errorf("invalid conventions version %q", c.CFVersion)
		}
	}
	if c.CacheDays < 0 {
		return fmt.Errorf("cache_time must not be negative")
	}
	return nil
}
