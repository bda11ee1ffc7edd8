package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultSeverity, cfg.Severity)
	assert.Equal(t, DefaultStandardNames, cfg.StandardNames)
	assert.Equal(t, DefaultAreaTypes, cfg.AreaTypes)
	assert.Equal(t, DefaultRegionNames, cfg.RegionNames)
	assert.False(t, cfg.CacheTables)
	assert.Equal(t, DefaultCacheDays, cfg.CacheDays)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `severity: error
cache_tables: true
cache_time: 7
standard_names: /opt/tables/standard-names.xml
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cfcheck.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Severity)
	assert.True(t, cfg.CacheTables)
	assert.Equal(t, 7, cfg.CacheDays)
	assert.Equal(t, "/opt/tables/standard-names.xml", cfg.StandardNames)
	assert.Equal(t, "cfcheck.yaml", GetConfigFileUsed())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cfcheck.yaml"), []byte("severity: error\n"), 0o644))
	t.Setenv("CFCHECK_SEVERITY", "warning")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.Severity)
}

func TestLoadConfigFlagsHighestPriority(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("CFCHECK_SEVERITY", "warning")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("severity", "", "")
	fs.Int("cache-time", DefaultCacheDays, "")
	fs.String("cf-version", "", "")
	require.NoError(t, fs.Set("severity", "debug"))
	require.NoError(t, fs.Set("cache-time", "14"))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Severity)
	assert.Equal(t, 14, cfg.CacheDays)
	// Unchanged flags do not override lower layers.
	assert.Empty(t, cfg.CFVersion)
}

func TestCachePolicy(t *testing.T) {
	cfg := &Config{CacheTables: false}
	assert.False(t, cfg.CachePolicy("std").Enabled)

	cfg = &Config{CacheTables: true, CacheDays: 2, CacheDir: "/var/cache/cfcheck"}
	p := cfg.CachePolicy("std")
	assert.True(t, p.Enabled)
	assert.Equal(t, 48*time.Hour, p.MaxAge)
	assert.Equal(t, "/var/cache/cfcheck", p.Dir)
	assert.Equal(t, "std", p.Key)

	// Empty dir falls back to the system temp directory.
	cfg = &Config{CacheTables: true, CacheDays: 1}
	assert.NotEmpty(t, cfg.CachePolicy("std").Dir)
}

func TestValidate(t *testing.T) {
	good := &Config{OutputFormat: "auto", Severity: "warning", CFVersion: "CF-1.7"}
	assert.NoError(t, good.Validate())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad output", Config{OutputFormat: "xml"}},
		{"bad severity", Config{Severity: "critical"}},
		{"bad version", Config{CFVersion: "CF-2.5"}},
		{"negative cache time", Config{CacheDays: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}
