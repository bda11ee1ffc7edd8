package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cfcheck/internal/cli/config"
	"github.com/leapstack-labs/cfcheck/internal/cli/output"
	"github.com/leapstack-labs/cfcheck/pkg/cf"
	"github.com/leapstack-labs/cfcheck/pkg/table"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the shared command dependencies from the
// loaded configuration and the command's writers.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{
			OutputFormat:  config.DefaultOutput,
			Severity:      config.DefaultSeverity,
			StandardNames: config.DefaultStandardNames,
			AreaTypes:     config.DefaultAreaTypes,
			RegionNames:   config.DefaultRegionNames,
			CacheDays:     config.DefaultCacheDays,
		}
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// tableSpec binds a vocabulary kind to its configured locator and cache
// key.
type tableSpec struct {
	kind    table.Kind
	locator string
	key     string
}

func tableSpecs(cfg *config.Config) []tableSpec {
	return []tableSpec{
		{table.StandardNames, cfg.StandardNames, "standard_names"},
		{table.AreaTypes, cfg.AreaTypes, "area_types"},
		{table.RegionNames, cfg.RegionNames, "region_names"},
	}
}

// loadTables loads the three reference vocabularies. A load failure is
// fatal for the whole run.
func loadTables(loader *table.Loader, cfg *config.Config, logger *slog.Logger) (cf.Tables, []*table.Table, error) {
	loaded := make([]*table.Table, 0, 3)
	for _, s := range tableSpecs(cfg) {
		t, err := loader.Load(s.kind, s.locator, cfg.CachePolicy(s.key))
		if err != nil {
			return cf.Tables{}, nil, err
		}
		logger.Debug("loaded reference table",
			"kind", t.Kind.String(),
			"version", t.Version,
			"from_cache", t.FromCache)
		loaded = append(loaded, t)
	}
	return cf.Tables{
		StandardNames: loaded[0],
		AreaTypes:     loaded[1],
		RegionNames:   loaded[2],
	}, loaded, nil
}
