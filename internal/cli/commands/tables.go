package commands

import (
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cfcheck/internal/cli/output"
	tbl "github.com/leapstack-labs/cfcheck/pkg/table"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Show the reference tables in use",
		Long: `Load the standard name, area type and region name tables and report
their version, last modification date and cache freshness.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			_, loaded, err := loadTables(tbl.NewLoader(), cmdCtx.Cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}
			renderTables(cmdCtx.Renderer, loaded)
			return nil
		},
	}
}

func renderTables(r *output.Renderer, tables []*tbl.Table) {
	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]output.TableInfo, 0, len(tables))
		for _, t := range tables {
			infos = append(infos, output.TableInfo{
				Kind:         t.Kind.String(),
				Version:      t.Version,
				LastModified: t.LastModified,
				Entries:      tableEntries(t),
				FromCache:    t.FromCache,
			})
		}
		_ = r.JSON(infos)
		return
	}

	w := prettytable.NewWriter()
	w.SetOutputMirror(r.Out())
	w.SetStyle(prettytable.StyleLight)
	w.AppendHeader(prettytable.Row{"Table", "Version", "Last modified", "Entries", "Source"})
	for _, t := range tables {
		source := "fetched"
		if t.FromCache {
			source = "cache"
		}
		w.AppendRow(prettytable.Row{t.Kind, t.Version, t.LastModified, tableEntries(t), source})
	}
	w.Render()

	for _, t := range tables {
		for _, p := range t.Problems {
			r.Println(r.Styles().Warning.Render(t.Kind.String() + " table: " + p.Message))
		}
	}
}

func tableEntries(t *tbl.Table) int {
	if t.Units != nil {
		return len(t.Units)
	}
	return len(t.Members)
}
