package commands

import (
	"fmt"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cfcheck/internal/cli/config"
	"github.com/leapstack-labs/cfcheck/internal/cli/output"
	"github.com/leapstack-labs/cfcheck/pkg/cf"
	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/report"
	"github.com/leapstack-labs/cfcheck/pkg/table"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	CFVersion string // Conventions version to check against (auto-detect if empty)
	Format    string // Output format override: text, json
	Severity  string // Minimum severity to report
	Debug     bool   // Emit debug diagnostics
}

// fileResult is the outcome of checking one file.
type fileResult struct {
	Path        string
	Version     cf.Version
	Diagnostics []report.Diagnostic
	Counts      report.Counts
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <files...>",
		Short: "Check NetCDF files against the CF conventions",
		Long: `Check one or more NetCDF files for compliance with the CF metadata
conventions.

The conventions version is read from each file's Conventions attribute
unless pinned with --cf-version. Findings are reported per variable with
the conventions section they refer to.`,
		Example: `  # Check files, auto-detecting the conventions version
  cfcheck check tas_day.nc pr_day.nc

  # Pin the conventions version
  cfcheck check --cf-version CF-1.7 tas_day.nc

  # Machine-readable output
  cfcheck check --format json tas_day.nc

  # Only report errors, with local reference tables
  cfcheck check --severity error --standard-names ./std-names.xml tas_day.nc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.CFVersion, "cf-version", "", "Conventions version to check against (default: auto-detect)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Minimum severity to report: fatal, error, warning, info, debug")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Emit debug diagnostics")
	cmd.Flags().String("standard-names", "", "Standard name table locator (URL or file)")
	cmd.Flags().String("area-types", "", "Area type table locator (URL or file)")
	cmd.Flags().String("region-names", "", "Region name table locator (URL or file)")
	cmd.Flags().Bool("cache-tables", false, "Cache downloaded tables on disk")
	cmd.Flags().Int("cache-time", config.DefaultCacheDays, "Cache time-to-live in days")
	cmd.Flags().String("cache-dir", "", "Cache directory (default: system temp)")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := applyCheckFlags(cmd, cmdCtx.Cfg)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	severity := report.SeverityInfo
	sevName := cfg.Severity
	if opts.Severity != "" {
		sevName = opts.Severity
	}
	if sevName != "" {
		s, ok := report.ParseSeverity(sevName)
		if !ok {
			return fmt.Errorf("invalid severity %q", sevName)
		}
		severity = s
	}
	if opts.Debug {
		severity = report.SeverityDebug
	}

	tables, loaded, err := loadTables(table.NewLoader(), cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	checker := cf.NewChecker(tables)
	if cfg.CFVersion != "" {
		v, ok := cf.ParseVersion(cfg.CFVersion)
		if !ok {
			return fmt.Errorf("invalid conventions version %q", cfg.CFVersion)
		}
		checker.ForceVersion = v
	}

	results := make([]fileResult, 0, len(args))
	for _, path := range args {
		results = append(results, checkOne(checker, path, opts.Debug, severity))
	}

	hasIssues := renderCheckResults(r, results, tableProblems(loaded))
	if hasIssues {
		return fmt.Errorf("compliance issues found")
	}
	return nil
}

// applyCheckFlags copies the config and folds in the table and cache
// flags that live on the check command rather than the root.
func applyCheckFlags(cmd *cobra.Command, base *config.Config) *config.Config {
	cfg := *base
	flags := cmd.Flags()
	if flags.Changed("standard-names") {
		cfg.StandardNames, _ = flags.GetString("standard-names")
	}
	if flags.Changed("area-types") {
		cfg.AreaTypes, _ = flags.GetString("area-types")
	}
	if flags.Changed("region-names") {
		cfg.RegionNames, _ = flags.GetString("region-names")
	}
	if flags.Changed("cache-tables") {
		cfg.CacheTables, _ = flags.GetBool("cache-tables")
	}
	if flags.Changed("cache-time") {
		cfg.CacheDays, _ = flags.GetInt("cache-time")
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir, _ = flags.GetString("cache-dir")
	}
	if flags.Changed("cf-version") {
		cfg.CFVersion, _ = flags.GetString("cf-version")
	}
	return &cfg
}

// checkOne runs the checker over a single file, folding open failures
// into a fatal diagnostic so one broken file does not end the run.
func checkOne(checker *cf.Checker, path string, debug bool, severity report.Severity) fileResult {
	rep := report.NewCollector(path, debug)
	res := fileResult{Path: path}

	f, err := dataset.Open(path)
	if err != nil {
		_ = rep.Fatalf("", "2.1", "Cannot open file: %v", err)
	} else {
		version, cerr := checker.CheckFile(f, rep)
		_ = f.Close()
		if cerr != nil {
			_ = rep.Fatalf("", "", "%v", cerr)
		}
		res.Version = version
	}

	res.Diagnostics = filterSeverity(rep.Diagnostics(), severity)
	res.Counts = rep.Counts()
	return res
}

func filterSeverity(diags []report.Diagnostic, threshold report.Severity) []report.Diagnostic {
	out := make([]report.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}

// tableProblems collects the integrity findings of the loaded tables.
func tableProblems(tables []*table.Table) []string {
	var out []string
	for _, t := range tables {
		for _, p := range t.Problems {
			out = append(out, fmt.Sprintf("%s table: %s", t.Kind, p.Message))
		}
	}
	return out
}

// renderCheckResults writes the findings and returns whether any fatal
// findings or errors were reported.
func renderCheckResults(r *output.Renderer, results []fileResult, problems []string) bool {
	var totals report.Counts
	for _, res := range results {
		totals.Merge(res.Counts)
	}
	hasIssues := totals.Fatal > 0 || totals.Error > 0 || len(problems) > 0

	if r.EffectiveMode() == output.ModeJSON {
		out := output.CheckOutput{Totals: totals}
		for _, res := range results {
			fr := output.CheckFileResult{
				Path:        res.Path,
				Counts:      res.Counts,
				Diagnostics: []output.CheckDiagnostic{},
			}
			if !res.Version.IsZero() {
				fr.Version = res.Version.String()
			}
			for _, d := range res.Diagnostics {
				fr.Diagnostics = append(fr.Diagnostics, output.CheckDiagnostic{
					Severity: d.Severity.String(),
					Code:     d.Code,
					Variable: d.Var,
					Message:  d.Message,
				})
			}
			out.Files = append(out.Files, fr)
		}
		_ = r.JSON(out)
		return hasIssues
	}

	for _, msg := range problems {
		r.Println(r.Styles().Error.Render("error: " + msg))
	}
	if len(problems) > 0 {
		r.Println("")
	}

	for _, res := range results {
		header := res.Path
		if !res.Version.IsZero() {
			header += "  (" + res.Version.String() + ")"
		}
		r.Println(r.Styles().FilePath.Render(header))
		if len(res.Diagnostics) == 0 {
			r.Success("compliant")
			r.Println("")
			continue
		}
		for _, d := range res.Diagnostics {
			r.Printf("  %s  %s\n", severityLabel(r, d.Severity), diagnosticText(d))
		}
		r.Println("")
	}

	if len(results) > 1 {
		renderSummaryTable(r, results, totals)
	}
	return hasIssues
}

func severityLabel(r *output.Renderer, s report.Severity) string {
	label := fmt.Sprintf("%-7s", s)
	switch s {
	case report.SeverityFatal, report.SeverityError:
		return r.Styles().Error.Render(label)
	case report.SeverityWarn:
		return r.Styles().Warning.Render(label)
	case report.SeverityInfo:
		return r.Styles().Info.Render(label)
	default:
		return r.Styles().Muted.Render(label)
	}
}

func diagnosticText(d report.Diagnostic) string {
	var b strings.Builder
	if d.Code != "" {
		b.WriteString("(" + d.Code + ") ")
	}
	if d.Var != "" {
		b.WriteString(d.Var + ": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

func renderSummaryTable(r *output.Renderer, results []fileResult, totals report.Counts) {
	t := prettytable.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(prettytable.StyleLight)
	t.AppendHeader(prettytable.Row{"File", "Fatal", "Errors", "Warnings", "Info"})
	for _, res := range results {
		t.AppendRow(prettytable.Row{
			res.Path, res.Counts.Fatal, res.Counts.Error, res.Counts.Warn, res.Counts.Info,
		})
	}
	t.AppendFooter(prettytable.Row{"total", totals.Fatal, totals.Error, totals.Warn, totals.Info})
	t.Render()
}
