// Package commands tests for CLI command creation and rendering.
package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cfcheck/internal/cli/output"
	"github.com/leapstack-labs/cfcheck/internal/cli/testutil"
	"github.com/leapstack-labs/cfcheck/pkg/cf"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand()

	assert.Equal(t, "check <files...>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{
		"cf-version", "format", "severity", "debug",
		"standard-names", "area-types", "region-names",
		"cache-tables", "cache-time", "cache-dir",
	}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewTablesCommand(t *testing.T) {
	cmd := NewTablesCommand()
	assert.Equal(t, "tables", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func sampleResults() []fileResult {
	return []fileResult{
		{
			Path:    "good.nc",
			Version: cf.V1_7,
		},
		{
			Path:    "bad.nc",
			Version: cf.V1_6,
			Diagnostics: []report.Diagnostic{
				{Severity: report.SeverityError, Var: "tas", Code: "3.3", Message: "Invalid standard_name: temprature"},
				{Severity: report.SeverityWarn, Var: "lat", Code: "3.1", Message: "units level is deprecated"},
			},
			Counts: report.Counts{Error: 1, Warn: 1},
		},
	}
}

func TestRenderCheckResultsText(t *testing.T) {
	tr := testutil.NewTestRendererText()

	hasIssues := renderCheckResults(tr.Renderer, sampleResults(), nil)
	assert.True(t, hasIssues)

	out := tr.Output()
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "good.nc  (CF-1.7)")
	assert.Contains(t, out, "compliant")
	assert.Contains(t, out, "bad.nc  (CF-1.6)")
	assert.Contains(t, out, "(3.3) tas: Invalid standard_name: temprature")
	assert.Contains(t, out, "units level is deprecated")
	// Summary table appears for multi-file runs.
	assert.Contains(t, out, "TOTAL")
}

func TestRenderCheckResultsJSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()

	hasIssues := renderCheckResults(tr.Renderer, sampleResults(), nil)
	assert.True(t, hasIssues)

	var got output.CheckOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	require.Len(t, got.Files, 2)
	assert.Equal(t, "good.nc", got.Files[0].Path)
	assert.Equal(t, "CF-1.7", got.Files[0].Version)
	assert.Empty(t, got.Files[0].Diagnostics)
	require.Len(t, got.Files[1].Diagnostics, 2)
	assert.Equal(t, "error", got.Files[1].Diagnostics[0].Severity)
	assert.Equal(t, "tas", got.Files[1].Diagnostics[0].Variable)
	assert.Equal(t, 1, got.Totals.Error)
	assert.Equal(t, 1, got.Totals.Warn)
}

func TestRenderCheckResultsClean(t *testing.T) {
	tr := testutil.NewTestRendererText()
	results := []fileResult{{Path: "good.nc", Version: cf.V1_7}}

	hasIssues := renderCheckResults(tr.Renderer, results, nil)
	assert.False(t, hasIssues)
	assert.Contains(t, tr.Output(), "compliant")
	// No summary table for a single file.
	assert.NotContains(t, tr.Output(), "TOTAL")
}

func TestRenderCheckResultsTableProblems(t *testing.T) {
	tr := testutil.NewTestRendererText()
	results := []fileResult{{Path: "good.nc", Version: cf.V1_7}}
	problems := []string{"standard names table: alias x refers to undefined entry y"}

	hasIssues := renderCheckResults(tr.Renderer, results, problems)
	assert.True(t, hasIssues)
	assert.Contains(t, tr.Output(), "undefined entry y")
}

func TestFilterSeverity(t *testing.T) {
	diags := []report.Diagnostic{
		{Severity: report.SeverityError},
		{Severity: report.SeverityWarn},
		{Severity: report.SeverityInfo},
		{Severity: report.SeverityDebug},
	}

	assert.Len(t, filterSeverity(diags, report.SeverityError), 1)
	assert.Len(t, filterSeverity(diags, report.SeverityWarn), 2)
	assert.Len(t, filterSeverity(diags, report.SeverityInfo), 3)
	assert.Len(t, filterSeverity(diags, report.SeverityDebug), 4)
}
