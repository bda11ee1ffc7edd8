package output

import "github.com/leapstack-labs/cfcheck/pkg/report"

// CheckDiagnostic is one finding in JSON output.
type CheckDiagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code,omitempty"`
	Variable string `json:"variable,omitempty"`
	Message  string `json:"message"`
}

// CheckFileResult is the outcome of checking one file.
type CheckFileResult struct {
	Path        string            `json:"path"`
	Version     string            `json:"cf_version,omitempty"`
	Diagnostics []CheckDiagnostic `json:"diagnostics"`
	Counts      report.Counts     `json:"counts"`
}

// CheckOutput is the JSON document for a whole check run.
type CheckOutput struct {
	Files  []CheckFileResult `json:"files"`
	Totals report.Counts     `json:"totals"`
}

// TableInfo describes one loaded reference table.
type TableInfo struct {
	Kind         string `json:"kind"`
	Version      string `json:"version,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	Entries      int    `json:"entries"`
	FromCache    bool   `json:"from_cache"`
}
