// Package report collects checker findings per file, preserving emission
// order so output is reproducible across runs on the same input.
package report

import (
	"errors"
	"fmt"
)

// ErrFatal is returned by Collector.Fatalf after recording a fatal finding.
// Callers abort checking of the current file only.
var ErrFatal = errors.New("fatal checker error")

// Diagnostic is a single checker finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Var      string   `json:"variable,omitempty"` // empty means global
	Code     string   `json:"code,omitempty"`     // CF section, e.g. "7.3"
	Message  string   `json:"message"`
}

// String renders the diagnostic in the conventional single-line form.
func (d Diagnostic) String() string {
	s := d.Severity.String()
	if d.Code != "" {
		s += " (" + d.Code + ")"
	}
	if d.Var != "" {
		s += ": variable " + d.Var
	}
	return s + ": " + d.Message
}

// Counts holds the number of findings per severity.
type Counts struct {
	Fatal int `json:"fatal"`
	Error int `json:"errors"`
	Warn  int `json:"warnings"`
	Info  int `json:"info"`
	Debug int `json:"debug,omitempty"`
}

// Add increments the count for the given severity.
func (c *Counts) Add(s Severity) {
	switch s {
	case SeverityFatal:
		c.Fatal++
	case SeverityError:
		c.Error++
	case SeverityWarn:
		c.Warn++
	case SeverityInfo:
		c.Info++
	case SeverityDebug:
		c.Debug++
	}
}

// Merge adds the counts of other into c.
func (c *Counts) Merge(other Counts) {
	c.Fatal += other.Fatal
	c.Error += other.Error
	c.Warn += other.Warn
	c.Info += other.Info
	c.Debug += other.Debug
}

// Collector receives findings for a single file. It is not safe for
// concurrent use; the checker is single-threaded by design.
type Collector struct {
	file  string
	debug bool

	diags  []Diagnostic
	counts Counts

	// first-seen order of variables that have findings
	varOrder []string
	varSeen  map[string]bool
}

// NewCollector creates a collector for the named file.
// Debug findings are dropped unless debug is true.
func NewCollector(file string, debug bool) *Collector {
	return &Collector{
		file:    file,
		debug:   debug,
		varSeen: make(map[string]bool),
	}
}

// File returns the name of the file the collector reports on.
func (c *Collector) File() string { return c.file }

// Emit records a finding. varName may be empty for global findings and
// code may be empty when no convention section applies.
func (c *Collector) Emit(sev Severity, varName, code, format string, args ...any) {
	if sev == SeverityDebug && !c.debug {
		return
	}
	c.diags = append(c.diags, Diagnostic{
		Severity: sev,
		Var:      varName,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
	c.counts.Add(sev)
	if varName != "" && !c.varSeen[varName] {
		c.varSeen[varName] = true
		c.varOrder = append(c.varOrder, varName)
	}
}

// Error records an error finding.
func (c *Collector) Error(varName, code, format string, args ...any) {
	c.Emit(SeverityError, varName, code, format, args...)
}

// Warn records a warning finding.
func (c *Collector) Warn(varName, code, format string, args ...any) {
	c.Emit(SeverityWarn, varName, code, format, args...)
}

// Info records an informational finding.
func (c *Collector) Info(varName, code, format string, args ...any) {
	c.Emit(SeverityInfo, varName, code, format, args...)
}

// Debug records a debug finding; dropped unless the collector was
// created with debug enabled.
func (c *Collector) Debug(varName, format string, args ...any) {
	c.Emit(SeverityDebug, varName, "", format, args...)
}

// Fatalf records a fatal finding and returns ErrFatal so the caller can
// abort checking of the current file.
func (c *Collector) Fatalf(varName, code, format string, args ...any) error {
	c.Emit(SeverityFatal, varName, code, format, args...)
	return ErrFatal
}

// Diagnostics returns all findings in emission order.
func (c *Collector) Diagnostics() []Diagnostic { return c.diags }

// Counts returns per-severity totals.
func (c *Collector) Counts() Counts { return c.counts }

// Variables returns the variables with findings in first-seen order.
func (c *Collector) Variables() []string { return c.varOrder }

// ForVariable returns the findings attached to one variable, in emission
// order. An empty name selects global findings.
func (c *Collector) ForVariable(name string) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Var == name {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any Fatal or Error findings were recorded.
func (c *Collector) HasErrors() bool {
	return c.counts.Fatal > 0 || c.counts.Error > 0
}
