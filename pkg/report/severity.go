package report

import "strings"

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a checker finding.
// Lower values are more severe, so filtering uses s <= threshold.
type Severity int

// Severity levels for findings.
const (
	// SeverityFatal indicates the file cannot be checked further.
	SeverityFatal Severity = iota
	// SeverityError indicates a violation of the convention.
	SeverityError
	// SeverityWarn indicates a questionable construct that is not strictly illegal.
	SeverityWarn
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityDebug indicates diagnostic detail, suppressed unless requested.
	SeverityDebug
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityError:
		return "error"
	case SeverityWarn:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so severities render as
// their names in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarn and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "fatal":
		return SeverityFatal, true
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarn, true
	case "info":
		return SeverityInfo, true
	case "debug":
		return SeverityDebug, true
	default:
		return SeverityWarn, false
	}
}
