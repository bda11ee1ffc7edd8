// Package cf implements the conventions checks: variable role
// classification, the attribute mini-grammars and their semantic
// validation against the reference vocabularies.
package cf

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

// Version is a conventions version, e.g. CF-1.7.
type Version struct {
	Major, Minor int
}

// The versions the checker knows about.
var (
	V1_0 = Version{1, 0}
	V1_1 = Version{1, 1}
	V1_2 = Version{1, 2}
	V1_3 = Version{1, 3}
	V1_4 = Version{1, 4}
	V1_5 = Version{1, 5}
	V1_6 = Version{1, 6}
	V1_7 = Version{1, 7}
	V1_8 = Version{1, 8}

	// Newest is the most recent version the checker fully supports.
	Newest = V1_8
)

// String returns the canonical "CF-x.y" spelling.
func (v Version) String() string {
	return fmt.Sprintf("CF-%d.%d", v.Major, v.Minor)
}

// IsZero reports whether the version is unset.
func (v Version) IsZero() bool { return v.Major == 0 && v.Minor == 0 }

// AtLeast reports whether v is o or later.
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	return v.Minor >= o.Minor
}

// Before reports whether v predates o.
func (v Version) Before(o Version) bool { return !v.AtLeast(o) }

// ParseVersion parses "CF-1.7" or the bare "1.7" form. Versions outside
// the supported range are rejected.
func ParseVersion(s string) (Version, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "CF-")
	var v Version
	if _, err := fmt.Sscanf(s, "%d.%d", &v.Major, &v.Minor); err != nil {
		return Version{}, false
	}
	if v.Before(V1_0) || Newest.Before(v) {
		return Version{}, false
	}
	return v, true
}

// DetectVersion determines the conventions version from the global
// Conventions attribute. The attribute may list several conventions
// separated by commas or blanks; the first recognisable CF token wins.
// A COARDS-only file is checked against CF-1.0 with a warning. With no
// resolvable version checking of the file cannot proceed, so the
// failure is fatal.
func DetectVersion(f dataset.File, rep *report.Collector) (Version, error) {
	conv, ok := f.Attributes().Str("Conventions")
	if !ok {
		return Version{}, rep.Fatalf("", "2.6.1", "No Conventions attribute present")
	}

	var tokens []string
	if strings.Contains(conv, ",") {
		for _, t := range strings.Split(conv, ",") {
			tokens = append(tokens, strings.TrimSpace(t))
		}
	} else {
		tokens = strings.Fields(conv)
	}

	coards := false
	for _, t := range tokens {
		if v, ok := ParseVersion(t); ok && strings.HasPrefix(t, "CF-") {
			return v, nil
		}
		if t == "COARDS" {
			coards = true
		}
	}
	if coards {
		rep.Warn("", "2.6.1", "The conformance document assumes that the file conforms to CF-1.0; only COARDS conformance is declared")
		return V1_0, nil
	}
	return Version{}, rep.Fatalf("", "2.6.1", "Conventions attribute %q names no recognised CF version", conv)
}
