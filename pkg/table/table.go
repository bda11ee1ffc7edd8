// Package table loads the reference vocabularies the checker validates
// against: the standard-name table (name to canonical unit), the
// area-type table and the standardized-region-name table. Tables come
// from XML sources (URL or local file) and may be cached on disk with a
// time-to-live policy.
package table

import "time"

// Kind identifies which vocabulary a table holds.
type Kind int

// Table kinds.
const (
	StandardNames Kind = iota
	AreaTypes
	RegionNames
)

// String returns the table kind's name.
func (k Kind) String() string {
	switch k {
	case StandardNames:
		return "standard names"
	case AreaTypes:
		return "area types"
	case RegionNames:
		return "region names"
	default:
		return "unknown"
	}
}

// Problem is a table-integrity finding made while loading, such as an
// alias whose target entry does not exist. Problems do not abort the
// load; the affected entry is omitted.
type Problem struct {
	Message string
}

// Table is one loaded vocabulary. Units is populated for the
// standard-name table; Members for the membership-set tables.
type Table struct {
	Kind         Kind
	Units        map[string]string
	Members      map[string]bool
	Version      string
	LastModified string
	FromCache    bool
	Problems     []Problem
}

// Has reports whether name is in the vocabulary.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	if t.Units != nil {
		_, ok := t.Units[name]
		return ok
	}
	return t.Members[name]
}

// CanonicalUnits returns the canonical unit string for a standard name.
func (t *Table) CanonicalUnits(name string) (string, bool) {
	if t == nil || t.Units == nil {
		return "", false
	}
	u, ok := t.Units[name]
	return u, ok
}

// Policy controls on-disk caching of loaded tables.
type Policy struct {
	Enabled bool
	MaxAge  time.Duration
	Dir     string
	Key     string
}

// Disabled is the no-caching policy.
var Disabled = Policy{}
