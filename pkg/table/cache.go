package table

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// cacheEntry is the on-disk form of a cached table. The fetch
// timestamp is recorded when the entry is written; staleness is judged
// against it on the next load.
type cacheEntry struct {
	FetchedAt    int64             `json:"fetched_at"` // unix seconds
	Version      string            `json:"version"`
	LastModified string            `json:"last_modified"`
	Units        map[string]string `json:"units,omitempty"`
	Members      []string          `json:"members,omitempty"`
}

// cachePath returns the file the policy's entry lives at.
func cachePath(policy Policy) string {
	return filepath.Join(policy.Dir, policy.Key+".json")
}

// fromCache returns the cached table if an entry exists and is younger
// than the policy's MaxAge. A MaxAge of zero never hits.
func (l *Loader) fromCache(kind Kind, policy Policy) (*Table, bool) {
	if policy.MaxAge <= 0 {
		return nil, false
	}
	raw, err := os.ReadFile(cachePath(policy))
	if err != nil {
		return nil, false
	}
	var e cacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	age := l.Now().Unix() - e.FetchedAt
	if age < 0 || float64(age) >= policy.MaxAge.Seconds() {
		return nil, false
	}

	t := &Table{
		Kind:         kind,
		Version:      e.Version,
		LastModified: e.LastModified,
		FromCache:    true,
	}
	if kind == StandardNames {
		t.Units = e.Units
		if t.Units == nil {
			t.Units = make(map[string]string)
		}
	} else {
		t.Members = make(map[string]bool, len(e.Members))
		for _, m := range e.Members {
			t.Members[m] = true
		}
	}
	return t, true
}

// writeCache (over)writes the policy's cache entry with the freshly
// loaded table and the current timestamp.
func (l *Loader) writeCache(t *Table, policy Policy) error {
	e := cacheEntry{
		FetchedAt:    l.Now().Unix(),
		Version:      t.Version,
		LastModified: t.LastModified,
		Units:        t.Units,
	}
	if t.Members != nil {
		e.Members = make([]string, 0, len(t.Members))
		for m := range t.Members {
			e.Members = append(e.Members, m)
		}
	}
	raw, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(policy.Dir, 0750); err != nil {
		return err
	}
	return os.WriteFile(cachePath(policy), raw, 0640)
}
