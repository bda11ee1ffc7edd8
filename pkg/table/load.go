package table

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Loader fetches and parses vocabulary tables. The zero value is not
// usable; construct with NewLoader. Fetch and Now may be replaced in
// tests.
type Loader struct {
	Fetch func(locator string) (io.ReadCloser, error)
	Now   func() time.Time
}

// NewLoader returns a Loader that fetches http(s) URLs over the network
// and anything else from the local filesystem.
func NewLoader() *Loader {
	return &Loader{
		Fetch: fetchLocator,
		Now:   time.Now,
	}
}

func fetchLocator(locator string) (io.ReadCloser, error) {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		resp, err := http.Get(locator)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("table: fetching %s: %s", locator, resp.Status)
		}
		return resp.Body, nil
	}
	return os.Open(locator)
}

// Load loads the table of the given kind from locator, honoring the
// cache policy. When the policy is enabled and a cache entry younger
// than MaxAge exists, the stored table is returned verbatim and the
// locator is not touched.
func (l *Loader) Load(kind Kind, locator string, policy Policy) (*Table, error) {
	if policy.Enabled {
		if t, ok := l.fromCache(kind, policy); ok {
			return t, nil
		}
	}

	r, err := l.Fetch(locator)
	if err != nil {
		return nil, fmt.Errorf("table: loading %s from %s: %w", kind, locator, err)
	}
	defer r.Close()

	var t *Table
	if kind == StandardNames {
		t, err = parseStandardNames(r)
	} else {
		t, err = parseList(r)
	}
	if err != nil {
		return nil, fmt.Errorf("table: parsing %s from %s: %w", kind, locator, err)
	}
	t.Kind = kind

	if policy.Enabled {
		if err := l.writeCache(t, policy); err != nil {
			return nil, fmt.Errorf("table: caching %s: %w", kind, err)
		}
	}
	return t, nil
}

// parseStandardNames walks the standard-name table XML. Entries carry
// an id attribute and a canonical_units child; aliases carry an id and
// an entry_id child naming the entry whose units they share. Aliases
// are resolved after the whole document has been read, so resolution
// does not depend on document order. An alias whose target is missing
// is recorded as a Problem and omitted from the table.
func parseStandardNames(r io.Reader) (*Table, error) {
	t := &Table{Units: make(map[string]string)}
	aliases := make(map[string]string) // alias id -> target entry id
	var aliasOrder []string

	dec := xml.NewDecoder(r)
	var currentID string
	var inAlias bool
	var text strings.Builder
	var capture bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "entry":
				currentID = attrValue(el, "id")
				inAlias = false
			case "alias":
				currentID = attrValue(el, "id")
				inAlias = true
			case "canonical_units", "entry_id", "version_number", "last_modified":
				capture = true
				text.Reset()
			}
		case xml.CharData:
			if capture {
				text.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "canonical_units":
				if !inAlias && currentID != "" {
					t.Units[currentID] = normalize(text.String())
				}
			case "entry_id":
				if inAlias && currentID != "" {
					if _, seen := aliases[currentID]; !seen {
						aliasOrder = append(aliasOrder, currentID)
					}
					aliases[currentID] = normalize(text.String())
				}
			case "version_number":
				t.Version = normalize(text.String())
			case "last_modified":
				t.LastModified = normalize(text.String())
			}
			capture = false
		}
	}

	for _, alias := range aliasOrder {
		target := aliases[alias]
		units, ok := t.Units[target]
		if !ok {
			t.Problems = append(t.Problems, Problem{
				Message: fmt.Sprintf("alias %s refers to undefined entry %s", alias, target),
			})
			continue
		}
		t.Units[alias] = units
	}
	return t, nil
}

// parseList walks a membership-set table (area types or region names):
// entry elements carry the permitted token as their id attribute, and
// version_number/date elements carry the table metadata.
func parseList(r io.Reader) (*Table, error) {
	t := &Table{Members: make(map[string]bool)}

	dec := xml.NewDecoder(r)
	var text strings.Builder
	var capture bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "entry":
				if id := attrValue(el, "id"); id != "" {
					t.Members[id] = true
				}
			case "version_number", "date", "last_modified":
				capture = true
				text.Reset()
			}
		case xml.CharData:
			if capture {
				text.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "version_number":
				t.Version = normalize(text.String())
			case "date", "last_modified":
				t.LastModified = normalize(text.String())
			}
			capture = false
		}
	}
	return t, nil
}

// attrValue returns the named attribute of an element, normalized.
func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return normalize(a.Value)
		}
	}
	return ""
}

// normalize collapses redundant whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
