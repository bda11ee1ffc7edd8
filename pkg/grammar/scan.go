// Package grammar parses the small attribute mini-languages the
// convention embeds in string attribute values: cell_methods,
// grid_mapping, formula_terms, cell_measures and blank-separated
// identifier lists. Each parser returns a structured result or a
// syntax error; results are not retained between checks.
package grammar

import "strings"

// isNameByte reports whether c can appear in an identifier.
func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_'
}

// IsName reports whether s is a single identifier (possibly empty,
// matching the permissive single-reference attribute syntax).
func IsName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

// IsNameList reports whether s contains only identifier characters and
// blanks, the syntax required of list-valued reference attributes.
func IsNameList(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) && s[i] != ' ' {
			return false
		}
	}
	return true
}

// IsExtendedList reports whether s is a blank-separated list of words
// drawn from the extended character set: identifier characters plus
// period, plus, hyphen and '@'. flag_meanings phrases use this syntax.
func IsExtendedList(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isNameByte(c) && c != ' ' && c != '.' && c != '+' && c != '-' && c != '@' {
			return false
		}
	}
	return true
}

// SplitNames splits a blank-separated identifier list into its tokens.
// Callers should validate with IsNameList first.
func SplitNames(s string) []string {
	return strings.Fields(s)
}

// scanner is a shared cursor over an attribute value.
type scanner struct {
	input string
	pos   int
}

// eof reports whether the scanner is exhausted.
func (s *scanner) eof() bool { return s.pos >= len(s.input) }

// peek returns the current byte, or 0 at end of input.
func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.input[s.pos]
}

// skipSpace advances past blanks and tabs.
func (s *scanner) skipSpace() {
	for !s.eof() && (s.input[s.pos] == ' ' || s.input[s.pos] == '\t') {
		s.pos++
	}
}

// word reads a run of non-blank bytes, stopping before ':', '(' and
// ')' so those can delimit tokens without surrounding blanks.
func (s *scanner) word() string {
	start := s.pos
	for !s.eof() {
		c := s.input[s.pos]
		if c == ' ' || c == '\t' || c == ':' || c == '(' || c == ')' {
			break
		}
		s.pos++
	}
	return s.input[start:s.pos]
}

// colon consumes a ':' if present, with optional leading blanks.
func (s *scanner) colon() bool {
	save := s.pos
	s.skipSpace()
	if !s.eof() && s.input[s.pos] == ':' {
		s.pos++
		return true
	}
	s.pos = save
	return false
}
