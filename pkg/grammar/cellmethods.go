package grammar

import (
	"fmt"
	"strings"
)

// CellMethodsClause is one parsed clause of a cell_methods attribute:
//
//	dim1: [dim2: ...] method [where type1 [over type2]]
//	     [within|over days|years] [(comment)]
type CellMethodsClause struct {
	Dims    []string // the dimension-name tokens, in order
	Method  string   // the method keyword, unvalidated
	Type1   string   // "where" operand, empty if absent
	Type2   string   // "over" operand following where, empty if absent
	Scope   string   // "within days", "over years" etc., empty if absent
	Comment string   // parenthesised comment without the parentheses
}

// Interval is one "interval: <value> <unit>" clause of a cell_methods
// comment.
type Interval struct {
	Value string
	Unit  string
}

// ParseCellMethods validates the whole attribute string against the
// repeated-clause grammar and returns the individual clauses. A
// structural failure yields an error for the whole attribute; clause
// content (method keywords, type operands) is left to the caller.
func ParseCellMethods(input string) ([]CellMethodsClause, error) {
	s := &scanner{input: input}
	var clauses []CellMethodsClause

	s.skipSpace()
	if s.eof() {
		return nil, fmt.Errorf("empty cell_methods attribute")
	}
	for !s.eof() {
		cl, err := parseCellMethodsClause(s)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, cl)
		s.skipSpace()
	}
	return clauses, nil
}

func parseCellMethodsClause(s *scanner) (CellMethodsClause, error) {
	var cl CellMethodsClause

	// One or more "name:" tokens followed by the method word. The
	// method itself is the first word not followed by a colon.
	for {
		s.skipSpace()
		w := s.word()
		if w == "" {
			return cl, fmt.Errorf("expected name at offset %d", s.pos)
		}
		if s.colon() {
			cl.Dims = append(cl.Dims, w)
			continue
		}
		cl.Method = w
		break
	}
	if len(cl.Dims) == 0 {
		return cl, fmt.Errorf("method %q has no dimension list", cl.Method)
	}
	if cl.Method == "" {
		return cl, fmt.Errorf("missing method after dimension list")
	}

	// Optional "where type1 [over type2]".
	save := s.pos
	s.skipSpace()
	if w := s.word(); w == "where" {
		s.skipSpace()
		cl.Type1 = s.word()
		if cl.Type1 == "" {
			return cl, fmt.Errorf("missing type after 'where'")
		}
		save = s.pos
		s.skipSpace()
		if w := s.word(); w == "over" {
			s.skipSpace()
			cl.Type2 = s.word()
			if cl.Type2 == "" {
				return cl, fmt.Errorf("missing type after 'over'")
			}
		} else {
			s.pos = save
		}
	} else {
		s.pos = save
	}

	// Optional "within|over days|years".
	save = s.pos
	s.skipSpace()
	if w := s.word(); w == "within" || w == "over" {
		s.skipSpace()
		scope := s.word()
		if scope != "days" && scope != "years" {
			// "over" may instead start the next clause's dimension
			// list, so only reject for "within".
			if w == "within" {
				return cl, fmt.Errorf("expected days or years after 'within'")
			}
			s.pos = save
		} else {
			cl.Scope = w + " " + scope
		}
	} else {
		s.pos = save
	}

	// Optional parenthesised comment, no nesting.
	s.skipSpace()
	if s.peek() == '(' {
		s.pos++
		start := s.pos
		for !s.eof() && s.input[s.pos] != ')' {
			s.pos++
		}
		if s.eof() {
			return cl, fmt.Errorf("unterminated comment")
		}
		cl.Comment = strings.TrimSpace(s.input[start:s.pos])
		s.pos++ // consume ')'
	}
	return cl, nil
}

// ParseIntervals extracts the "interval: <value> <unit>" clauses from a
// cell_methods comment. Text outside interval clauses is ignored, as
// the grammar allows free-form remainder after "comment:".
func ParseIntervals(comment string) []Interval {
	var out []Interval
	s := &scanner{input: comment}
	for !s.eof() {
		s.skipSpace()
		w := s.word()
		if w == "" {
			s.pos++
			continue
		}
		if w != "interval" || !s.colon() {
			continue
		}
		s.skipSpace()
		val := s.word()
		s.skipSpace()
		un := s.word()
		if val == "" || un == "" {
			continue
		}
		out = append(out, Interval{Value: val, Unit: un})
	}
	return out
}
