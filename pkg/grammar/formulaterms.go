package grammar

import "fmt"

// FormulaTerm is one "term: var" pair of a formula_terms attribute.
type FormulaTerm struct {
	Term string
	Var  string
}

// ParseFormulaTerms parses a formula_terms attribute of the form
// "term: var [term: var ...]".
func ParseFormulaTerms(input string) ([]FormulaTerm, error) {
	s := &scanner{input: input}
	var out []FormulaTerm
	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		term := s.word()
		if term == "" || !IsName(term) || !s.colon() {
			return nil, fmt.Errorf("invalid formula_terms syntax")
		}
		s.skipSpace()
		v := s.word()
		if v == "" || !IsName(v) {
			return nil, fmt.Errorf("invalid formula_terms syntax")
		}
		out = append(out, FormulaTerm{Term: term, Var: v})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty formula_terms attribute")
	}
	return out, nil
}
