package grammar

import "fmt"

// CellMeasure is one "measure: var" pair of a cell_measures attribute.
type CellMeasure struct {
	Measure string
	Var     string
}

// ParseCellMeasures parses a cell_measures attribute of the form
// "measure: var [measure: var ...]".
func ParseCellMeasures(input string) ([]CellMeasure, error) {
	s := &scanner{input: input}
	var out []CellMeasure
	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		measure := s.word()
		if measure == "" || !IsName(measure) || !s.colon() {
			return nil, fmt.Errorf("invalid cell_measures syntax")
		}
		s.skipSpace()
		v := s.word()
		if v == "" || !IsName(v) {
			return nil, fmt.Errorf("invalid cell_measures syntax")
		}
		out = append(out, CellMeasure{Measure: measure, Var: v})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty cell_measures attribute")
	}
	return out, nil
}
