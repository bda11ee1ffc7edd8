package grammar

import "fmt"

// GridMapping is the parsed form of a grid_mapping attribute: parallel
// lists of mapping-variable names and the coordinate-variable names
// attached to them.
type GridMapping struct {
	Names  []string
	Coords []string
}

// ParseGridMapping parses a grid_mapping attribute value. With extended
// false only the single-identifier form is accepted; with extended true
// the value may also be one or more repetitions of
//
//	mapping_name: coord [coord ...]
func ParseGridMapping(input string, extended bool) (*GridMapping, error) {
	s := &scanner{input: input}
	s.skipSpace()
	first := s.word()
	if first == "" || !IsName(first) {
		return nil, fmt.Errorf("invalid grid_mapping syntax")
	}

	if !s.colon() {
		// Sole mapping-variable name; nothing may follow.
		s.skipSpace()
		if !s.eof() {
			return nil, fmt.Errorf("invalid grid_mapping syntax")
		}
		return &GridMapping{Names: []string{first}}, nil
	}

	if !extended {
		return nil, fmt.Errorf("grid_mapping with coordinate lists requires the extended syntax")
	}

	gm := &GridMapping{Names: []string{first}}
	ncoords := 0
	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		w := s.word()
		if w == "" || !IsName(w) {
			return nil, fmt.Errorf("invalid grid_mapping syntax")
		}
		if s.colon() {
			// Start of the next mapping; the previous one must have
			// had at least one coordinate.
			if ncoords == 0 {
				return nil, fmt.Errorf("grid_mapping %s lists no coordinates", gm.Names[len(gm.Names)-1])
			}
			gm.Names = append(gm.Names, w)
			ncoords = 0
			continue
		}
		gm.Coords = append(gm.Coords, w)
		ncoords++
	}
	if ncoords == 0 {
		return nil, fmt.Errorf("grid_mapping %s lists no coordinates", gm.Names[len(gm.Names)-1])
	}
	return gm, nil
}
