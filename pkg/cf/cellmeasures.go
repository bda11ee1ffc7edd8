package cf

import (
	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/grammar"
	"github.com/leapstack-labs/cfcheck/pkg/report"
	"github.com/leapstack-labs/cfcheck/pkg/units"
)

var (
	squareMetres = units.MustParse("m2")
	cubicMetres  = units.MustParse("m3")
)

// checkCellMeasures validates a cell_measures attribute: the
// measure/variable pair syntax, the {area, volume} measure vocabulary,
// the referenced variable's existence (version-gated severity), its
// dimension subset rule and its units.
func (c *Checker) checkCellMeasures(f dataset.File, v Version, vr *dataset.Variable, rep *report.Collector) {
	raw, ok := vr.Attrs.Str("cell_measures")
	if !ok {
		return
	}
	pairs, err := grammar.ParseCellMeasures(raw)
	if err != nil {
		rep.Error(vr.Name, "7.2", "Invalid cell_measures syntax")
		return
	}

	for _, p := range pairs {
		mv, exists := f.Variable(p.Var)
		if !exists {
			// From CF-1.7 the variable may live outside the file if
			// declared by external_variables; before that, absence is
			// only a warning since the variable may be supplied later.
			if v.AtLeast(V1_7) {
				if !c.isExternalVariable(f, p.Var) {
					rep.Error(vr.Name, "7.2", "cell_measures variable %s must either exist in this file or be named by the external_variables attribute", p.Var)
				}
			} else {
				rep.Warn(vr.Name, "7.2", "cell_measures refers to variable %s that doesn't exist in this file. This is strictly an error if the variable is not included in the dataset.", p.Var)
			}
			continue
		}

		subset := mv.Rank() <= vr.Rank()
		if subset {
			for _, d := range mv.Dims {
				if !vr.HasDim(d) {
					subset = false
					break
				}
			}
		}
		if !subset {
			rep.Error(vr.Name, "7.2", "Dimensions of %s must be the same or a subset of %v", p.Var, vr.Dims)
		}

		if p.Measure != "area" && p.Measure != "volume" {
			rep.Error(vr.Name, "7.2", "Invalid measure in attribute cell_measures: %s", p.Measure)
			continue
		}
		want := squareMetres
		wantDesc := "square metres"
		if p.Measure == "volume" {
			want = cubicMetres
			wantDesc = "cubic metres"
		}
		us, hasUnits := mv.Attrs.Str("units")
		if !hasUnits {
			rep.Error(vr.Name, "7.2", "Variable %s referenced by cell_measures has no units", p.Var)
			continue
		}
		u, err := units.Parse(us)
		if err != nil || !units.Equivalent(u, want) {
			rep.Error(vr.Name, "7.2", "Units of %s must be equivalent to %s for %s measure", p.Var, wantDesc, p.Measure)
		}
	}
}

// isExternalVariable reports whether name is listed in the file's
// external_variables attribute.
func (c *Checker) isExternalVariable(f dataset.File, name string) bool {
	ext, ok := f.Attributes().Str("external_variables")
	if !ok {
		return false
	}
	return containsName(grammar.SplitNames(ext), name)
}

// checkCompress validates a compress attribute: the declaring variable
// must be integer typed, every listed dimension must exist, and every
// stored index must fall inside the index space spanned by the listed
// dimensions.
func (c *Checker) checkCompress(f dataset.File, vr *dataset.Variable, rep *report.Collector) {
	raw, ok := vr.Attrs.Str("compress")
	if !ok {
		return
	}
	if vr.Type != dataset.TypeInt && vr.Type != dataset.TypeShort {
		rep.Error(vr.Name, "8.2", "compress attribute can only be attached to variable of integer type")
		return
	}
	if !grammar.IsNameList(raw) {
		rep.Error(vr.Name, "8.2", "Invalid syntax for 'compress' attribute")
		return
	}

	product := 1
	valid := true
	for _, d := range grammar.SplitNames(raw) {
		size, exists := f.DimensionSize(d)
		if !exists {
			rep.Error(vr.Name, "8.2", "compress attribute naming non-existent dimension: %s", d)
			valid = false
			continue
		}
		product *= size
	}
	if !valid {
		return
	}

	values, err := f.ReadNumeric(vr.Name)
	if err != nil {
		// Values unavailable; the index range cannot be checked.
		return
	}
	for _, val := range values {
		if val < 0 || val > float64(product-1) {
			rep.Error(vr.Name, "8.2", "values of %s must be in the range 0 to %d", vr.Name, product-1)
			break
		}
	}
}
