package cf

import (
	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/grammar"
	"github.com/leapstack-labs/cfcheck/pkg/report"
	"github.com/leapstack-labs/cfcheck/pkg/units"
)

// cellMethodNames are the legal method keywords of a cell_methods
// clause.
var cellMethodNames = map[string]bool{
	"point":              true,
	"sum":                true,
	"maximum":            true,
	"median":             true,
	"mid_range":          true,
	"minimum":            true,
	"mean":               true,
	"mode":               true,
	"standard_deviation": true,
	"variance":           true,
}

// checkCellMethods validates a cell_methods attribute. A structural
// failure is one error for the whole attribute; clause content errors
// are isolated per clause.
func (c *Checker) checkCellMethods(f dataset.File, v Version, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	raw, ok := vr.Attrs.Str("cell_methods")
	if !ok {
		return
	}
	clauses, err := grammar.ParseCellMethods(raw)
	if err != nil {
		rep.Error(vr.Name, "7.3", "Invalid syntax for cell_methods attribute")
		return
	}

	seenDims := make(map[string]bool)
	for _, cl := range clauses {
		if !cellMethodNames[cl.Method] {
			rep.Error(vr.Name, "7.3", "Invalid cell_method: %s", cl.Method)
		}

		if v.AtLeast(V1_4) {
			if cl.Type1 != "" && !c.isValidCellMethodType(f, cls, "type1", cl.Type1, vr.Name, rep) {
				rep.Error(vr.Name, "7.3", "Invalid type1: %s - must be a variable name or valid area_type", cl.Type1)
			}
			if cl.Type2 != "" && !c.isValidCellMethodType(f, cls, "type2", cl.Type2, vr.Name, rep) {
				rep.Error(vr.Name, "7.3", "Invalid type2: %s - must be a variable name or valid area_type", cl.Type2)
			}
		}

		for _, d := range cl.Dims {
			if !vr.HasDim(d) && !c.tables.StandardNames.Has(d) {
				// The literal token "area" is allowed from CF-1.4.
				if !(d == "area" && v.AtLeast(V1_4)) {
					rep.Error(vr.Name, "7.3", "Invalid 'name' in cell_methods attribute: %s", d)
				}
				continue
			}
			if d != "time" && seenDims[d] {
				rep.Error(vr.Name, "7.3", "Multiple cell_methods entries for dimension: %s", d)
			} else {
				seenDims[d] = true
			}
			if v.AtLeast(V1_4) && cls.Is(d, RoleCoordinate) && cl.Method != "point" {
				if dv, exists := f.Variable(d); exists && !dv.Attrs.Has("bounds") && !dv.Attrs.Has("climatology") {
					rep.Warn(vr.Name, "7.3", "Coordinate variable %s should have bounds or climatology attribute", d)
				}
			}
		}

		if cl.Comment != "" {
			intervals := grammar.ParseIntervals(cl.Comment)
			for _, iv := range intervals {
				if _, err := units.Parse(iv.Unit); err != nil {
					rep.Error(vr.Name, "7.3", "Invalid unit %s in cell_methods comment", iv.Unit)
				}
			}
			// Zero or one interval clauses apply to all dimensions;
			// otherwise there must be exactly one per dimension token.
			if len(intervals) > 1 && len(intervals) != len(cl.Dims) {
				rep.Error(vr.Name, "7.3", "Incorrect number of interval clauses in cell_methods attribute")
			}
		}
	}
}

// isValidCellMethodType reports whether a where/over operand names
// either a character-typed auxiliary coordinate with standard_name
// area_type, or a member of the area-type table.
func (c *Checker) isValidCellMethodType(f dataset.File, cls *Classification, kind, value, varName string, rep *report.Collector) bool {
	av, exists := f.Variable(value)
	if exists && cls.Is(value, RoleAuxCoordinate) {
		ok := true
		if av.Type != dataset.TypeChar {
			ok = false
		} else if kind == "type2" && av.Rank() > 0 {
			if size, has := f.DimensionSize(av.Dims[0]); has && size > 1 {
				rep.Error(varName, "7.3", "%s is not allowed a leading dimension of more than one", value)
			}
		}
		if sn, has := av.Attrs.Str("standard_name"); has && sn != "area_type" {
			ok = false
		}
		return ok
	}
	return c.tables.AreaTypes.Has(value)
}
