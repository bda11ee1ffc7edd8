package cf

import (
	"strings"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/grammar"
	"github.com/leapstack-labs/cfcheck/pkg/report"
	"github.com/leapstack-labs/cfcheck/pkg/units"
)

// attrSpec is one row of the attribute legality table: the required
// value type and the kinds of variable the attribute belongs on.
type attrSpec struct {
	// typ is 'S' for string, 'N' for numeric, 'D' for the type of the
	// variable the attribute is attached to.
	typ byte
	// use holds one letter per legal placement: 'G' global, 'C'
	// coordinate variable, 'D' data variable, 'M' geometry container.
	// "-" marks an attribute with no general variable placement.
	use string
}

// attributeTable builds the legality table for one conventions version.
// The table is immutable; later versions extend or override rows but
// never remove them.
func attributeTable(v Version) map[string]attrSpec {
	t := map[string]attrSpec{
		"add_offset":                {'N', "D"},
		"ancillary_variables":       {'S', "D"},
		"axis":                      {'S', "C"},
		"bounds":                    {'S', "C"},
		"calendar":                  {'S', "C"},
		"cell_measures":             {'S', "D"},
		"cell_methods":              {'S', "D"},
		"climatology":               {'S', "C"},
		"comment":                   {'S', "GD"},
		"compress":                  {'S', "C"},
		"Conventions":               {'S', "G"},
		"coordinates":               {'S', "D"},
		"_FillValue":                {'D', "D"},
		"flag_meanings":             {'S', "D"},
		"flag_values":               {'D', "D"},
		"formula_terms":             {'S', "C"},
		"grid_mapping":              {'S', "D"},
		"history":                   {'S', "G"},
		"institution":               {'S', "GD"},
		"leap_month":                {'N', "C"},
		"leap_year":                 {'N', "C"},
		"long_name":                 {'S', "CD"},
		"missing_value":             {'D', "D"},
		"month_lengths":             {'N', "C"},
		"positive":                  {'S', "C"},
		"references":                {'S', "GD"},
		"scale_factor":              {'N', "D"},
		"source":                    {'S', "GD"},
		"standard_error_multiplier": {'N', "D"},
		"standard_name":             {'S', "CD"},
		"title":                     {'S', "G"},
		"units":                     {'S', "CD"},
		"valid_max":                 {'N', "CD"},
		"valid_min":                 {'N', "CD"},
		"valid_range":               {'N', "CD"},
	}
	if v.AtLeast(V1_3) {
		t["flag_masks"] = attrSpec{'D', "D"}
	}
	if v.AtLeast(V1_6) {
		t["cf_role"] = attrSpec{'S', "C"}
		t["_FillValue"] = attrSpec{'D', "CD"}
		t["featureType"] = attrSpec{'S', "G"}
		t["instance_dimension"] = attrSpec{'S', "D"}
		t["missing_value"] = attrSpec{'D', "CD"}
		t["sample_dimension"] = attrSpec{'S', "D"}
	}
	if v.AtLeast(V1_7) {
		t["actual_range"] = attrSpec{'N', "CD"}
		t["add_offset"] = attrSpec{'N', "CD"}
		t["comment"] = attrSpec{'S', "GCD"}
		t["computed_standard_name"] = attrSpec{'S', "C"}
		t["external_variables"] = attrSpec{'S', "G"}
		t["instance_dimension"] = attrSpec{'S', "-"}
		t["sample_dimension"] = attrSpec{'S', "-"}
		t["scale_factor"] = attrSpec{'N', "CD"}
	}
	if v.AtLeast(V1_8) {
		t["coordinates"] = attrSpec{'S', "DM"}
		t["geometry"] = attrSpec{'S', "CD"}
		t["geometry_type"] = attrSpec{'S', "M"}
		t["grid_mapping"] = attrSpec{'S', "DM"}
		t["interior_ring"] = attrSpec{'S', "M"}
		t["node_coordinates"] = attrSpec{'S', "M"}
		t["node_count"] = attrSpec{'S', "M"}
		t["nodes"] = attrSpec{'S', "C"}
		t["part_node_count"] = attrSpec{'S', "M"}
	}
	return t
}

// reservedAttrs are container-level names exempt from the identifier
// syntax rule.
var reservedAttrs = map[string]bool{
	"_FillValue": true,
	"_Encoding":  true,
	"_Unsigned":  true,
}

// timeOnlyAttrs may only appear on time coordinate variables.
var timeOnlyAttrs = map[string]bool{
	"calendar":      true,
	"month_lengths": true,
	"leap_year":     true,
	"leap_month":    true,
	"climatology":   true,
}

// checkVariableAttributes validates every attribute of one variable
// against the legality table: name syntax, value type and the kind of
// variable the attribute is attached to.
func (c *Checker) checkVariableAttributes(vr *dataset.Variable, cls *Classification, table map[string]attrSpec, rep *report.Collector) {
	isCoord := cls.Is(vr.Name, RoleCoordinate) || cls.Is(vr.Name, RoleAuxCoordinate)
	isContainer := cls.Is(vr.Name, RoleGeometryContainer)

	for _, name := range vr.Attrs.Names() {
		if !grammar.IsName(name) && !reservedAttrs[name] {
			rep.Error(vr.Name, "2.3", "Invalid attribute name: %s", name)
			continue
		}
		spec, standard := table[name]
		if !standard {
			continue
		}
		a, _ := vr.Attrs.Get(name)

		switch spec.typ {
		case 'S':
			if !a.IsString() {
				rep.Error(vr.Name, "2.2", "Attribute %s of incorrect type (expecting String type)", name)
			}
		case 'N':
			if _, ok := a.Numbers(); !ok {
				rep.Error(vr.Name, "2.2", "Attribute %s of incorrect type (expecting Numeric type)", name)
			}
		case 'D':
			// The attribute must share the variable's type. Numeric
			// attribute values are widened on read, so only the
			// string/numeric distinction is checkable here.
			if a.IsString() != (vr.Type == dataset.TypeChar) {
				rep.Error(vr.Name, "2.2", "Attribute %s must be of the same type as variable %s", name, vr.Name)
			}
		}

		placed := false
		for _, use := range spec.use {
			switch use {
			case 'C':
				placed = placed || isCoord
			case 'D':
				placed = placed || !isCoord
			case 'M':
				placed = placed || isContainer
			}
		}
		if !placed {
			rep.Info(vr.Name, "", "attribute %s is being used in a non-standard way", name)
		}

		if timeOnlyAttrs[name] && !hasReftimeUnits(vr) {
			rep.Error(vr.Name, "4.4.1", "Attribute %s may only be attached to time coordinate variable", name)
		}
	}
}

func hasReftimeUnits(vr *dataset.Variable) bool {
	us, ok := vr.Attrs.Str("units")
	if !ok {
		return false
	}
	u, err := units.Parse(us)
	return err == nil && u.IsReftime()
}

// featureTypes are the discrete sampling geometry types a featureType
// global attribute may name; matching is case insensitive.
var featureTypes = map[string]bool{
	"point":             true,
	"timeseries":        true,
	"trajectory":        true,
	"profile":           true,
	"timeseriesprofile": true,
	"trajectoryprofile": true,
}

// checkGlobalAttributes validates the global attribute block: the
// descriptive attributes must be strings, a variable-level standard
// attribute appearing globally is flagged, and the featureType and
// external_variables values are verified.
func (c *Checker) checkGlobalAttributes(f dataset.File, v Version, table map[string]attrSpec, rep *report.Collector) {
	for _, name := range f.Attributes().Names() {
		if !grammar.IsName(name) && !reservedAttrs[name] {
			rep.Error("", "2.3", "Invalid global attribute name: %s", name)
			continue
		}
		spec, standard := table[name]
		if !standard {
			continue
		}
		globalOK := false
		for _, use := range spec.use {
			if use == 'G' {
				globalOK = true
			}
		}
		if !globalOK {
			rep.Info("", "2.6.2", "Attribute %s is being used in a non-standard way; as a global attribute", name)
			continue
		}
		if a, _ := f.Attributes().Get(name); spec.typ == 'S' && !a.IsString() {
			rep.Error("", "2.6.2", "Global attribute %s must be a string", name)
		}
	}

	if v.AtLeast(V1_6) {
		if ft, ok := f.Attributes().Str("featureType"); ok && !featureTypes[strings.ToLower(ft)] {
			rep.Error("", "9.4", "Global attribute featureType contains invalid value: %s", ft)
		}
	}
	if v.AtLeast(V1_7) {
		if ext, ok := f.Attributes().Str("external_variables"); ok {
			if !grammar.IsNameList(ext) {
				rep.Error("", "2.6.3", "external_variables attribute must be a blank separated list of variable names")
			} else {
				for _, name := range grammar.SplitNames(ext) {
					if _, exists := f.Variable(name); exists {
						rep.Error("", "2.6.3", "Variable %s named as an external variable must not be present in this file", name)
					}
				}
			}
		}
	}
}

// axisLetters are the legal values of the axis attribute; matching is
// case insensitive.
var axisLetters = map[string]bool{
	"X": true,
	"Y": true,
	"Z": true,
	"T": true,
}

// checkAxis validates the axis attribute: the letter itself, its
// placement and its consistency with the coordinate type implied by
// the units and positive attributes.
func (c *Checker) checkAxis(v Version, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	val, ok := vr.Attrs.Str("axis")
	if !ok {
		return
	}
	ax := strings.ToUpper(val)
	if !axisLetters[ax] {
		rep.Error(vr.Name, "4", "Invalid value for axis attribute: %s", val)
		return
	}
	// Auxiliary coordinate variables may only carry axis from CF-1.6.
	if v.AtLeast(V1_1) && v.Before(V1_6) &&
		cls.Is(vr.Name, RoleAuxCoordinate) && !cls.Is(vr.Name, RoleCoordinate) {
		rep.Error(vr.Name, "4", "Axis attribute is not allowed for auxiliary coordinate variables")
		return
	}
	if interp := axisInterpretation(vr); interp != "" && interp != ax {
		rep.Error(vr.Name, "4", "axis attribute inconsistent with coordinate type as deduced from units and/or positive")
	}
}

// axisInterpretation deduces the coordinate type letter from the units
// and positive attributes, or "" when no deduction is possible.
func axisInterpretation(vr *dataset.Variable) string {
	us, ok := vr.Attrs.Str("units")
	if !ok {
		return ""
	}
	if deprecatedUnits[us] {
		// Dimensionless vertical coordinate.
		return "Z"
	}
	u, err := units.Parse(us)
	if err != nil {
		return ""
	}
	switch {
	case u.IsLongitude():
		return "X"
	case u.IsLatitude():
		return "Y"
	case u.IsPressure():
		return "Z"
	}
	if pos, ok := vr.Attrs.Str("positive"); ok {
		switch strings.ToLower(pos) {
		case "up", "down":
			return "Z"
		}
	}
	if u.IsTime() || u.IsReftime() {
		return "T"
	}
	return ""
}

// cfRoles are the legal values of the cf_role attribute.
var cfRoles = map[string]bool{
	"timeseries_id": true,
	"profile_id":    true,
	"trajectory_id": true,
}

// checkCFRole validates the cf_role attribute introduced with the
// discrete sampling geometries.
func (c *Checker) checkCFRole(vr *dataset.Variable, rep *report.Collector) {
	val, ok := vr.Attrs.Str("cf_role")
	if !ok {
		return
	}
	if !cfRoles[val] {
		rep.Error(vr.Name, "9.5", "Invalid value for cf_role attribute: %s", val)
	}
}
