package cf

import (
	"reflect"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/grammar"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

// Classify computes the role assignment for every variable of the file
// by walking the attribute cross-reference graph once, in declaration
// order. It emits diagnostics for dangling references and malformed
// reference attributes but has no other side effects, so classifying
// the same file twice yields the same result.
func Classify(f dataset.File, v Version, rep *report.Collector) *Classification {
	cls := newClassification()

	// Discrete-sampling-geometry files legitimately break the naive
	// dimension-subset rules for auxiliary coordinates.
	dsg := v.AtLeast(V1_6) && f.Attributes().Has("featureType")

	for _, vr := range f.Variables() {
		if vr.IsCoordinate() {
			cls.add(vr.Name, RoleCoordinate)
		}
	}

	auxSeen := make(map[string]bool)
	for _, vr := range f.Variables() {
		classifyBoundsAttr(f, v, vr, "bounds", cls, rep)
		classifyBoundsAttr(f, v, vr, "climatology", cls, rep)
		classifyCoordinatesAttr(f, v, vr, cls, auxSeen, dsg, rep)
		classifyGridMappingAttr(f, v, vr, cls, rep)
		if v.AtLeast(V1_8) {
			classifyGeometryAttr(f, vr, cls, rep)
			classifyNodeCoordinatesAttr(f, vr, cls, rep)
		}
	}
	return cls
}

// classifyBoundsAttr handles both the bounds and the climatology
// attribute; they share the reference syntax and the attribute
// inheritance rules but differ in role and rank constraints.
func classifyBoundsAttr(f dataset.File, v Version, vr *dataset.Variable, attr string, cls *Classification, rep *report.Collector) {
	code := "7.1"
	role := RoleBoundary
	if attr == "climatology" {
		code = "7.4"
		role = RoleClimatology
	}

	a, present := vr.Attrs.Get(attr)
	if !present {
		return
	}
	val, isStr := a.Str()
	if !isStr || !grammar.IsName(val) || val == "" {
		rep.Error(vr.Name, code, "Invalid syntax for '%s' attribute", attr)
		return
	}
	bv, exists := f.Variable(val)
	if !exists {
		rep.Error(vr.Name, code, "%s attribute referencing non-existent variable %s", attr, val)
		return
	}
	cls.add(val, role)

	if !bv.Type.IsNumeric() {
		rep.Error(val, code, "Variable %s referenced by %s must be of a numeric type", val, attr)
	}

	if attr == "bounds" {
		// A scalar coordinate implies the singleton dimension set of
		// its own name.
		expected := vr.Dims
		if len(expected) == 0 {
			if _, isDim := f.DimensionSize(vr.Name); isDim {
				expected = []string{vr.Name}
			}
		}
		if bv.Rank() != len(expected)+1 {
			rep.Error(val, code, "Boundary variable %s has %d dimensions; expected %d", val, bv.Rank(), len(expected)+1)
		} else {
			for _, d := range expected {
				if !bv.HasDim(d) {
					rep.Error(val, code, "Incorrect dimensions for boundary variable %s: missing %s", val, d)
				}
			}
		}
		if bv.Attrs.Has("bounds") {
			rep.Error(val, code, "Boundary variable %s must not have a bounds attribute of its own", val)
		}
	}

	// Attributes a boundary or climatology variable inherits from its
	// declarer. From CF-1.7 carrying them on the referenced variable at
	// all is discouraged; a value disagreeing with the declarer is an
	// error at every version.
	inherited := []string{"units", "standard_name"}
	switch {
	case v.AtLeast(V1_7):
		inherited = append(inherited, "axis", "positive", "calendar", "leap_month", "leap_year", "month_lengths")
	case attr == "climatology":
		inherited = append(inherited, "calendar")
	}
	for _, name := range inherited {
		ba, ok := bv.Attrs.Get(name)
		if !ok {
			continue
		}
		if v.AtLeast(V1_7) {
			rep.Warn(val, code, "Attribute %s on variable %s is inherited from %s and should not be duplicated", name, val, vr.Name)
		}
		if da, ok := vr.Attrs.Get(name); ok && !reflect.DeepEqual(ba.Value, da.Value) {
			rep.Error(val, code, "Attribute %s of variable %s inconsistent with that of %s", name, val, vr.Name)
		}
	}
}

func classifyCoordinatesAttr(f dataset.File, v Version, vr *dataset.Variable, cls *Classification, auxSeen map[string]bool, dsg bool, rep *report.Collector) {
	val, isStr := vr.Attrs.Str("coordinates")
	if !isStr {
		return
	}
	if !grammar.IsNameList(val) {
		rep.Error(vr.Name, "5", "Invalid syntax for 'coordinates' attribute")
		return
	}
	for _, name := range grammar.SplitNames(val) {
		av, exists := f.Variable(name)
		if !exists {
			rep.Error(vr.Name, "5", "coordinates attribute referencing non-existent variable %s", name)
			continue
		}
		if cls.Is(name, RoleCoordinate) || auxSeen[name] {
			continue
		}
		auxSeen[name] = true
		cls.add(name, RoleAuxCoordinate)
		checkAuxCoordinate(v, vr, av, dsg, rep)
	}
}

// checkAuxCoordinate applies the dimensionality rules to a newly
// identified auxiliary coordinate, relative to the variable that first
// declared it.
func checkAuxCoordinate(v Version, vr, av *dataset.Variable, dsg bool, rep *report.Collector) {
	if av.Type == dataset.TypeChar {
		// Label variable. One-dimensional labels arrived with CF-1.4;
		// before that the string-length dimension is mandatory.
		switch {
		case av.Rank() == 2:
		case av.Rank() == 1 && v.AtLeast(V1_4):
			return
		default:
			rep.Error(av.Name, "6.1", "Label variable %s must have 2 dimensions (name and string length)", av.Name)
			return
		}
		if lead := av.Dims[0]; !vr.HasDim(lead) {
			if dsg {
				rep.Info(av.Name, "6.1", "Dimension %s of label variable %s is not a dimension of %s (ragged array representation assumed)", lead, av.Name, vr.Name)
			} else {
				rep.Error(av.Name, "6.1", "Leading dimension %s of label variable %s must be one of the dimensions of %s", lead, av.Name, vr.Name)
			}
		}
		return
	}
	for _, d := range av.Dims {
		if !vr.HasDim(d) {
			if dsg {
				rep.Info(av.Name, "5", "Dimension %s of auxiliary coordinate %s is not a dimension of %s (ragged array representation assumed)", d, av.Name, vr.Name)
			} else {
				rep.Error(av.Name, "5", "Dimension %s of auxiliary coordinate %s must be one of the dimensions of %s", d, av.Name, vr.Name)
			}
		}
	}
}

func classifyGridMappingAttr(f dataset.File, v Version, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	val, isStr := vr.Attrs.Str("grid_mapping")
	if !isStr {
		return
	}
	gm, err := grammar.ParseGridMapping(val, v.AtLeast(V1_7))
	if err != nil {
		rep.Error(vr.Name, "5.6", "%v", err)
		return
	}
	for _, name := range gm.Names {
		if _, exists := f.Variable(name); !exists {
			rep.Error(vr.Name, "5.6", "grid_mapping attribute referencing non-existent variable %s", name)
			continue
		}
		cls.add(name, RoleGridMapping)
	}

	// Coordinates of the extended syntax must belong to the declaring
	// variable, either as one of its dimensions or through its own
	// coordinates attribute.
	var declared []string
	if cv, ok := vr.Attrs.Str("coordinates"); ok && grammar.IsNameList(cv) {
		declared = grammar.SplitNames(cv)
	}
	for _, name := range gm.Coords {
		if _, exists := f.Variable(name); !exists {
			rep.Error(vr.Name, "5.6", "grid_mapping attribute referencing non-existent variable %s", name)
			continue
		}
		if !vr.HasDim(name) && !containsName(declared, name) {
			rep.Error(vr.Name, "5.6", "%s is not a dimension or auxiliary coordinate variable of %s", name, vr.Name)
		}
	}
}

func classifyGeometryAttr(f dataset.File, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	val, isStr := vr.Attrs.Str("geometry")
	if !isStr {
		if vr.Attrs.Has("geometry") {
			rep.Error(vr.Name, "7.5", "'geometry' attribute must be a string whose value is a single variable name")
		}
		return
	}
	if !grammar.IsName(val) || val == "" {
		rep.Error(vr.Name, "7.5", "'geometry' attribute must be a string whose value is a single variable name")
		return
	}
	if _, exists := f.Variable(val); !exists {
		rep.Error(vr.Name, "7.5", "geometry attribute referencing non-existent variable %s", val)
		return
	}
	cls.add(val, RoleGeometryContainer)
	cls.addGeometryUser(val, vr.Name)
}

func classifyNodeCoordinatesAttr(f dataset.File, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	val, isStr := vr.Attrs.Str("node_coordinates")
	if !isStr {
		return
	}
	if !grammar.IsNameList(val) {
		rep.Error(vr.Name, "7.5", "'node_coordinates' attribute must be a blank-separated list of variable names")
		return
	}
	for _, name := range grammar.SplitNames(val) {
		if _, exists := f.Variable(name); !exists {
			// The geometry container check reports missing node
			// coordinate variables with fuller context.
			continue
		}
		cls.add(name, RoleAuxCoordinate)
		cls.add(name, RoleNodeCoordinate)
	}
}

func containsName(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
