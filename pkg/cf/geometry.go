package cf

import (
	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/grammar"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

// checkGeometryContainer validates a geometry container variable and
// its node coordinate, node count, part node count and interior ring
// companions, plus the attributes its data variables must repeat.
func (c *Checker) checkGeometryContainer(f dataset.File, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	name := vr.Name
	users := cls.GeometryUsers(name)

	nodeCountVar := c.singleVarAttr(f, vr, "node_count", rep)
	partNodeCountVar := c.singleVarAttr(f, vr, "part_node_count", rep)
	interiorRingVar := c.singleVarAttr(f, vr, "interior_ring", rep)

	// Node coordinates: every listed variable must be 1-D with an axis
	// attribute, all sharing one dimension, with no axis repeated.
	nodeDim := ""
	raw, hasNC := vr.Attrs.Str("node_coordinates")
	switch {
	case !hasNC:
		rep.Error(name, "7.5", "No node_coordinates attribute set")
	case !grammar.IsNameList(raw):
		// Syntax already reported during classification.
	default:
		axes := make(map[string]bool)
		dims := make(map[string]bool)
		for _, n := range grammar.SplitNames(raw) {
			nv, exists := f.Variable(n)
			if !exists {
				rep.Error(name, "7.5", "node_coordinates attribute referencing non-existent variable %s", n)
				continue
			}
			if nv.Rank() != 1 {
				rep.Error(n, "7.5", "Node coordinate variable %s must have exactly one dimension", n)
			} else {
				dims[nv.Dims[0]] = true
			}
			ax, hasAxis := nv.Attrs.Str("axis")
			if !hasAxis {
				rep.Error(n, "7.5", "Node coordinate variable %s must have an axis attribute", n)
				continue
			}
			if ax != "X" && ax != "Y" && ax != "Z" {
				rep.Error(n, "7.5", "Invalid axis value on node coordinate variable %s: %s", n, ax)
			}
			if axes[ax] {
				rep.Error(name, "7.5", "Axis attribute values of node coordinate variables must be unique")
			}
			axes[ax] = true
		}
		if len(dims) != 1 {
			rep.Error(name, "7.5", "All node coordinate variables (%s) must have the same single dimension", raw)
		} else {
			for d := range dims {
				nodeDim = d
			}
			if nodeCountVar != "" {
				if size, ok := f.DimensionSize(nodeDim); ok {
					if total, ok := c.sumOf(f, nodeCountVar); ok && float64(size) != total {
						rep.Error(name, "7.5", "Dimension %s must equal the total number of nodes in all the geometries", nodeDim)
					}
				}
			}
		}
	}

	geometryType, hasGT := vr.Attrs.Str("geometry_type")
	if !hasGT {
		rep.Error(name, "7.5", "No geometry_type attribute set")
	} else {
		switch geometryType {
		case "point":
		case "line":
			if !c.countsAtLeast(f, nodeCountVar, 2) {
				rep.Error(name, "7.5", "For 'line' geometry_type, each geometry must have a minimum of two nodes")
			}
		case "polygon":
			if !c.countsAtLeast(f, nodeCountVar, 3) {
				rep.Error(name, "7.5", "For 'polygon' geometry_type, each geometry must have a minimum of three nodes")
			}
		default:
			rep.Error(name, "7.5", "Invalid geometry_type: %s", geometryType)
		}
	}

	if nodeCountVar == "" {
		// Without a node count all geometries are single-part points.
		if nodeDim != "" {
			if size, ok := f.DimensionSize(nodeDim); ok && size > 1 {
				if geometryType != "point" {
					rep.Error(name, "7.5", "Geometry type must be 'point' as no node_count attribute is present")
				}
				for _, user := range users {
					if uv, ok := f.Variable(user); ok && !uv.HasDim(nodeDim) {
						rep.Error(name, "7.5", "Dimension %s of node coordinate variable must be one of the dimensions of %s", nodeDim, user)
					}
				}
			}
		}
	} else if ncv, ok := f.Variable(nodeCountVar); ok && ncv.Rank() > 0 {
		geometryDim := ncv.Dims[0]
		for _, user := range users {
			if uv, ok := f.Variable(user); ok && !uv.HasDim(geometryDim) {
				rep.Error(user, "7.5", "One of the dimensions of %s must be the number of geometries to which the data applies", user)
			}
		}
	}

	if partNodeCountVar != "" && nodeCountVar != "" {
		parts, ok1 := c.sumOf(f, partNodeCountVar)
		nodes, ok2 := c.sumOf(f, nodeCountVar)
		if ok1 && ok2 && parts != nodes {
			rep.Error(name, "7.5", "Sum of part_node_count values must equal sum of node_count values")
		}
	}

	if interiorRingVar != "" {
		if partNodeCountVar == "" {
			rep.Error(name, "7.5", "No part_node_count attribute set")
		}
		irv, exists := f.Variable(interiorRingVar)
		if exists {
			if values, err := f.ReadNumeric(interiorRingVar); err == nil {
				for _, val := range values {
					if val != 0 && val != 1 {
						rep.Error(interiorRingVar, "7.5", "Values of interior ring variable %s must be either 0 or 1", interiorRingVar)
						break
					}
				}
			}
			if irv.Rank() != 1 {
				rep.Error(interiorRingVar, "7.5", "Interior ring variable %s must only have 1 dimension", interiorRingVar)
			}
			if pnv, ok := f.Variable(partNodeCountVar); ok {
				if pnv.Rank() != 1 {
					rep.Error(partNodeCountVar, "7.5", "Part node count variable %s must only have 1 dimension", partNodeCountVar)
				} else if irv.Rank() == 1 && irv.Dims[0] != pnv.Dims[0] {
					rep.Error(name, "7.5", "Interior ring variable %s and part node count variable %s must have the same single dimension", interiorRingVar, partNodeCountVar)
				}
			}
		}
	}

	// Attributes the data variables must repeat from the container.
	for _, attr := range []string{"grid_mapping", "coordinates"} {
		if !vr.Attrs.Has(attr) {
			continue
		}
		for _, user := range users {
			if uv, ok := f.Variable(user); ok && !uv.Attrs.Has(attr) {
				rep.Error(user, "7.5", "Variable %s must have a %s attribute", user, attr)
			}
		}
	}
}

// checkNodes validates a nodes attribute, which ties a coordinate
// variable to its node coordinate counterpart.
func (c *Checker) checkNodes(f dataset.File, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	val, ok := vr.Attrs.Str("nodes")
	if !ok {
		if vr.Attrs.Has("nodes") {
			rep.Error(vr.Name, "7.5", "'nodes' attribute must be a string whose value is a single variable name")
		}
		return
	}
	if !grammar.IsName(val) || val == "" {
		rep.Error(vr.Name, "7.5", "'nodes' attribute must be a string whose value is a single variable name")
		return
	}
	if _, exists := f.Variable(val); !exists {
		rep.Error(vr.Name, "7.5", "'nodes' attribute referencing non-existent variable")
		return
	}
	if !cls.Is(val, RoleNodeCoordinate) {
		rep.Error(vr.Name, "7.5", "Variable referenced by 'nodes' attribute not identified as a node coordinate variable")
	}
}

// singleVarAttr resolves an attribute holding a single variable name,
// reporting syntax and dangling-reference errors. Returns the name when
// the reference resolves, otherwise "".
func (c *Checker) singleVarAttr(f dataset.File, vr *dataset.Variable, attr string, rep *report.Collector) string {
	a, present := vr.Attrs.Get(attr)
	if !present {
		return ""
	}
	val, isStr := a.Str()
	if !isStr || !grammar.IsName(val) || val == "" {
		rep.Error(vr.Name, "7.5", "'%s' attribute must be a string whose value is a single variable name", attr)
		return ""
	}
	if _, exists := f.Variable(val); !exists {
		rep.Error(vr.Name, "7.5", "%s attribute referencing non-existent variable %s", attr, val)
		return ""
	}
	return val
}

// sumOf totals the stored values of a numeric variable.
func (c *Checker) sumOf(f dataset.File, name string) (float64, bool) {
	if name == "" {
		return 0, false
	}
	values, err := f.ReadNumeric(name)
	if err != nil {
		return 0, false
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total, true
}

// countsAtLeast reports whether every stored value of the counting
// variable reaches min. Unreadable or absent counts pass; the reference
// checks report those separately.
func (c *Checker) countsAtLeast(f dataset.File, name string, min float64) bool {
	if name == "" {
		return true
	}
	values, err := f.ReadNumeric(name)
	if err != nil {
		return true
	}
	for _, v := range values {
		if v < min {
			return false
		}
	}
	return true
}
