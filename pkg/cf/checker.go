package cf

import (
	"errors"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/report"
	"github.com/leapstack-labs/cfcheck/pkg/table"
	"github.com/leapstack-labs/cfcheck/pkg/units"
)

// Tables bundles the reference vocabularies the checks consult. Loaded
// once per checker lifetime and treated as immutable afterwards.
type Tables struct {
	StandardNames *table.Table
	AreaTypes     *table.Table
	RegionNames   *table.Table
}

// Checker validates files against the conventions. It is single
// threaded; one file is fully classified and then fully checked before
// the next begins.
type Checker struct {
	tables Tables

	// ForceVersion pins the conventions version instead of reading it
	// from the file's Conventions attribute.
	ForceVersion Version
}

// NewChecker builds a checker around the loaded vocabularies.
func NewChecker(tables Tables) *Checker {
	return &Checker{tables: tables}
}

// CheckFile runs every check over one file, emitting findings into rep.
// A fatal finding aborts this file only; it is recorded in the
// collector and not returned as an error. The returned version is the
// one the file was checked against.
func (c *Checker) CheckFile(f dataset.File, rep *report.Collector) (Version, error) {
	version, err := c.resolveVersion(f, rep)
	if err != nil {
		if errors.Is(err, report.ErrFatal) {
			return Version{}, nil
		}
		return Version{}, err
	}

	attrTable := attributeTable(version)
	cls := Classify(f, version, rep)

	c.checkGlobalAttributes(f, version, attrTable, rep)

	for _, vr := range f.Variables() {
		rep.Debug(vr.Name, "roles: %s", cls.Roles(vr.Name))

		c.checkVariableAttributes(vr, cls, attrTable, rep)
		c.checkDescription(f, version, vr, cls, rep)
		c.checkUnits(vr, rep)
		c.checkAxis(version, vr, cls, rep)
		c.checkFlags(vr, rep)
		c.checkCellMethods(f, version, vr, cls, rep)
		c.checkCellMeasures(f, version, vr, rep)
		c.checkFormulaTerms(f, version, vr, cls, rep)
		c.checkCompress(f, vr, rep)

		if version.AtLeast(V1_6) {
			c.checkCFRole(vr, rep)
			c.checkRaggedArray(vr, rep)
		}
		if cls.Is(vr.Name, RoleGridMapping) {
			c.checkGridMappingVar(version, vr, rep)
		}
		if version.AtLeast(V1_8) {
			if cls.Is(vr.Name, RoleGeometryContainer) {
				c.checkGeometryContainer(f, vr, cls, rep)
			}
			c.checkNodes(f, vr, cls, rep)
		}
	}
	return version, nil
}

func (c *Checker) resolveVersion(f dataset.File, rep *report.Collector) (Version, error) {
	if c.ForceVersion.IsZero() {
		return DetectVersion(f, rep)
	}
	if conv, ok := f.Attributes().Str("Conventions"); ok {
		if declared, ok := ParseVersion(conv); ok && declared != c.ForceVersion {
			rep.Info("", "2.6.1", "Checking against %s; file declares %s", c.ForceVersion, declared)
		}
	}
	return c.ForceVersion, nil
}

// deprecatedUnits were valid spellings for dimensionless vertical
// coordinates in COARDS.
var deprecatedUnits = map[string]bool{
	"level":       true,
	"layer":       true,
	"sigma_level": true,
}

// checkUnits validates the units attribute and its consistency with
// the canonical units of the variable's standard name.
func (c *Checker) checkUnits(vr *dataset.Variable, rep *report.Collector) {
	a, present := vr.Attrs.Get("units")
	if !present {
		return
	}
	us, isStr := a.Str()
	if !isStr {
		rep.Error(vr.Name, "3.1", "units attribute must be of type 'String'")
		return
	}
	if us == "" {
		return
	}
	if deprecatedUnits[us] {
		rep.Warn(vr.Name, "3.1", "units %s is deprecated", us)
		return
	}
	if us == "month" || us == "year" {
		rep.Warn(vr.Name, "4.4", "Units of %s should be used with caution as its length varies", us)
	}

	u, err := units.Parse(us)
	if err != nil {
		rep.Error(vr.Name, "3.1", "Invalid units: %s", us)
		return
	}

	name, modifier, hasStd := splitStandardName(vr)
	if !hasStd || name == "" || modifier == "status_flag" {
		return
	}
	canonical, known := c.tables.StandardNames.CanonicalUnits(name)
	if !known || canonical == "" || canonical == "1" {
		return
	}
	cu, err := units.Parse(canonical)
	if err != nil {
		return
	}
	if u.IsReftime() && cu.IsTime() {
		// Reference times carry an epoch on top of the canonical
		// duration unit.
		return
	}
	if !units.Equivalent(u, cu) {
		rep.Error(vr.Name, "3.1", "Units %s are not consistent with those given in the standard_name table (%s)", us, canonical)
	}
}

// checkRaggedArray validates the count and index variables of the
// discrete-sampling-geometry ragged representations.
func (c *Checker) checkRaggedArray(vr *dataset.Variable, rep *report.Collector) {
	if vr.Attrs.Has("sample_dimension") && vr.Type != dataset.TypeInt {
		rep.Error(vr.Name, "9.3", "count variable must be of type integer")
	}
	if vr.Attrs.Has("instance_dimension") && vr.Type != dataset.TypeInt {
		rep.Error(vr.Name, "9.3", "index variable must be of type integer")
	}
}
