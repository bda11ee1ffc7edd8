package cf

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/report"
	"github.com/leapstack-labs/cfcheck/pkg/table"
)

// standardNameModifiers are the legal second tokens of a standard_name
// attribute.
var standardNameModifiers = map[string]bool{
	"detection_minimum":      true,
	"number_of_observations": true,
	"standard_error":         true,
	"status_flag":            true,
}

// deprecatedModifiers were withdrawn at CF-1.7.
var deprecatedModifiers = map[string]bool{
	"status_flag":            true,
	"number_of_observations": true,
}

// derivedNamePatterns cover the transformation rules of the standard
// name guidelines; a name matching one of these is valid even when
// absent from the table.
var derivedNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(direction|magnitude|square|divergence)_of_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^rate_of_change_of_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^(grid_)?(northward|southward|eastward|westward)_derivative_of_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^product_of_[a-zA-Z][a-zA-Z0-9_]*_and_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^ratio_of_[a-zA-Z][a-zA-Z0-9_]*_to_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^derivative_of_[a-zA-Z][a-zA-Z0-9_]*_wrt_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^(correlation|covariance)_over_[a-zA-Z][a-zA-Z0-9_]*_of_[a-zA-Z][a-zA-Z0-9_]*_and_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^histogram_over_[a-zA-Z][a-zA-Z0-9_]*_of_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^probability_distribution_over_[a-zA-Z][a-zA-Z0-9_]*_of_[a-zA-Z][a-zA-Z0-9_]*$`),
	regexp.MustCompile(`^probability_density_function_over_[a-zA-Z][a-zA-Z0-9_]*_of_[a-zA-Z][a-zA-Z0-9_]*$`),
}

func isDerivedStandardName(name string) bool {
	for _, p := range derivedNamePatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

var blankSeparatedList = regexp.MustCompile(`^[a-zA-Z0-9_ ]*$`)

// checkDescription validates the standard_name attribute and the
// presence of a description on data variables. Variables serving purely
// structural roles (boundary, climatology, grid mapping, geometry
// container) need no description of their own.
func (c *Checker) checkDescription(f dataset.File, v Version, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	hasStd := vr.Attrs.Has("standard_name")
	if !hasStd && !vr.Attrs.Has("long_name") {
		roles := cls.Roles(vr.Name)
		structural := roles.Has(RoleBoundary) || roles.Has(RoleClimatology) ||
			roles.Has(RoleGridMapping) || roles.Has(RoleGeometryContainer)
		if !structural {
			rep.Warn(vr.Name, "3", "No standard_name or long_name attribute specified")
		}
	}
	if !hasStd {
		return
	}

	raw, isStr := vr.Attrs.Str("standard_name")
	if !isStr {
		rep.Error(vr.Name, "3.3", "standard_name attribute must be a string")
		return
	}
	parts := strings.Fields(raw)
	switch {
	case len(parts) == 0:
		rep.Error(vr.Name, "3.3", "Empty string for 'standard_name' attribute")
		return
	case !blankSeparatedList.MatchString(raw) || len(parts) > 2:
		rep.Error(vr.Name, "3.3", "Invalid syntax for 'standard_name' attribute: %q", raw)
		return
	}

	name := parts[0]
	if !c.tables.StandardNames.Has(name) && !isDerivedStandardName(name) {
		rep.Error(vr.Name, "3.3", "Invalid standard_name: %s", name)
	}

	if len(parts) == 2 {
		modifier := parts[1]
		if !standardNameModifiers[modifier] {
			rep.Error(vr.Name, "3.3", "Invalid standard_name modifier: %s", modifier)
		} else if v.AtLeast(V1_7) && deprecatedModifiers[modifier] {
			rep.Warn(vr.Name, "3.3", "Use of standard_name modifier %s is deprecated", modifier)
		}
	}

	if name == "region" {
		c.checkVocabularyValues(f, vr, c.tables.RegionNames, "region name", rep)
	}
	if v.AtLeast(V1_4) && name == "area_type" {
		c.checkVocabularyValues(f, vr, c.tables.AreaTypes, "area_type", rep)
	}

	if pos, ok := vr.Attrs.Str("positive"); ok {
		lname := strings.ToLower(name)
		lpos := strings.ToLower(pos)
		if (strings.HasPrefix(lname, "height") && !strings.HasPrefix(lpos, "up")) ||
			(strings.HasPrefix(lname, "depth") && !strings.HasPrefix(lpos, "down")) {
			rep.Warn(vr.Name, "4.3", "Positive attribute inconsistent with sign conventions implied by the standard_name")
		}
	}
}

// checkVocabularyValues checks the stored values of a label variable
// (or its flag_meanings tokens for a flag variable) against a
// membership vocabulary.
func (c *Checker) checkVocabularyValues(f dataset.File, vr *dataset.Variable, t *table.Table, what string, rep *report.Collector) {
	if vr.Type != dataset.TypeChar {
		meanings, ok := vr.Attrs.Get("flag_meanings")
		if !ok {
			rep.Error(vr.Name, "3.3", "Variable %s of invalid type; a %s variable should be of type char", vr.Name, what)
			return
		}
		s, isStr := meanings.Str()
		if !isStr {
			rep.Error(vr.Name, "3.5", "Invalid syntax for 'flag_meanings' attribute")
			return
		}
		for _, token := range strings.Fields(s) {
			if !t.Has(token) {
				rep.Error(vr.Name, "3.3", "Invalid %s: %s", what, token)
			}
		}
		return
	}

	values, err := f.ReadStrings(vr.Name)
	if err != nil {
		return
	}
	if len(values) == 0 {
		rep.Error(vr.Name, "3.3", "No %s values specified", what)
		return
	}
	for _, val := range values {
		if !t.Has(strings.TrimSpace(val)) {
			rep.Error(vr.Name, "3.3", "Invalid %s: %s", what, strings.TrimSpace(val))
		}
	}
}
