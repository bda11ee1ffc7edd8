package cf

import (
	"strings"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/grammar"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

// formula describes one dimensionless vertical coordinate: the
// defining equations and, per formula term, the standard names its
// variable may carry. A term mapped to setMember draws its names from
// the numbered oceanStdNameSets instead, and all such terms of one
// declaration must agree on the set.
type formula struct {
	equations []string
	termNames map[string][]string
	// computed_standard_name values; setMember defers to the sets
	computedNames []string
}

// setMember marks a term whose standard names come from the numbered
// ocean name sets.
const setMember = "set"

// formulaAlias maps a standard name (including deprecated spellings) to
// its formula key.
var formulaAlias = map[string]string{
	"atmosphere_ln_pressure_coordinate":            "atmosphere_ln_pressure_coordinate",
	"atmosphere_sigma_coordinate":                  "sigma",
	"sigma":                                        "sigma",
	"atmosphere_hybrid_sigma_pressure_coordinate":  "hybrid_sigma_pressure",
	"hybrid_sigma_pressure":                        "hybrid_sigma_pressure",
	"atmosphere_hybrid_height_coordinate":          "atmosphere_hybrid_height_coordinate",
	"atmosphere_sleve_coordinate":                  "atmosphere_sleve_coordinate",
	"ocean_sigma_coordinate":                       "ocean_sigma_coordinate",
	"ocean_s_coordinate":                           "ocean_s_coordinate",
	"ocean_s_coordinate_g1":                        "ocean_s_coordinate_g1",
	"ocean_s_coordinate_g2":                        "ocean_s_coordinate_g2",
	"ocean_sigma_z_coordinate":                     "ocean_sigma_z_coordinate",
	"ocean_double_sigma_coordinate":                "ocean_double_sigma_coordinate",
}

var formulas = map[string]formula{
	"atmosphere_ln_pressure_coordinate": {
		equations: []string{"p(k)=p0*exp(-lev(k))"},
		termNames: map[string][]string{
			"p0": {"reference_air_pressure_for_atmosphere_vertical_coordinate"},
		},
		computedNames: []string{"air_pressure"},
	},
	"sigma": {
		equations: []string{"p(n,k,j,i)=ptop+sigma(k)*(ps(n,j,i)-ptop)"},
		termNames: map[string][]string{
			"ptop": {"air_pressure_at_top_of_atmosphere_model"},
			"ps":   {"surface_air_pressure"},
		},
		computedNames: []string{"air_pressure"},
	},
	"hybrid_sigma_pressure": {
		equations: []string{
			"p(n,k,j,i)=a(k)*p0+b(k)*ps(n,j,i)",
			"p(n,k,j,i)=ap(k)+b(k)*ps(n,j,i)",
		},
		termNames: map[string][]string{
			"p0": {"reference_air_pressure_for_atmosphere_vertical_coordinate"},
			"ps": {"surface_air_pressure"},
		},
		computedNames: []string{"air_pressure"},
	},
	"atmosphere_hybrid_height_coordinate": {
		equations: []string{"z(n,k,j,i)=a(k)+b(k)*orog(n,j,i)"},
		termNames: map[string][]string{
			"orog": {"surface_altitude", "surface_height_above_geopotential_datum"},
			"a":    {"atmosphere_hybrid_height_coordinate"},
		},
		computedNames: []string{"altitude", "height_above_geopotential_datum"},
	},
	"atmosphere_sleve_coordinate": {
		equations: []string{"z(n,k,j,i) = a(k)*ztop + b1(k)*zsurf1(n,j,i) + b2(k)*zsurf2(n,j,i)"},
		termNames: map[string][]string{
			"ztop": {"altitude_at_top_of_atmosphere_model", "height_above_geopotential_datum_at_top_of_atmosphere_model"},
		},
		computedNames: []string{"altitude", "height_above_geopotential_datum"},
	},
	"ocean_sigma_coordinate": {
		equations: []string{"z(n,k,j,i)=eta(n,j,i)+sigma(k)*(depth(j,i)+eta(n,j,i))"},
		termNames: map[string][]string{
			"eta":   {setMember},
			"depth": {setMember},
		},
		computedNames: []string{setMember},
	},
	"ocean_s_coordinate": {
		equations: []string{
			"z(n,k,j,i)=eta(n,j,i)*(1+s(k))+depth_c*s(k)+(depth(j,i)-depth_c)*C(k)",
			"C(k)=(1-b)*sinh(a*s(k))/sinh(a)+b*[tanh(a*(s(k)+0.5))/(2*tanh(0.5*a))-0.5]",
		},
		termNames: map[string][]string{
			"eta":   {setMember},
			"depth": {setMember},
		},
		computedNames: []string{setMember},
	},
	"ocean_s_coordinate_g1": {
		equations: []string{
			"z(n,k,j,i) = S(k,j,i) + eta(n,j,i) * (1 + S(k,j,i) / depth(j,i))",
			"S(k,j,i) = depth_c * s(k) + (depth(j,i) - depth_c) * C(k)",
		},
		termNames: map[string][]string{
			"eta":   {setMember},
			"depth": {setMember},
		},
		computedNames: []string{setMember},
	},
	"ocean_s_coordinate_g2": {
		equations: []string{
			"z(n,k,j,i) = eta(n,j,i) + (eta(n,j,i) + depth(j,i)) * S(k,j,i)",
			"S(k,j,i) = (depth_c * s(k) + depth(j,i) * C(k)) / (depth_c + depth(j,i))",
		},
		termNames: map[string][]string{
			"eta":   {setMember},
			"depth": {setMember},
		},
		computedNames: []string{setMember},
	},
	"ocean_sigma_z_coordinate": {
		equations: []string{
			"z(n,k,j,i)=eta(n,j,i)+sigma(k)*(min(depth_c,depth(j,i))+eta(n,j,i))",
			"z(n,k,j,i)=zlev(k)",
		},
		termNames: map[string][]string{
			"eta":   {setMember},
			"depth": {setMember},
			"zlev":  {setMember},
		},
		computedNames: []string{setMember},
	},
	"ocean_double_sigma_coordinate": {
		equations: []string{
			"z(k,j,i)=sigma(k)*f(j,i)",
			"z(k,j,i)=f(j,i)+(sigma(k)-1)*(depth(j,i)-f(j,i))",
			"f(j,i)=0.5*(z1+z2)+0.5*(z1-z2)*tanh(2*a/(z1-z2)*(depth(j,i)-href))",
		},
		termNames: map[string][]string{
			"depth": {setMember},
		},
		computedNames: []string{setMember},
	},
}

// oceanStdNameSets are the vertical-datum families for ocean
// coordinates. Within one formula_terms declaration every set-typed
// term must draw from the same family.
var oceanStdNameSets = []map[string][]string{
	{
		"zlev":  {"altitude"},
		"eta":   {"sea_surface_height_above_geoid"},
		"depth": {"sea_floor_depth_below_geoid"},
		"csn":   {"altitude"},
	},
	{
		"zlev":  {"height_above_geopotential_datum"},
		"eta":   {"sea_surface_height_above_geopotential_datum"},
		"depth": {"sea_floor_depth_below_geopotential_datum"},
		"csn":   {"height_above_geopotential_datum"},
	},
	{
		"zlev":  {"height_above_reference_ellipsoid"},
		"eta":   {"sea_surface_height_above_reference_ellipsoid"},
		"depth": {"sea_floor_depth_below_reference_ellipsoid"},
		"csn":   {"height_above_reference_ellipsoid"},
	},
	{
		"zlev":  {"height_above_mean_sea_level"},
		"eta":   {"sea_surface_height_above_mean_sea_level"},
		"depth": {"sea_floor_depth_below_mean_sea_level"},
		"csn":   {"height_above_mean_sea_level"},
	},
}

// checkFormulaTerms validates a formula_terms attribute against the
// formula named by the declaring variable's standard_name.
func (c *Checker) checkFormulaTerms(f dataset.File, v Version, vr *dataset.Variable, cls *Classification, rep *report.Collector) {
	raw, ok := vr.Attrs.Str("formula_terms")
	if !ok {
		return
	}
	code := "4.3.2"
	if v.AtLeast(V1_7) {
		code = "4.3.3"
	}

	if !cls.Is(vr.Name, RoleCoordinate) && !cls.Is(vr.Name, RoleAuxCoordinate) {
		rep.Error(vr.Name, code, "formula_terms attribute only allowed on coordinate variables")
	}

	stdName, _, hasStd := splitStandardName(vr)
	if !hasStd {
		rep.Error(vr.Name, code, "Cannot get formula definition as no standard_name")
		return
	}
	key, known := formulaAlias[stdName]
	if !known {
		rep.Error(vr.Name, code, "No formula defined for standard name: %s", stdName)
		return
	}
	fm := formulas[key]

	// The numbered set already pinned down, either by the
	// computed_standard_name or by the first set-typed term matched.
	pinnedSet := -1
	if v.AtLeast(V1_7) {
		if csn, ok := vr.Attrs.Str("computed_standard_name"); ok {
			if fm.computedNames[0] == setMember {
				pinnedSet = findStdNameSet("csn", csn)
				if pinnedSet < 0 {
					rep.Error(vr.Name, code, "Invalid computed_standard_name: %s", csn)
				}
			} else if !containsName(fm.computedNames, csn) {
				rep.Error(vr.Name, code, "Invalid computed_standard_name: %s", csn)
			}
		}
	}

	terms, err := grammar.ParseFormulaTerms(raw)
	if err != nil {
		rep.Error(vr.Name, code, "Invalid formula_terms syntax")
		return
	}
	for _, t := range terms {
		if !termInFormula(t.Term, fm.equations) {
			rep.Error(vr.Name, code, "Formula term %s not present in formula for %s", t.Term, stdName)
		}
		fv, exists := f.Variable(t.Var)
		if !exists {
			rep.Error(vr.Name, code, "%s is not declared as a variable", t.Var)
			continue
		}
		if t.Var == vr.Name || !v.AtLeast(V1_7) {
			continue
		}
		fvStd, _, ok := splitStandardName(fv)
		if !ok {
			continue
		}
		valid, constrained := fm.termNames[t.Term]
		if !constrained {
			continue
		}
		if valid[0] != setMember {
			if !containsName(valid, fvStd) {
				rep.Error(vr.Name, code, "Standard name of variable %s inconsistent with that of %s", t.Var, vr.Name)
			}
			continue
		}
		set := findStdNameSet(t.Term, fvStd)
		switch {
		case set < 0:
			rep.Error(vr.Name, code, "Standard names of formula_terms variables are inconsistent/invalid")
		case pinnedSet < 0:
			pinnedSet = set
		case set != pinnedSet:
			rep.Error(vr.Name, code, "Standard names of formula_terms variables are inconsistent/invalid")
		}
	}
}

// findStdNameSet returns the index of the ocean name set containing
// name for the given term, or -1.
func findStdNameSet(term, name string) int {
	for i, set := range oceanStdNameSets {
		if containsName(set[term], name) {
			return i
		}
	}
	return -1
}

// termInFormula reports whether the term occurs in at least one of the
// formula's equations.
func termInFormula(term string, equations []string) bool {
	for _, eq := range equations {
		if strings.Contains(eq, term) {
			return true
		}
	}
	return false
}

// splitStandardName returns the standard name and optional modifier of
// a variable's standard_name attribute.
func splitStandardName(vr *dataset.Variable) (name, modifier string, ok bool) {
	raw, has := vr.Attrs.Str("standard_name")
	if !has {
		return "", "", false
	}
	parts := strings.Fields(raw)
	switch len(parts) {
	case 0:
		return "", "", true
	case 1:
		return parts[0], "", true
	default:
		return parts[0], parts[1], true
	}
}
