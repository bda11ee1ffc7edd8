package cf

import (
	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

// gridMappingAttrTypes is the Appendix F attribute type table: 'S' for
// string-valued, 'N' for numeric-valued attributes.
var gridMappingAttrTypes = map[string]byte{
	"azimuth_of_central_line":               'N',
	"crs_wkt":                               'S',
	"earth_radius":                          'N',
	"false_easting":                         'N',
	"false_northing":                        'N',
	"geographic_crs_name":                   'S',
	"geoid_name":                            'S',
	"geopotential_datum_name":               'S',
	"grid_mapping_name":                     'S',
	"grid_north_pole_latitude":              'N',
	"grid_north_pole_longitude":             'N',
	"horizontal_datum_name":                 'S',
	"inverse_flattening":                    'N',
	"latitude_of_projection_origin":         'N',
	"longitude_of_central_meridian":         'N',
	"longitude_of_prime_meridian":           'N',
	"longitude_of_projection_origin":        'N',
	"north_pole_grid_longitude":             'N',
	"perspective_point_height":              'N',
	"prime_meridian_name":                   'S',
	"projected_crs_name":                    'S',
	"reference_ellipsoid_name":              'S',
	"scale_factor_at_central_meridian":      'N',
	"scale_factor_at_projection_origin":     'N',
	"semi_major_axis":                       'N',
	"semi_minor_axis":                       'N',
	"standard_parallel":                     'N',
	"straight_vertical_longitude_from_pole": 'N',
	"towgs84":                               'N',
}

// gridMappingNames returns the grid_mapping_name allow-list for a
// version. The list only grows across versions.
func gridMappingNames(v Version) map[string]bool {
	names := map[string]bool{
		"albers_conical_equal_area":    true,
		"azimuthal_equidistant":        true,
		"lambert_azimuthal_equal_area": true,
		"lambert_conformal_conic":      true,
		"polar_stereographic":          true,
		"rotated_latitude_longitude":   true,
		"stereographic":                true,
		"transverse_mercator":          true,
	}
	if v.AtLeast(V1_2) {
		names["latitude_longitude"] = true
		names["vertical_perspective"] = true
	}
	if v.AtLeast(V1_4) {
		names["lambert_cylindrical_equal_area"] = true
		names["mercator"] = true
		names["orthographic"] = true
	}
	if v.AtLeast(V1_7) {
		names["geostationary"] = true
		names["oblique_mercator"] = true
		names["sinusoidal"] = true
	}
	return names
}

// checkGridMappingVar validates a variable classified as a grid mapping
// variable: the grid_mapping_name allow-list, zero dimensionality and
// the Appendix F attribute types.
func (c *Checker) checkGridMappingVar(v Version, vr *dataset.Variable, rep *report.Collector) {
	if name, ok := vr.Attrs.Str("grid_mapping_name"); ok {
		if !gridMappingNames(v)[name] {
			rep.Error(vr.Name, "5.6", "Invalid grid_mapping_name: %s", name)
		}
	} else {
		rep.Error(vr.Name, "5.6", "No grid_mapping_name attribute set")
	}

	if vr.Rank() != 0 {
		rep.Warn(vr.Name, "5.6", "A grid mapping variable should have 0 dimensions")
	}

	for _, name := range vr.Attrs.Names() {
		want, known := gridMappingAttrTypes[name]
		if !known {
			continue
		}
		a, _ := vr.Attrs.Get(name)
		got := byte('N')
		if a.IsString() {
			got = 'S'
		}
		if got != want {
			rep.Error(vr.Name, "5.6", "Attribute %s of incorrect data type (Appendix F)", name)
		}
	}

	if v.AtLeast(V1_7) {
		if vr.Attrs.Has("crs_wkt") {
			rep.Info(vr.Name, "5.6", "The syntax of the crs_wkt attribute is not verified; it must conform to the CRS WKT specification")
		}

		// The geographic CRS naming attributes come as a complete group
		// or not at all.
		group := []string{"reference_ellipsoid_name", "prime_meridian_name", "horizontal_datum_name", "geographic_crs_name"}
		nPresent := 0
		for _, name := range group {
			if vr.Attrs.Has(name) {
				nPresent++
			}
		}
		if nPresent > 0 && nPresent < len(group) {
			rep.Error(vr.Name, "5.6", "reference_ellipsoid_name, prime_meridian_name, horizontal_datum_name and geographic_crs_name must all be defined if any one is defined")
		}
		if vr.Attrs.Has("projected_crs_name") && !vr.Attrs.Has("geographic_crs_name") {
			rep.Error(vr.Name, "5.6", "projected_crs_name is defined therefore geographic_crs_name must be also")
		}
	}
}
