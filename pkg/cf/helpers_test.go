package cf

import (
	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/report"
	"github.com/leapstack-labs/cfcheck/pkg/table"
)

// testTables builds a small fixed vocabulary, enough for the checks
// under test without loading the published XML tables.
func testTables() Tables {
	return Tables{
		StandardNames: &table.Table{
			Kind: table.StandardNames,
			Units: map[string]string{
				"air_temperature":        "K",
				"air_pressure":           "Pa",
				"latitude":               "degree_north",
				"longitude":              "degree_east",
				"time":                   "s",
				"altitude":               "m",
				"depth":                  "m",
				"region":                 "",
				"area_type":              "",
				"cell_area":              "m2",
				"ocean_sigma_coordinate": "1",
				"surface_air_pressure":   "Pa",

				"sea_surface_height_above_geoid":              "m",
				"sea_floor_depth_below_geoid":                 "m",
				"sea_surface_height_above_geopotential_datum": "m",
				"sea_floor_depth_below_geopotential_datum":    "m",
				"air_pressure_at_top_of_atmosphere_model":     "Pa",
			},
		},
		AreaTypes: &table.Table{
			Kind: table.AreaTypes,
			Members: map[string]bool{
				"land":           true,
				"sea":            true,
				"sea_ice":        true,
				"all_area_types": true,
			},
		},
		RegionNames: &table.Table{
			Kind: table.RegionNames,
			Members: map[string]bool{
				"atlantic_ocean": true,
				"pacific_ocean":  true,
			},
		},
	}
}

func newTestChecker() *Checker {
	return NewChecker(testTables())
}

// latLonFile builds a minimal well-formed file with lat/lon/time axes
// and one data variable.
func latLonFile(conventions string) *dataset.MemFile {
	f := dataset.NewMemFile("test.nc")
	f.SetAttr("Conventions", conventions)
	f.AddDim("lat", 3)
	f.AddDim("lon", 4)
	f.AddDim("time", 2)
	f.AddVar("lat", dataset.TypeDouble, []string{"lat"},
		"units", "degrees_north", "standard_name", "latitude")
	f.AddVar("lon", dataset.TypeDouble, []string{"lon"},
		"units", "degrees_east", "standard_name", "longitude")
	f.AddVar("time", dataset.TypeDouble, []string{"time"},
		"units", "days since 2000-01-01", "standard_name", "time")
	f.AddVar("tas", dataset.TypeFloat, []string{"time", "lat", "lon"},
		"units", "K", "standard_name", "air_temperature")
	return f
}

// severities extracts the diagnostics at one severity.
func severities(rep *report.Collector, s report.Severity) []report.Diagnostic {
	var out []report.Diagnostic
	for _, d := range rep.Diagnostics() {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

func errorsOf(rep *report.Collector) []report.Diagnostic {
	return severities(rep, report.SeverityError)
}
