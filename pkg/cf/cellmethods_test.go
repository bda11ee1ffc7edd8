package cf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

func runCellMethods(t *testing.T, v Version, attr string, setup func(*dataset.MemFile)) *report.Collector {
	t.Helper()
	f := latLonFile(v.String())
	tas, _ := f.Variable("tas")
	tas.Attrs.Set("cell_methods", attr)
	if setup != nil {
		setup(f)
	}
	rep := report.NewCollector("test.nc", false)
	c := newTestChecker()
	cls := Classify(f, v, rep)
	c.checkCellMethods(f, v, tas, cls, rep)
	return rep
}

func TestCellMethodsValid(t *testing.T) {
	rep := runCellMethods(t, V1_6, "lat: maximum", nil)
	assert.Empty(t, errorsOf(rep))
}

func TestCellMethodsInvalidMethodIsolated(t *testing.T) {
	// The bad method is one error; the following clause still parses
	// and checks cleanly.
	rep := runCellMethods(t, V1_6, "lat: bogus lon: mean", nil)
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "bogus")
}

func TestCellMethodsStructuralFailure(t *testing.T) {
	rep := runCellMethods(t, V1_6, "maximum", nil)
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Invalid syntax")
}

func TestCellMethodsInvalidName(t *testing.T) {
	rep := runCellMethods(t, V1_6, "height: mean", nil)
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "height")
}

func TestCellMethodsAreaTokenVersionGate(t *testing.T) {
	// "area" as a name token is only accepted from CF-1.4.
	rep := runCellMethods(t, V1_0, "area: mean", nil)
	require.Len(t, errorsOf(rep), 1)

	rep = runCellMethods(t, V1_4, "area: mean", nil)
	assert.Empty(t, errorsOf(rep))
}

func TestCellMethodsStandardNameDim(t *testing.T) {
	// A standard name is a valid name token even when it is not one of
	// the variable's dimensions.
	rep := runCellMethods(t, V1_6, "altitude: mean", nil)
	assert.Empty(t, errorsOf(rep))
}

func TestCellMethodsRepeatedDim(t *testing.T) {
	rep := runCellMethods(t, V1_6, "lat: maximum lat: mean", nil)
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Multiple cell_methods")

	// time may legitimately appear in several clauses.
	rep = runCellMethods(t, V1_6, "time: mean within days time: maximum over days", nil)
	assert.Empty(t, errorsOf(rep))
}

func TestCellMethodsBoundsWarning(t *testing.T) {
	rep := runCellMethods(t, V1_6, "lat: mean", nil)
	warns := severities(rep, report.SeverityWarn)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "bounds")

	// point methods need no bounds, and bounded coordinates are fine.
	rep = runCellMethods(t, V1_6, "lat: point", nil)
	assert.Empty(t, severities(rep, report.SeverityWarn))
}

func TestCellMethodsWhereAreaType(t *testing.T) {
	rep := runCellMethods(t, V1_6, "area: mean where land", nil)
	assert.Empty(t, errorsOf(rep))

	rep = runCellMethods(t, V1_6, "area: mean where swamp", nil)
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "swamp")
}

func TestCellMethodsIntervals(t *testing.T) {
	rep := runCellMethods(t, V1_6, "lat: lon: mean (interval: 1 degrees interval: 2 degrees)", nil)
	assert.Empty(t, errorsOf(rep))

	// Two intervals against three name tokens.
	rep = runCellMethods(t, V1_6, "lat: lon: time: mean (interval: 1 degrees interval: 2 degrees)", nil)
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "interval")

	rep = runCellMethods(t, V1_6, "lat: mean (interval: 1 parsecs)", nil)
	errs = errorsOf(rep)
	require.Len(t, errs, 1)
	assert.True(t, strings.Contains(errs[0].Message, "parsecs"))
}
