package cf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

// runFlags builds a scalar int variable with the given attributes and
// runs the flag checks over it.
func runFlags(t *testing.T, attrPairs ...any) *report.Collector {
	t.Helper()
	f := dataset.NewMemFile("flags.nc")
	vr := f.AddVar("status", dataset.TypeInt, nil, attrPairs...)
	rep := report.NewCollector("flags.nc", false)
	newTestChecker().checkFlags(vr, rep)
	return rep
}

func TestCheckFlagsValid(t *testing.T) {
	rep := runFlags(t,
		"flag_values", []float64{1, 2, 3},
		"flag_meanings", "low medium high")
	assert.Empty(t, rep.Diagnostics())
}

func TestCheckFlagsCountMismatch(t *testing.T) {
	rep := runFlags(t,
		"flag_values", []float64{1, 2},
		"flag_meanings", "low medium high")
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Number of flag_values")
}

func TestCheckFlagsDuplicateValues(t *testing.T) {
	rep := runFlags(t,
		"flag_values", []float64{1, 1, 3},
		"flag_meanings", "low medium high")
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unique")
}

func TestCheckFlagsZeroMask(t *testing.T) {
	rep := runFlags(t,
		"flag_masks", []float64{1, 0},
		"flag_meanings", "low high")
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "non-zero")
}

func TestCheckFlagsMaskValueMismatch(t *testing.T) {
	// 1 AND 2 is 0, so the first value does not survive its mask.
	rep := runFlags(t,
		"flag_values", []float64{1, 2},
		"flag_masks", []float64{2, 2},
		"flag_meanings", "low high")
	assert.Empty(t, errorsOf(rep))
	warns := severities(rep, report.SeverityWarn)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "Bitwise AND")
}

func TestCheckFlagsMeaningsAlone(t *testing.T) {
	rep := runFlags(t, "flag_meanings", "low medium high")
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "no flag_values or flag_masks")
}

func TestCheckFlagsValuesWithoutMeanings(t *testing.T) {
	rep := runFlags(t, "flag_values", []float64{1, 2})
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "flag_meanings attribute is missing")
}

func TestCheckFlagsInvalidMeaningsSyntax(t *testing.T) {
	rep := runFlags(t,
		"flag_values", []float64{1, 2},
		"flag_meanings", "low, high")
	errs := errorsOf(rep)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Invalid syntax for 'flag_meanings'")
}

func TestCheckFlagsExtendedMeaningWords(t *testing.T) {
	rep := runFlags(t,
		"flag_values", []float64{1, 2},
		"flag_meanings", "below-ground above_ground+canopy")
	assert.Empty(t, rep.Diagnostics())
}

func TestCheckFlagsAbsent(t *testing.T) {
	rep := runFlags(t, "units", "1")
	assert.Empty(t, rep.Diagnostics())
}
