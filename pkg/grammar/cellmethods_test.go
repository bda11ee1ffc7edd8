package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellMethodsSingleClause(t *testing.T) {
	clauses, err := ParseCellMethods("lat: maximum")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, []string{"lat"}, clauses[0].Dims)
	assert.Equal(t, "maximum", clauses[0].Method)
	assert.Empty(t, clauses[0].Type1)
	assert.Empty(t, clauses[0].Comment)
}

func TestParseCellMethodsMultipleClauses(t *testing.T) {
	clauses, err := ParseCellMethods("lat: maximum lon: mean")
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Equal(t, "maximum", clauses[0].Method)
	assert.Equal(t, []string{"lon"}, clauses[1].Dims)
	assert.Equal(t, "mean", clauses[1].Method)
}

func TestParseCellMethodsMultipleDims(t *testing.T) {
	clauses, err := ParseCellMethods("lat: lon: mean")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, []string{"lat", "lon"}, clauses[0].Dims)
	assert.Equal(t, "mean", clauses[0].Method)
}

func TestParseCellMethodsWhereOver(t *testing.T) {
	clauses, err := ParseCellMethods("area: mean where land over all_area_types")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, "land", clauses[0].Type1)
	assert.Equal(t, "all_area_types", clauses[0].Type2)
}

func TestParseCellMethodsClimatologicalScope(t *testing.T) {
	clauses, err := ParseCellMethods("time: mean within days time: mean over days")
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Equal(t, "within days", clauses[0].Scope)
	assert.Equal(t, "over days", clauses[1].Scope)
}

func TestParseCellMethodsScopeThenNextClause(t *testing.T) {
	clauses, err := ParseCellMethods("time: mean over years lat: mean")
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Equal(t, "over years", clauses[0].Scope)
	assert.Equal(t, []string{"lat"}, clauses[1].Dims)
}

func TestParseCellMethodsComment(t *testing.T) {
	clauses, err := ParseCellMethods("time: mean (interval: 1 hours)")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, "interval: 1 hours", clauses[0].Comment)

	intervals := ParseIntervals(clauses[0].Comment)
	require.Len(t, intervals, 1)
	assert.Equal(t, "1", intervals[0].Value)
	assert.Equal(t, "hours", intervals[0].Unit)
}

func TestParseCellMethodsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"no dimension list", "maximum"},
		{"missing method", "lat:"},
		{"unterminated comment", "time: mean (interval: 1 hours"},
		{"within without scope", "time: mean within fortnights"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCellMethods(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestParseIntervalsMultiple(t *testing.T) {
	intervals := ParseIntervals("interval: 1 hours interval: 3 hours comment: runs")
	require.Len(t, intervals, 2)
	assert.Equal(t, "3", intervals[1].Value)
}
