package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEquivalence(t *testing.T) {
	tests := []struct {
		a, b       string
		equivalent bool
	}{
		{"m", "km", true},
		{"m2", "km2", true},
		{"m s-1", "km/h", true},
		{"Pa", "hPa", true},
		{"Pa", "N m-2", true},
		{"W m-2", "J s-1 m-2", true},
		{"m", "s", false},
		{"m2", "m3", false},
		{"kg m-3", "kg m-2", false},
		{"degrees_north", "degrees_east", true},
		{"1", "%", true},
	}
	for _, tc := range tests {
		t.Run(tc.a+" vs "+tc.b, func(t *testing.T) {
			ua, err := Parse(tc.a)
			require.NoError(t, err)
			ub, err := Parse(tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.equivalent, Equivalent(ua, ub))
		})
	}
}

func TestParseExponentForms(t *testing.T) {
	caret, err := Parse("m^2")
	require.NoError(t, err)
	attached, err := Parse("m2")
	require.NoError(t, err)
	assert.True(t, Equivalent(caret, attached))

	inverse, err := Parse("s-1")
	require.NoError(t, err)
	hz, err := Parse("Hz")
	require.NoError(t, err)
	assert.True(t, Equivalent(inverse, hz))
}

func TestParseQuotient(t *testing.T) {
	a, err := Parse("kg/m3")
	require.NoError(t, err)
	b, err := Parse("kg m-3")
	require.NoError(t, err)
	assert.True(t, Equivalent(a, b))

	_, err = Parse("kg/m/s")
	assert.Error(t, err)
}

func TestParseEmptyAndInvalid(t *testing.T) {
	u, err := Parse("")
	require.NoError(t, err)
	one, err := Parse("1")
	require.NoError(t, err)
	assert.True(t, Equivalent(u, one))

	_, err = Parse("bogus_unit")
	assert.Error(t, err)
}

func TestReftime(t *testing.T) {
	u, err := Parse("days since 1970-01-01")
	require.NoError(t, err)
	assert.True(t, u.IsReftime())
	assert.False(t, u.IsTime())

	plain, err := Parse("days")
	require.NoError(t, err)
	assert.True(t, plain.IsTime())
	assert.False(t, plain.IsReftime())

	_, err = Parse("m since 1970-01-01")
	assert.Error(t, err)
}

func TestAxisPredicates(t *testing.T) {
	lon := MustParse("degrees_east")
	assert.True(t, lon.IsLongitude())
	assert.False(t, lon.IsLatitude())

	lat := MustParse("degrees_north")
	assert.True(t, lat.IsLatitude())
	assert.False(t, lat.IsLongitude())

	hpa := MustParse("hPa")
	assert.True(t, hpa.IsPressure())
	assert.False(t, MustParse("m").IsPressure())
}

func TestScale(t *testing.T) {
	km := MustParse("km")
	assert.InDelta(t, 1000, km.Scale(), 1e-9)

	hpa := MustParse("hPa")
	assert.InDelta(t, 100, hpa.Scale(), 1e-9)
}
