package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrMapKeepsDeclarationOrder(t *testing.T) {
	m := NewAttrMap()
	m.Set("units", "K")
	m.Set("standard_name", "air_temperature")
	m.Set("units", "Celsius") // replace keeps first-set position

	assert.Equal(t, []string{"units", "standard_name"}, m.Names())
	u, ok := m.Str("units")
	require.True(t, ok)
	assert.Equal(t, "Celsius", u)
}

func TestAttrNumbers(t *testing.T) {
	scalar := Attr{Name: "scale_factor", Value: 0.5}
	n, ok := scalar.Numbers()
	require.True(t, ok)
	assert.Equal(t, []float64{0.5}, n)

	array := Attr{Name: "flag_values", Value: []float64{1, 2, 3}}
	n, ok = array.Numbers()
	require.True(t, ok)
	assert.Len(t, n, 3)

	str := Attr{Name: "units", Value: "K"}
	_, ok = str.Numbers()
	assert.False(t, ok)
}

func TestIsCoordinate(t *testing.T) {
	coord := &Variable{Name: "lat", Dims: []string{"lat"}}
	assert.True(t, coord.IsCoordinate())

	aux := &Variable{Name: "lat2d", Dims: []string{"y", "x"}}
	assert.False(t, aux.IsCoordinate())

	scalar := &Variable{Name: "height"}
	assert.False(t, scalar.IsCoordinate())
}

func TestMemFile(t *testing.T) {
	f := NewMemFile("test.nc")
	f.SetAttr("Conventions", "CF-1.7")
	f.AddDim("time", 4)
	f.AddVar("time", TypeDouble, []string{"time"}, "units", "days since 2000-01-01")
	f.AddVar("tas", TypeFloat, []string{"time"}, "standard_name", "air_temperature")
	f.SetNumeric("time", []float64{0, 1, 2, 3})

	conv, ok := f.Attributes().Str("Conventions")
	require.True(t, ok)
	assert.Equal(t, "CF-1.7", conv)

	size, ok := f.DimensionSize("time")
	require.True(t, ok)
	assert.Equal(t, 4, size)

	v, ok := f.Variable("tas")
	require.True(t, ok)
	assert.Equal(t, 1, v.Rank())
	assert.True(t, v.HasDim("time"))

	names := make([]string, 0, 2)
	for _, vr := range f.Variables() {
		names = append(names, vr.Name)
	}
	assert.Equal(t, []string{"time", "tas"}, names)

	values, err := f.ReadNumeric("time")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, values)

	_, err = f.ReadStrings("tas")
	assert.Error(t, err)
}
