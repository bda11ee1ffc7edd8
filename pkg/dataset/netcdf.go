package dataset

import (
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/cdf"
)

// netcdfFile adapts a classic-format NetCDF file to the File interface.
type netcdfFile struct {
	path  string
	f     *os.File
	nc    *cdf.File
	attrs *AttrMap
	dims  []Dimension
	dimSz map[string]int
	vars  []*Variable
	vIdx  map[string]int
}

// Open opens a classic-format NetCDF file for checking.
func Open(path string) (File, error) {
	osf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	nc, err := cdf.Open(osf)
	if err != nil {
		osf.Close()
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}

	nf := &netcdfFile{
		path:  path,
		f:     osf,
		nc:    nc,
		dimSz: make(map[string]int),
		vIdx:  make(map[string]int),
	}

	nf.attrs = readAttrs(nc, "")

	dimNames := nc.Header.Dimensions("")
	dimLens := nc.Header.Lengths("")
	for i, d := range dimNames {
		size := 0
		if i < len(dimLens) {
			size = dimLens[i]
		}
		nf.dims = append(nf.dims, Dimension{Name: d, Size: size})
		nf.dimSz[d] = size
	}

	for _, name := range nc.Header.Variables() {
		v := &Variable{
			Name:  name,
			Dims:  nc.Header.Dimensions(name),
			Type:  typeOf(nc, name),
			Attrs: readAttrs(nc, name),
		}
		nf.vIdx[name] = len(nf.vars)
		nf.vars = append(nf.vars, v)
	}
	return nf, nil
}

// readAttrs converts the attributes of variable v (global for "") into
// an AttrMap, widening numeric data to float64.
func readAttrs(nc *cdf.File, v string) *AttrMap {
	m := NewAttrMap()
	for _, name := range nc.Header.Attributes(v) {
		m.Set(name, convertValue(nc.Header.GetAttribute(v, name)))
	}
	return m
}

// convertValue maps a cdf attribute value to the dataset value model:
// string, scalar float64 or []float64.
func convertValue(val any) any {
	var nums []float64
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case []float64:
		nums = v
	case []float32:
		nums = make([]float64, len(v))
		for i, x := range v {
			nums[i] = float64(x)
		}
	case []int32:
		nums = make([]float64, len(v))
		for i, x := range v {
			nums[i] = float64(x)
		}
	case []int16:
		nums = make([]float64, len(v))
		for i, x := range v {
			nums[i] = float64(x)
		}
	case []int8:
		nums = make([]float64, len(v))
		for i, x := range v {
			nums[i] = float64(x)
		}
	default:
		return val
	}
	if len(nums) == 1 {
		return nums[0]
	}
	return nums
}

// typeOf determines the element type of a variable from the zero value
// the reader produces for it.
func typeOf(nc *cdf.File, v string) DataType {
	switch nc.Reader(v, nil, nil).Zero(1).(type) {
	case []int8:
		return TypeByte
	case []int16:
		return TypeShort
	case []int32:
		return TypeInt
	case []float32:
		return TypeFloat
	case []float64:
		return TypeDouble
	default:
		return TypeChar
	}
}

// Path implements File.
func (nf *netcdfFile) Path() string { return nf.path }

// Attributes implements File.
func (nf *netcdfFile) Attributes() *AttrMap { return nf.attrs }

// Dimensions implements File.
func (nf *netcdfFile) Dimensions() []Dimension { return nf.dims }

// DimensionSize implements File.
func (nf *netcdfFile) DimensionSize(name string) (int, bool) {
	sz, ok := nf.dimSz[name]
	return sz, ok
}

// Variables implements File.
func (nf *netcdfFile) Variables() []*Variable { return nf.vars }

// Variable implements File.
func (nf *netcdfFile) Variable(name string) (*Variable, bool) {
	i, ok := nf.vIdx[name]
	if !ok {
		return nil, false
	}
	return nf.vars[i], true
}

// ReadNumeric implements File.
func (nf *netcdfFile) ReadNumeric(name string) ([]float64, error) {
	v, ok := nf.Variable(name)
	if !ok {
		return nil, fmt.Errorf("dataset: no such variable %s", name)
	}
	if v.Type == TypeChar {
		return nil, fmt.Errorf("dataset: variable %s holds character data", name)
	}
	r := nf.nc.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("dataset: reading %s: %w", name, err)
	}
	switch data := buf.(type) {
	case []float64:
		return data, nil
	case []float32:
		out := make([]float64, len(data))
		for i, x := range data {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(data))
		for i, x := range data {
			out[i] = float64(x)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(data))
		for i, x := range data {
			out[i] = float64(x)
		}
		return out, nil
	case []int8:
		out := make([]float64, len(data))
		for i, x := range data {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("dataset: unsupported element type for %s", name)
}

// ReadStrings implements File. The trailing dimension is treated as the
// string length, as is conventional for char variables.
func (nf *netcdfFile) ReadStrings(name string) ([]string, error) {
	v, ok := nf.Variable(name)
	if !ok {
		return nil, fmt.Errorf("dataset: no such variable %s", name)
	}
	if v.Type != TypeChar {
		return nil, fmt.Errorf("dataset: variable %s is not character data", name)
	}
	r := nf.nc.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("dataset: reading %s: %w", name, err)
	}
	raw, ok := buf.([]byte)
	if !ok {
		return nil, fmt.Errorf("dataset: unexpected storage type %T for %s", buf, name)
	}
	strlen := 1
	if n := len(v.Dims); n > 0 {
		if sz, ok := nf.dimSz[v.Dims[n-1]]; ok && sz > 0 {
			strlen = sz
		}
	}
	var out []string
	for i := 0; i+strlen <= len(raw); i += strlen {
		s := strings.TrimRight(string(raw[i:i+strlen]), "\x00 ")
		out = append(out, s)
	}
	return out, nil
}

// Close implements File.
func (nf *netcdfFile) Close() error { return nf.f.Close() }
