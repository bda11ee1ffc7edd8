package dataset

import "fmt"

// File is an opened data file. Implementations must present dimensions
// and variables in declaration order so checker output is reproducible.
type File interface {
	// Path returns the location the file was opened from.
	Path() string

	// Attributes returns the global attributes.
	Attributes() *AttrMap

	// Dimensions returns all dimensions in declaration order.
	Dimensions() []Dimension

	// DimensionSize returns the size of the named dimension.
	DimensionSize(name string) (int, bool)

	// Variables returns all variables in declaration order.
	Variables() []*Variable

	// Variable returns the named variable.
	Variable(name string) (*Variable, bool)

	// ReadNumeric reads a numeric variable's stored values, widened to
	// float64.
	ReadNumeric(name string) ([]float64, error)

	// ReadStrings reads a char variable's values as strings, one per
	// row of the trailing string-length dimension.
	ReadStrings(name string) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}

// MemFile is an in-memory File, used in tests and anywhere a file needs
// to be assembled programmatically.
type MemFile struct {
	name    string
	attrs   *AttrMap
	dims    []Dimension
	dimIdx  map[string]int
	vars    []*Variable
	varIdx  map[string]int
	numeric map[string][]float64
	strings map[string][]string
}

// NewMemFile creates an empty in-memory file.
func NewMemFile(name string) *MemFile {
	return &MemFile{
		name:    name,
		attrs:   NewAttrMap(),
		dimIdx:  make(map[string]int),
		varIdx:  make(map[string]int),
		numeric: make(map[string][]float64),
		strings: make(map[string][]string),
	}
}

// SetAttr sets a global attribute.
func (f *MemFile) SetAttr(name string, value any) *MemFile {
	f.attrs.Set(name, value)
	return f
}

// AddDim declares a dimension.
func (f *MemFile) AddDim(name string, size int) *MemFile {
	if _, ok := f.dimIdx[name]; !ok {
		f.dimIdx[name] = len(f.dims)
		f.dims = append(f.dims, Dimension{Name: name, Size: size})
	}
	return f
}

// AddVar declares a variable. Attributes are given as alternating
// name/value pairs.
func (f *MemFile) AddVar(name string, typ DataType, dims []string, attrPairs ...any) *Variable {
	attrs := NewAttrMap()
	for i := 0; i+1 < len(attrPairs); i += 2 {
		attrs.Set(attrPairs[i].(string), attrPairs[i+1])
	}
	v := &Variable{Name: name, Dims: dims, Type: typ, Attrs: attrs}
	f.varIdx[name] = len(f.vars)
	f.vars = append(f.vars, v)
	return v
}

// SetNumeric stores values for a numeric variable.
func (f *MemFile) SetNumeric(name string, values []float64) *MemFile {
	f.numeric[name] = values
	return f
}

// SetStrings stores values for a char variable.
func (f *MemFile) SetStrings(name string, values []string) *MemFile {
	f.strings[name] = values
	return f
}

// Path implements File.
func (f *MemFile) Path() string { return f.name }

// Attributes implements File.
func (f *MemFile) Attributes() *AttrMap { return f.attrs }

// Dimensions implements File.
func (f *MemFile) Dimensions() []Dimension { return f.dims }

// DimensionSize implements File.
func (f *MemFile) DimensionSize(name string) (int, bool) {
	i, ok := f.dimIdx[name]
	if !ok {
		return 0, false
	}
	return f.dims[i].Size, true
}

// Variables implements File.
func (f *MemFile) Variables() []*Variable { return f.vars }

// Variable implements File.
func (f *MemFile) Variable(name string) (*Variable, bool) {
	i, ok := f.varIdx[name]
	if !ok {
		return nil, false
	}
	return f.vars[i], true
}

// ReadNumeric implements File.
func (f *MemFile) ReadNumeric(name string) ([]float64, error) {
	v, ok := f.numeric[name]
	if !ok {
		return nil, fmt.Errorf("dataset: no numeric data for variable %s", name)
	}
	return v, nil
}

// ReadStrings implements File.
func (f *MemFile) ReadStrings(name string) ([]string, error) {
	v, ok := f.strings[name]
	if !ok {
		return nil, fmt.Errorf("dataset: no string data for variable %s", name)
	}
	return v, nil
}

// Close implements File.
func (f *MemFile) Close() error { return nil }
