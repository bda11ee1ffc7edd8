// Package dataset exposes an opened scientific data file as named
// dimensions, variables and typed attributes. The checker borrows this
// data read-only; it never mutates a File.
package dataset

// DataType is the element type of a variable or numeric attribute.
type DataType int

// Element types, mirroring the classic NetCDF external types.
const (
	TypeChar DataType = iota
	TypeByte
	TypeShort
	TypeInt
	TypeFloat
	TypeDouble
)

// String returns the CDL name of the type.
func (t DataType) String() string {
	switch t {
	case TypeChar:
		return "char"
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the type holds numeric data.
// Byte is excluded, matching the convention's definition of numeric.
func (t DataType) IsNumeric() bool {
	return t == TypeShort || t == TypeInt || t == TypeFloat || t == TypeDouble
}

// Attr is a single attribute. Value is one of string, float64 or
// []float64; numeric attribute data is widened to float64 on read.
type Attr struct {
	Name  string
	Value any
}

// Str returns the attribute value as a string, if it is one.
func (a Attr) Str() (string, bool) {
	s, ok := a.Value.(string)
	return s, ok
}

// Numbers returns the attribute value as a numeric slice. A scalar
// numeric value is returned as a one-element slice.
func (a Attr) Numbers() ([]float64, bool) {
	switch v := a.Value.(type) {
	case float64:
		return []float64{v}, true
	case []float64:
		return v, true
	}
	return nil, false
}

// IsString reports whether the attribute holds character data.
func (a Attr) IsString() bool {
	_, ok := a.Value.(string)
	return ok
}

// AttrMap holds attributes in declaration order with indexed lookup.
type AttrMap struct {
	attrs []Attr
	index map[string]int
}

// NewAttrMap builds an AttrMap from attributes in declaration order.
func NewAttrMap(attrs ...Attr) *AttrMap {
	m := &AttrMap{index: make(map[string]int, len(attrs))}
	for _, a := range attrs {
		m.Set(a.Name, a.Value)
	}
	return m
}

// Set adds or replaces an attribute, keeping first-set order.
func (m *AttrMap) Set(name string, value any) {
	if i, ok := m.index[name]; ok {
		m.attrs[i].Value = value
		return
	}
	m.index[name] = len(m.attrs)
	m.attrs = append(m.attrs, Attr{Name: name, Value: value})
}

// Get returns the named attribute.
func (m *AttrMap) Get(name string) (Attr, bool) {
	if m == nil {
		return Attr{}, false
	}
	i, ok := m.index[name]
	if !ok {
		return Attr{}, false
	}
	return m.attrs[i], true
}

// Has reports whether the named attribute is present.
func (m *AttrMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Str returns the named attribute's string value, or "" if absent or
// not a string.
func (m *AttrMap) Str(name string) (string, bool) {
	a, ok := m.Get(name)
	if !ok {
		return "", false
	}
	return a.Str()
}

// Delete removes the named attribute if present.
func (m *AttrMap) Delete(name string) {
	i, ok := m.index[name]
	if !ok {
		return
	}
	m.attrs = append(m.attrs[:i], m.attrs[i+1:]...)
	delete(m.index, name)
	for j := i; j < len(m.attrs); j++ {
		m.index[m.attrs[j].Name] = j
	}
}

// Names returns attribute names in declaration order.
func (m *AttrMap) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.attrs))
	for i, a := range m.attrs {
		names[i] = a.Name
	}
	return names
}

// Len returns the number of attributes.
func (m *AttrMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.attrs)
}

// Dimension is a named axis with a size.
type Dimension struct {
	Name string
	Size int
}

// Variable describes one variable of a file.
type Variable struct {
	Name  string
	Dims  []string
	Type  DataType
	Attrs *AttrMap
}

// Rank returns the number of dimensions of the variable.
func (v *Variable) Rank() int { return len(v.Dims) }

// HasDim reports whether name is one of the variable's dimensions.
func (v *Variable) HasDim(name string) bool {
	for _, d := range v.Dims {
		if d == name {
			return true
		}
	}
	return false
}

// IsCoordinate reports whether the variable is a coordinate variable:
// one-dimensional with its sole dimension sharing its identifier.
func (v *Variable) IsCoordinate() bool {
	return len(v.Dims) == 1 && v.Dims[0] == v.Name
}
