// Package units parses unit strings into SI dimension vectors and
// answers equivalence and axis-classification queries about them.
// Dimension arithmetic is delegated to github.com/ctessum/unit; this
// package contributes the parser for the textual unit grammar used by
// CF attribute values (products, quotients, integer exponents and
// reference-time "since" clauses).
package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ctessum/unit"
)

// Unit is a parsed unit string.
type Unit struct {
	dims unit.Dimensions
	// scale relative to the coherent SI unit; kept so callers can tell
	// e.g. hPa from Pa even though they share dimensions.
	scale float64
	// reftime marks units of the form "<time unit> since <timestamp>".
	reftime bool
	// original spelling, used by the axis predicates.
	text string
}

// Dimensions returns the SI dimension vector of the unit.
func (u *Unit) Dimensions() unit.Dimensions { return u.dims }

// Scale returns the multiplier relative to the coherent SI unit.
func (u *Unit) Scale() float64 { return u.scale }

// String returns the original unit spelling.
func (u *Unit) String() string { return u.text }

// Equivalent reports whether two units measure the same physical
// dimension, regardless of scale.
func Equivalent(a, b *Unit) bool {
	if a == nil || b == nil {
		return false
	}
	return a.dims.Matches(b.dims)
}

// IsTime reports whether the unit is a plain duration.
func (u *Unit) IsTime() bool {
	return !u.reftime && len(u.dims) == 1 && u.dims[unit.TimeDim] == 1
}

// IsReftime reports whether the unit is a reference time
// ("<unit> since <timestamp>").
func (u *Unit) IsReftime() bool { return u.reftime }

// IsPressure reports whether the unit has the dimensions of pressure.
func (u *Unit) IsPressure() bool {
	return u.dims.Matches(unit.Dimensions{
		unit.MassDim:   1,
		unit.LengthDim: -1,
		unit.TimeDim:   -2,
	})
}

// IsLongitude reports whether the unit is one of the east-degree
// spellings the convention designates for longitude axes.
func (u *Unit) IsLongitude() bool {
	switch u.text {
	case "degrees_east", "degree_east", "degrees_E", "degree_E", "degreesE", "degreeE":
		return true
	}
	return false
}

// IsLatitude reports whether the unit is one of the north-degree
// spellings the convention designates for latitude axes.
func (u *Unit) IsLatitude() bool {
	switch u.text {
	case "degrees_north", "degree_north", "degrees_N", "degree_N", "degreesN", "degreeN":
		return true
	}
	return false
}

// baseUnit is one resolvable unit symbol.
type baseUnit struct {
	dims  unit.Dimensions
	scale float64
}

func dim(pairs ...any) unit.Dimensions {
	d := unit.Dimensions{}
	for i := 0; i+1 < len(pairs); i += 2 {
		d[pairs[i].(unit.Dimension)] = pairs[i+1].(int)
	}
	return d
}

var pressure = dim(unit.MassDim, 1, unit.LengthDim, -1, unit.TimeDim, -2)

// symbols maps unit spellings to their SI decomposition. Only the
// vocabulary needed for CF canonical units is covered.
var symbols = map[string]baseUnit{
	"m":      {dim(unit.LengthDim, 1), 1},
	"meter":  {dim(unit.LengthDim, 1), 1},
	"metre":  {dim(unit.LengthDim, 1), 1},
	"meters": {dim(unit.LengthDim, 1), 1},
	"metres": {dim(unit.LengthDim, 1), 1},

	"g":        {dim(unit.MassDim, 1), 1e-3},
	"gram":     {dim(unit.MassDim, 1), 1e-3},
	"kg":       {dim(unit.MassDim, 1), 1},
	"kilogram": {dim(unit.MassDim, 1), 1},

	"s":       {dim(unit.TimeDim, 1), 1},
	"sec":     {dim(unit.TimeDim, 1), 1},
	"second":  {dim(unit.TimeDim, 1), 1},
	"seconds": {dim(unit.TimeDim, 1), 1},
	"min":     {dim(unit.TimeDim, 1), 60},
	"minute":  {dim(unit.TimeDim, 1), 60},
	"minutes": {dim(unit.TimeDim, 1), 60},
	"h":       {dim(unit.TimeDim, 1), 3600},
	"hr":      {dim(unit.TimeDim, 1), 3600},
	"hour":    {dim(unit.TimeDim, 1), 3600},
	"hours":   {dim(unit.TimeDim, 1), 3600},
	"day":     {dim(unit.TimeDim, 1), 86400},
	"days":    {dim(unit.TimeDim, 1), 86400},
	"month":   {dim(unit.TimeDim, 1), 3.15569259747e7 / 12},
	"months":  {dim(unit.TimeDim, 1), 3.15569259747e7 / 12},
	"year":    {dim(unit.TimeDim, 1), 3.15569259747e7},
	"years":   {dim(unit.TimeDim, 1), 3.15569259747e7},

	"K":       {dim(unit.TemperatureDim, 1), 1},
	"Kelvin":  {dim(unit.TemperatureDim, 1), 1},
	"kelvin":  {dim(unit.TemperatureDim, 1), 1},
	"Celsius": {dim(unit.TemperatureDim, 1), 1},
	"degC":    {dim(unit.TemperatureDim, 1), 1},

	"A":  {dim(unit.CurrentDim, 1), 1},
	"cd": {dim(unit.LuminousIntensityDim, 1), 1},

	"Pa":     {pressure, 1},
	"pascal": {pressure, 1},
	"bar":    {pressure, 1e5},
	"mbar":   {pressure, 100},
	"atm":    {pressure, 101325},

	"N": {dim(unit.MassDim, 1, unit.LengthDim, 1, unit.TimeDim, -2), 1},
	"J": {dim(unit.MassDim, 1, unit.LengthDim, 2, unit.TimeDim, -2), 1},
	"W": {dim(unit.MassDim, 1, unit.LengthDim, 2, unit.TimeDim, -3), 1},

	"Hz": {dim(unit.TimeDim, -1), 1},

	"rad":    {dim(unit.AngleDim, 1), 1},
	"radian": {dim(unit.AngleDim, 1), 1},
	"degree": {dim(unit.AngleDim, 1), 0.0174532925199433},

	"sr": {unit.Dimensions{}, 1},

	// dimensionless spellings
	"1":           {unit.Dimensions{}, 1},
	"%":           {unit.Dimensions{}, 0.01},
	"percent":     {unit.Dimensions{}, 0.01},
	"ppm":         {unit.Dimensions{}, 1e-6},
	"ppb":         {unit.Dimensions{}, 1e-9},
	"level":       {unit.Dimensions{}, 1},
	"layer":       {unit.Dimensions{}, 1},
	"sigma_level": {unit.Dimensions{}, 1},
	"dBZ":         {unit.Dimensions{}, 1},
	"DU":          {unit.Dimensions{}, 1},
	"psu":         {unit.Dimensions{}, 1},
}

// prefixes maps SI prefixes to their multipliers.
var prefixes = map[string]float64{
	"Y": 1e24, "Z": 1e21, "E": 1e18, "P": 1e15, "T": 1e12,
	"G": 1e9, "M": 1e6, "k": 1e3, "h": 1e2, "da": 1e1,
	"d": 1e-1, "c": 1e-2, "m": 1e-3, "u": 1e-6, "n": 1e-9,
	"p": 1e-12, "f": 1e-15, "a": 1e-18, "z": 1e-21, "y": 1e-24,
}

// degreeSpellings are the axis-degree variants, all angle-dimensioned.
var degreeSpellings = map[string]bool{
	"degrees": true, "degrees_north": true, "degree_north": true,
	"degrees_N": true, "degree_N": true, "degreesN": true, "degreeN": true,
	"degrees_east": true, "degree_east": true,
	"degrees_E": true, "degree_E": true, "degreesE": true, "degreeE": true,
}

// Parse parses a unit string. An empty string parses as dimensionless.
func Parse(s string) (*Unit, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return &Unit{dims: unit.Dimensions{}, scale: 1, text: orig}, nil
	}

	// Reference time: "<unit> since <timestamp>". The timestamp itself
	// is not interpreted here.
	if i := strings.Index(s, " since "); i >= 0 {
		head, err := Parse(s[:i])
		if err != nil {
			return nil, err
		}
		if !head.IsTime() {
			return nil, fmt.Errorf("units: %q: 'since' requires a time unit", orig)
		}
		return &Unit{dims: head.dims, scale: head.scale, reftime: true, text: orig}, nil
	}

	p := &parser{input: s}
	u, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("units: %q: %w", orig, err)
	}
	u.text = orig
	return u, nil
}

// MustParse parses a unit string, panicking on failure. For use with
// known-good literals only.
func MustParse(s string) *Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// parser scans a unit expression: factors separated by blanks, '.' or
// '*', with at most one '/' introducing the divisor.
type parser struct {
	input string
	pos   int
}

func (p *parser) parse() (*Unit, error) {
	u := &Unit{dims: unit.Dimensions{}, scale: 1}
	invert := false
	for {
		p.skipSeparators()
		if p.pos >= len(p.input) {
			break
		}
		if p.input[p.pos] == '/' {
			if invert {
				return nil, fmt.Errorf("multiple '/' operators")
			}
			invert = true
			p.pos++
			continue
		}
		sym, exp, err := p.readFactor()
		if err != nil {
			return nil, err
		}
		if invert {
			exp = -exp
		}
		if err := u.apply(sym, exp); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (p *parser) skipSeparators() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '.', '*':
			p.pos++
		default:
			return
		}
	}
}

// readFactor reads one symbol with an optional integer exponent, given
// either attached ("m2", "s-1") or after a caret ("m^2").
func (p *parser) readFactor() (string, int, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if isSymbolChar(c) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", 0, fmt.Errorf("unexpected character %q", p.input[p.pos])
	}
	sym := p.input[start:p.pos]

	// Trailing digits (with optional sign) spliced onto the symbol are
	// an exponent, e.g. "m2", "s-1".
	exp := 1
	base := strings.TrimRight(sym, "0123456789")
	if base != sym && base != "" {
		tail := sym[len(base):]
		neg := strings.HasSuffix(base, "-")
		if neg {
			base = base[:len(base)-1]
			tail = "-" + tail
		}
		if n, err := strconv.Atoi(tail); err == nil && base != "" {
			sym, exp = base, n
		}
	}

	if p.pos < len(p.input) && p.input[p.pos] == '^' {
		p.pos++
		s := p.pos
		if p.pos < len(p.input) && (p.input[p.pos] == '-' || p.input[p.pos] == '+') {
			p.pos++
		}
		for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.input[s:p.pos])
		if err != nil {
			return "", 0, fmt.Errorf("bad exponent after ^")
		}
		exp = n
	}
	return sym, exp, nil
}

func isSymbolChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '%' || c == '-' || c == '+'
}

// apply folds one symbol^exp factor into the unit.
func (u *Unit) apply(sym string, exp int) error {
	b, ok := resolve(sym)
	if !ok {
		return fmt.Errorf("unknown unit %q", sym)
	}
	for d, n := range b.dims {
		u.dims[d] += n * exp
		if u.dims[d] == 0 {
			delete(u.dims, d)
		}
	}
	for i := 0; i < exp; i++ {
		u.scale *= b.scale
	}
	for i := 0; i > exp; i-- {
		u.scale /= b.scale
	}
	return nil
}

// resolve looks a symbol up directly, as a degree spelling, or as an
// SI-prefixed form of a known symbol.
func resolve(sym string) (baseUnit, bool) {
	if b, ok := symbols[sym]; ok {
		return b, true
	}
	if degreeSpellings[sym] {
		return baseUnit{dim(unit.AngleDim, 1), 0.0174532925199433}, true
	}
	for pre, mult := range prefixes {
		if strings.HasPrefix(sym, pre) && len(sym) > len(pre) {
			if b, ok := symbols[sym[len(pre):]]; ok {
				return baseUnit{b.dims, b.scale * mult}, true
			}
		}
	}
	return baseUnit{}, false
}
