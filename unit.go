package quantity

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Unit type represents a unit suffix of a resource quantity.
// The zero value is [None], which indicates the absence of a suffix and
// a multiplier of 1.
//
// Unit is implemented as an integer index into in-memory arrays that store
// the suffix and the multiplier of each unit.
// This design ensures safe concurrency for multiple goroutines accessing
// the same Unit value.
// The set of units is closed: decimal SI suffixes from [Micro] to [Exa]
// used for CPU quantities, binary suffixes from [Kibi] to [Exbi] used for
// memory quantities, and the byte suffix [Byte] with a multiplier of 1.
type Unit uint8

// Units, in no particular order.
// Within each family the declaration order is ascending by magnitude.
const (
	None  Unit = iota // ""
	Micro             // "u"
	Milli             // "m"
	Kilo              // "k"
	Mega              // "M"
	Giga              // "G"
	Tera              // "T"
	Peta              // "P"
	Exa               // "E"
	Byte              // "B"
	Kibi              // "Ki"
	Mebi              // "Mi"
	Gibi              // "Gi"
	Tebi              // "Ti"
	Pebi              // "Pi"
	Exbi              // "Ei"
)

var errInvalidUnit = errors.New("invalid unit")

// Multipliers of 10^18, 2^50, and 2^60 do not survive a round trip through
// the safe integer range of a float64, so these three units are the ones
// whose multipliers are kept as big integers at all times.
var (
	bigExa  = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	bigPebi = new(big.Int).Lsh(big.NewInt(1), 50)
	bigExbi = new(big.Int).Lsh(big.NewInt(1), 60)
)

var suffixLookup = [...]string{
	None:  "",
	Micro: "u",
	Milli: "m",
	Kilo:  "k",
	Mega:  "M",
	Giga:  "G",
	Tera:  "T",
	Peta:  "P",
	Exa:   "E",
	Byte:  "B",
	Kibi:  "Ki",
	Mebi:  "Mi",
	Gibi:  "Gi",
	Tebi:  "Ti",
	Pebi:  "Pi",
	Exbi:  "Ei",
}

// multLookup fixes the multiplier representation per unit:
// a unit is either always floating or always arbitrary precision,
// never one or the other per call.
var multLookup = [...]Value{
	None:  {f: 1},
	Micro: {f: 1e-6},
	Milli: {f: 1e-3},
	Kilo:  {f: 1e3},
	Mega:  {f: 1e6},
	Giga:  {f: 1e9},
	Tera:  {f: 1e12},
	Peta:  {f: 1e15},
	Exa:   {i: bigExa},
	Byte:  {f: 1},
	Kibi:  {f: 1 << 10},
	Mebi:  {f: 1 << 20},
	Gibi:  {f: 1 << 30},
	Tebi:  {f: 1 << 40},
	Pebi:  {i: bigPebi},
	Exbi:  {i: bigExbi},
}

// subExp returns n for the units whose multiplier is exactly 10^-n, and 0
// for every other unit. [Milli] and [Micro] are the only multipliers below 1;
// a scaled value that outgrows the safe float range under them must divide by
// 10^n rather than multiply by a truncated integer.
func subExp(u Unit) int {
	switch u {
	case Milli:
		return 3
	case Micro:
		return 6
	}
	return 0
}

var unitLookup = map[string]Unit{
	"":   None,
	"u":  Micro,
	"m":  Milli,
	"k":  Kilo,
	"M":  Mega,
	"G":  Giga,
	"T":  Tera,
	"P":  Peta,
	"E":  Exa,
	"B":  Byte,
	"Ki": Kibi,
	"Mi": Mebi,
	"Gi": Gibi,
	"Ti": Tebi,
	"Pi": Pebi,
	"Ei": Exbi,
}

// Unit families in descending order of magnitude, the order in which the
// scaler searches for the largest unit not exceeding a value.
var (
	cpuUnits = []Unit{Exa, Peta, Tera, Giga, Mega, Kilo, None, Milli, Micro}
	memUnits = []Unit{Exbi, Pebi, Tebi, Gibi, Mebi, Kibi, None}
)

// cpuSubOne is the index of Kilo in cpuUnits. CPU values below 1 start
// their unit search there, so sub-unit CPU quantities only ever land on
// "u", "m", or no suffix.
const cpuSubOne = 5

// ParseUnit converts a string to a unit.
// The input string must be one of the unit suffixes:
//
//	u m k M G T P E B Ki Mi Gi Ti Pi Ei
//
// or the empty string, which is [None].
//
// ParseUnit returns an error if the string does not represent a valid unit suffix.
func ParseUnit(u string) (Unit, error) {
	n, ok := unitLookup[u]
	if !ok {
		return None, errInvalidUnit
	}
	return n, nil
}

// MustParseUnit is like [ParseUnit] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding units.
func MustParseUnit(u string) Unit {
	n, err := ParseUnit(u)
	if err != nil {
		panic(fmt.Sprintf("ParseUnit(%q) failed: %v", u, err))
	}
	return n
}

// String method implements the [fmt.Stringer] interface and returns
// a string representation of the Unit value.
// See also method [Unit.Suffix].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (u Unit) String() string {
	return u.Suffix()
}

// Suffix returns the suffix appended to the mantissa when a quantity is
// rendered. The suffix of [None] is the empty string.
func (u Unit) Suffix() string {
	return suffixLookup[u]
}

// Mult returns the multiplier of the unit.
// The representation of the multiplier is fixed per unit: [Exa], [Pebi],
// and [Exbi] are arbitrary precision, all other units are floating.
func (u Unit) Mult() Value {
	return multLookup[u]
}

// IsBinary returns true for the power-of-1024 units [Kibi] through [Exbi].
func (u Unit) IsBinary() bool {
	return u >= Kibi && u <= Exbi
}

// CPUUnits returns the decimal SI unit family in ascending order of
// magnitude. These are the units the scaler considers for CPU quantities.
func CPUUnits() []Unit {
	return ascending(cpuUnits)
}

// MemoryUnits returns the binary unit family in ascending order of
// magnitude. These are the units the scaler considers for memory
// quantities. [Byte] is a valid suffix but is never selected
// automatically.
func MemoryUnits() []Unit {
	return ascending(memUnits)
}

func ascending(units []Unit) []Unit {
	r := make([]Unit, len(units))
	for i, u := range units {
		r[len(units)-i-1] = u
	}
	return r
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseUnit].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (u *Unit) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*u, err = ParseUnit(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", None, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// MarshalJSON always returns a quoted suffix.
// See also method [Unit.Suffix].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (u Unit) MarshalJSON() ([]byte, error) {
	text := make([]byte, 0, 4)
	text = append(text, '"')
	text = append(text, u.Suffix()...)
	text = append(text, '"')
	return text, nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// See also constructor [ParseUnit].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (u *Unit) UnmarshalText(text []byte) error {
	var err error
	*u, err = ParseUnit(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", None, err)
	}
	return err
}

// AppendText implements the [encoding.TextAppender] interface.
// See also method [Unit.Suffix].
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (u Unit) AppendText(text []byte) ([]byte, error) {
	return append(text, u.Suffix()...), nil
}

// MarshalText implements [encoding.TextMarshaler] interface.
// See also method [Unit.Suffix].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.Suffix()), nil
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
// See also constructor [ParseUnit].
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (u *Unit) UnmarshalBinary(text []byte) error {
	var err error
	*u, err = ParseUnit(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", None, err)
	}
	return err
}

// AppendBinary implements the [encoding.BinaryAppender] interface.
// See also method [Unit.Suffix].
//
// [encoding.BinaryAppender]: https://pkg.go.dev/encoding#BinaryAppender
func (u Unit) AppendBinary(data []byte) ([]byte, error) {
	return append(data, u.Suffix()...), nil
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
// See also method [Unit.Suffix].
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (u Unit) MarshalBinary() ([]byte, error) {
	return []byte(u.Suffix()), nil
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// See also constructor [ParseUnit].
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (u *Unit) UnmarshalBSONValue(typ byte, data []byte) error {
	// constants are from https://bsonspec.org/spec.html
	var err error
	switch typ {
	case 2:
		*u, err = parseBSONString(data)
	case 10:
		// null, do nothing
	default:
		err = fmt.Errorf("BSON type %d is not supported", typ)
	}
	if err != nil {
		err = fmt.Errorf("converting from BSON type %d to %T: %w", typ, None, err)
	}
	return err
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// MarshalBSONValue always returns a BSON string.
// See also method [Unit.Suffix].
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (u Unit) MarshalBSONValue() (typ byte, data []byte, err error) {
	return 2, u.bsonString(), nil
}

// parseBSONString parses a BSON string to a unit.
// The byte order of the input data must be little-endian.
func parseBSONString(data []byte) (Unit, error) {
	if len(data) < 4 {
		return None, fmt.Errorf("%w: invalid data length %v", errInvalidUnit, len(data))
	}
	d := uint32(data[0])
	d |= uint32(data[1]) << 8
	d |= uint32(data[2]) << 16
	d |= uint32(data[3]) << 24
	l := int(int32(d)) //nolint:gosec
	if l < 1 || len(data) < l+4 {
		return None, fmt.Errorf("%w: invalid string length %v", errInvalidUnit, l)
	}
	if data[l+4-1] != 0 {
		return None, fmt.Errorf("%w: invalid null terminator %v", errInvalidUnit, data[l+4-1])
	}
	s := string(data[4 : l+4-1])
	return ParseUnit(s)
}

// bsonString returns the BSON string representation of the unit.
// The byte order of the result is little-endian.
func (u Unit) bsonString() []byte {
	s := u.Suffix()
	l := len(s) + 1
	data := make([]byte, 4+l)
	data[0] = byte(l)
	data[1] = byte(l >> 8)
	data[2] = byte(l >> 16)
	data[3] = byte(l >> 24)
	copy(data[4:], s)
	data[4+l-1] = 0
	return data
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb       | Example | Description   |
//	| ---------- | ------- | ------------- |
//	| %c, %s, %v | Ki      | Unit          |
//	| %q         | "Ki"    | Quoted unit   |
//
// The '-' format flag can be used with all verbs.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (u Unit) Format(state fmt.State, verb rune) {
	// A suffix is at most two bytes, so the padded text is built directly.
	text := u.Suffix()
	if verb == 'q' || verb == 'Q' {
		text = `"` + text + `"`
	}
	if w, ok := state.Width(); ok && w > len(text) {
		pad := strings.Repeat(" ", w-len(text))
		if state.Flag('-') {
			text += pad
		} else {
			text = pad + text
		}
	}

	//nolint:errcheck
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V', 'c', 'C':
		state.Write([]byte(text))
	default:
		fmt.Fprintf(state, "%%!%c(quantity.Unit=%s)", verb, text)
	}
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (u *Unit) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*u, err = ParseUnit(value)
	case []byte:
		*u, err = ParseUnit(string(value))
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", None, NullUnit{}, None)
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, None, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (u Unit) Value() (driver.Value, error) {
	return u.Suffix(), nil
}

// NullUnit represents a unit that can be null.
// Its zero value is null.
// NullUnit is not thread-safe.
type NullUnit struct {
	Unit  Unit
	Valid bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Unit.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullUnit) Scan(value any) error {
	if value == nil {
		n.Unit = None
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Unit.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// See also method [Unit.Value].
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullUnit) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Unit.Value()
}
