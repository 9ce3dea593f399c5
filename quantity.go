package quantity

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"

	"github.com/govalues/decimal"
)

// ErrFormat is reported, wrapped with context, for any input that is not
// a valid resource string: stray characters, a sign, whitespace, an unknown
// unit suffix, a malformed exponent, or a numeric part that does not parse
// to a finite decimal.
var ErrFormat = errors.New("not a valid resource string")

// Quantity type represents a resource quantity: a decimal mantissa and
// a unit suffix, e.g. "500m", "1.5Gi", "10P".
// The zero value corresponds to "0".
// The mantissa is kept exactly as written in the source string, never
// pre-scaled by the unit multiplier.
// Quantity is designed to be safe for concurrent use by multiple goroutines.
type Quantity struct {
	value decimal.Decimal // mantissa, as written
	unit  Unit            // suffix
}

// NewQuantity returns a quantity with the given mantissa and unit.
func NewQuantity(mantissa decimal.Decimal, unit Unit) Quantity {
	return Quantity{value: mantissa, unit: unit}
}

// ParseQuantity converts a string to a quantity.
// The input must be a decimal number, optionally with a fractional part and
// an optional bare exponent ("e" followed by digits), immediately followed
// by an optional unit suffix:
//
//	500m
//	1.5Gi
//	1e3
//	128974848
//
// No sign, no whitespace, and no exponent sign are accepted, and the match
// must consume the entire input.
//
// ParseQuantity returns an error wrapping [ErrFormat] if the string does
// not represent a valid quantity.
func ParseQuantity(s string) (Quantity, error) {
	num, u, err := splitQuantity(s)
	if err != nil {
		return Quantity{}, err
	}
	d, err := decimal.Parse(num)
	if err != nil {
		// The grammar matched, but the numeric part is not representable
		// as a finite decimal, e.g. the integer part is too long.
		return Quantity{}, fmt.Errorf("parsing quantity %q: %w", s, ErrFormat)
	}
	return Quantity{value: d, unit: u}, nil
}

// MustParseQuantity is like [ParseQuantity] but panics if the string cannot
// be parsed. It simplifies safe initialization of global variables holding
// quantities.
func MustParseQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(fmt.Sprintf("ParseQuantity(%q) failed: %v", s, err))
	}
	return q
}

// splitQuantity scans the quantity grammar and splits the input into its
// numeric part and its unit. The scan is anchored at both ends: anything
// left over after the numeric part must be a known unit suffix.
func splitQuantity(s string) (string, Unit, error) {
	var pos int
	width := len(s)

	// Integer part
	for pos < width && isDigit(s[pos]) {
		pos++
	}
	if pos == 0 {
		return "", None, fmt.Errorf("parsing quantity %q: %w", s, ErrFormat)
	}

	// Fractional part
	if pos < width && s[pos] == '.' {
		pos++
		start := pos
		for pos < width && isDigit(s[pos]) {
			pos++
		}
		if pos == start {
			return "", None, fmt.Errorf("parsing quantity %q: %w", s, ErrFormat)
		}
	}

	// Bare exponent, digits only. A lone "e" is left to the suffix lookup,
	// which rejects it.
	if pos+1 < width && s[pos] == 'e' && isDigit(s[pos+1]) {
		pos += 2
		for pos < width && isDigit(s[pos]) {
			pos++
		}
	}

	// Unit suffix
	u, ok := unitLookup[s[pos:]]
	if !ok {
		return "", None, fmt.Errorf("parsing quantity %q: %w", s, ErrFormat)
	}
	return s[:pos], u, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Mantissa returns the decimal mantissa of the quantity, exactly as written
// in the source string.
func (q Quantity) Mantissa() decimal.Decimal {
	return q.value
}

// Unit returns the unit of the quantity.
func (q Quantity) Unit() Unit {
	return q.unit
}

// Sign returns:
//
//	-1 if q < 0
//	 0 if q = 0
//	+1 if q > 0
func (q Quantity) Sign() int {
	return q.value.Sign()
}

// IsZero returns:
//
//	true  if q = 0
//	false otherwise
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// Base returns the dimensionless base value of the quantity, that is,
// the mantissa multiplied by the unit's multiplier.
//
// The result is floating while the product stays within the safe integer
// range of a float64. Beyond that range, and for the units whose multiplier
// is arbitrary precision, the mantissa is combined with the multiplier in
// big-integer arithmetic: it is scaled up by a power of ten derived from its
// number of fractional digits, multiplied, and scaled back down, so that
// e.g. "1.5E" yields exactly 1500000000000000000. A multiplier below 1 is an
// exact negative power of ten and folds into the scale-down division, so a
// 19-digit milli quantity keeps its magnitude instead of collapsing to zero.
// A zero mantissa yields the floating value 0 regardless of unit.
func (q Quantity) Base() Value {
	if q.value.IsZero() {
		return Number(0)
	}
	m := q.unit.Mult()
	if m.IsBig() {
		return Value{i: mulBase(q.value, m.i)}
	}
	f, _ := q.value.Float64()
	c := f * m.f
	if math.Abs(c) <= maxSafeValue {
		return Number(c)
	}
	if n := subExp(q.unit); n > 0 {
		return Value{i: divBase(q.value, n)}
	}
	return Value{i: mulBase(q.value, truncBig(m.f))}
}

// ParseBase converts a string to the base value of the quantity it
// represents. It is shorthand for [ParseQuantity] followed by
// [Quantity.Base].
//
// ParseBase returns an error wrapping [ErrFormat] if the string does not
// represent a valid quantity.
func ParseBase(s string) (Value, error) {
	q, err := ParseQuantity(s)
	if err != nil {
		return Value{}, err
	}
	return q.Base(), nil
}

// Cmp numerically compares quantities and returns:
//
//	-1 if q < r
//	 0 if q = r
//	+1 if q > r
//
// Quantities with the same unit are compared by mantissa; otherwise both
// are reduced to their base values first, so "1Gi" equals "1024Mi" while
// "1Mi" exceeds "1M".
func (q Quantity) Cmp(r Quantity) int {
	if q.unit == r.unit {
		return q.value.Cmp(r.value)
	}
	return q.Base().Cmp(r.Base())
}

// CompareStrings parses both strings and numerically compares the
// quantities they represent.
// See also method [Quantity.Cmp].
//
// CompareStrings returns an error wrapping [ErrFormat] if either string
// does not represent a valid quantity.
func CompareStrings(a, b string) (int, error) {
	q, err := ParseQuantity(a)
	if err != nil {
		return 0, err
	}
	r, err := ParseQuantity(b)
	if err != nil {
		return 0, err
	}
	return q.Cmp(r), nil
}

// Min returns the numerically smaller quantity.
// See also method [Quantity.Max].
func (q Quantity) Min(r Quantity) Quantity {
	if q.Cmp(r) <= 0 {
		return q
	}
	return r
}

// Max returns the numerically larger quantity.
// See also method [Quantity.Min].
func (q Quantity) Max(r Quantity) Quantity {
	if q.Cmp(r) >= 0 {
		return q
	}
	return r
}

// String implements the [fmt.Stringer] interface and returns the canonical
// representation of the quantity: the mantissa with trailing zeros removed,
// followed by the unit suffix.
// See also method [Quantity.Text] for locale-aware rendering.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (q Quantity) String() string {
	return q.value.Trim(0).String() + q.unit.Suffix()
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseQuantity].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (q *Quantity) UnmarshalText(text []byte) error {
	var err error
	*q, err = ParseQuantity(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Quantity{}, err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
// See also method [Quantity.String].
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (q Quantity) AppendText(text []byte) ([]byte, error) {
	return append(text, q.String()...), nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// See also method [Quantity.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseQuantity].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (q *Quantity) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*q, err = ParseQuantity(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Quantity{}, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// MarshalJSON always returns a quoted canonical string, the form in which
// quantities appear in manifests.
// See also method [Quantity.String].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	s := q.String()
	text := make([]byte, 0, len(s)+2)
	text = append(text, '"')
	text = append(text, s...)
	text = append(text, '"')
	return text, nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (q *Quantity) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*q, err = ParseQuantity(value)
	case []byte:
		*q, err = ParseQuantity(string(value))
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Quantity{}, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (q Quantity) Value() (driver.Value, error) {
	return q.String(), nil
}
