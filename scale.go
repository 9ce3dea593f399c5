package quantity

import (
	"fmt"

	"github.com/govalues/decimal"
)

// ScaleTo returns the quantity obtained by expressing base value v in the
// given unit. The base value is divided by the unit's multiplier: in
// floating arithmetic while both are floating, in big-integer arithmetic
// (truncating toward zero) when either is arbitrary precision. A floating
// operand entering big-integer division is truncated toward zero first.
//
// ScaleTo returns an error if the resulting mantissa cannot be represented
// as a decimal, e.g. when a very large base value is forced into a very
// small unit.
func ScaleTo(v Value, u Unit) (Quantity, error) {
	m := u.Mult()
	var f float64
	if v.IsBig() || m.IsBig() {
		b := m.BigInt()
		if b.Sign() == 0 {
			// Sub-unit multipliers truncate to zero and cannot divide an
			// arbitrary-precision value.
			return Quantity{}, fmt.Errorf("scaling %v to unit %q: multiplier truncates to zero", v, u)
		}
		i := v.BigInt()
		f = Value{i: i.Quo(i, b)}.Float64()
	} else {
		f = v.f / m.f
	}
	d, err := decimal.NewFromFloat64(f)
	if err != nil {
		return Quantity{}, fmt.Errorf("scaling %v to unit %q: %w", v, u, err)
	}
	return Quantity{value: d.Trim(0), unit: u}, nil
}

// ScaleCPU returns the quantity obtained by expressing base value v in the
// largest decimal SI unit whose multiplier does not exceed it, so that
// 0.5 becomes "500m" and 2000000 becomes "2M".
//
// A zero value short-circuits to no unit. A value below 1 restricts the
// unit search to start at [Kilo], so sub-unit CPU quantities only ever
// land on "u", "m", or no suffix.
// See also functions [ScaleMemory] and [ScaleTo].
func ScaleCPU(v Value) (Quantity, error) {
	if v.IsZero() {
		return ScaleTo(v, None)
	}
	units := cpuUnits
	if v.Cmp(Number(1)) < 0 {
		units = units[cpuSubOne:]
	}
	return autoScale(v, units)
}

// ScaleMemory returns the quantity obtained by expressing base value v in
// the largest binary unit whose multiplier does not exceed it, so that
// 1024 becomes "1Ki". Values below 1024, including zero, fall through to
// no unit.
// See also functions [ScaleCPU] and [ScaleTo].
func ScaleMemory(v Value) (Quantity, error) {
	return autoScale(v, memUnits)
}

// autoScale searches units, ordered from largest to smallest, for the first
// whose multiplier does not exceed v, and falls back to the smallest unit.
// The comparison truncates toward zero (see [Value.Cmp]), so a value just
// below a unit threshold does not round up into that unit; the division in
// [ScaleTo] then uses the untruncated value.
func autoScale(v Value, units []Unit) (Quantity, error) {
	for _, u := range units {
		if v.Cmp(u.Mult()) >= 0 {
			return ScaleTo(v, u)
		}
	}
	return ScaleTo(v, units[len(units)-1])
}

// FormatCPU renders base value v as a CPU quantity string.
// The unit is selected automatically as in [ScaleCPU] unless opts.Unit
// forces one; the mantissa is rendered as in [Quantity.Text].
//
// FormatCPU returns an error if the mantissa cannot be represented in the
// requested unit.
func FormatCPU(v Value, opts Options) (string, error) {
	return formatValue(v, opts, ScaleCPU)
}

// FormatMemory renders base value v as a memory quantity string.
// The unit is selected automatically as in [ScaleMemory] unless opts.Unit
// forces one; the mantissa is rendered as in [Quantity.Text].
//
// FormatMemory returns an error if the mantissa cannot be represented in
// the requested unit.
func FormatMemory(v Value, opts Options) (string, error) {
	return formatValue(v, opts, ScaleMemory)
}

func formatValue(v Value, opts Options, auto func(Value) (Quantity, error)) (string, error) {
	var q Quantity
	var err error
	if opts.Unit != nil {
		q, err = ScaleTo(v, *opts.Unit)
	} else {
		q, err = auto(v)
	}
	if err != nil {
		return "", err
	}
	return q.Text(opts), nil
}

// AddBases parses both strings and sums their base values without losing
// precision: the sum is arbitrary precision as soon as either operand is.
// See also method [Value.Add].
//
// AddBases returns an error wrapping [ErrFormat] if either string does not
// represent a valid quantity.
func AddBases(a, b string) (Value, error) {
	v, err := ParseBase(a)
	if err != nil {
		return Value{}, err
	}
	w, err := ParseBase(b)
	if err != nil {
		return Value{}, err
	}
	return v.Add(w), nil
}

// Sum accumulates the base values of the given quantities.
// The result is arbitrary precision as soon as any addend is, so exbi-scale
// memory totals stay exact.
func Sum(qs ...Quantity) Value {
	var total Value
	for _, q := range qs {
		total = total.Add(q.Base())
	}
	return total
}
