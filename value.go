package quantity

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// maxSafeValue is the largest integer magnitude that a float64 represents
// exactly (2^53 - 1). Scaled values above it are promoted to arbitrary
// precision.
const maxSafeValue = 1<<53 - 1

// Value represents the dimensionless base form of a quantity, that is,
// a mantissa multiplied out by its unit.
// A Value holds either a float64 or an arbitrary-precision integer.
// The floating representation is used while the value fits in the safe
// integer range of a float64; beyond that, or whenever a unit with an
// arbitrary-precision multiplier is involved, the value is kept as a
// [big.Int] so that no significant digits are lost.
//
// The zero value is the floating number 0.
// Value is designed to be safe for concurrent use by multiple goroutines.
type Value struct {
	f float64
	i *big.Int // non-nil means arbitrary precision
}

// Number returns a floating value.
// See also constructor [Big].
func Number(f float64) Value {
	return Value{f: f}
}

// Big returns an arbitrary-precision value.
// The argument is copied, so later mutation of i does not affect the result.
// See also constructor [Number].
func Big(i *big.Int) Value {
	return Value{i: new(big.Int).Set(i)}
}

// IsBig returns true if the value is held in the arbitrary-precision
// representation.
func (v Value) IsBig() bool {
	return v.i != nil
}

// Float64 returns the value as a float64.
// An arbitrary-precision value is narrowed to the nearest float64,
// which may lose precision above 2^53.
// See also method [Value.BigInt].
func (v Value) Float64() float64 {
	if v.i != nil {
		f, _ := new(big.Float).SetInt(v.i).Float64()
		return f
	}
	return v.f
}

// BigInt returns the value as a big integer, truncating a floating value
// toward zero.
// The result is a copy and may be mutated freely.
// See also method [Value.Float64].
func (v Value) BigInt() *big.Int {
	if v.i != nil {
		return new(big.Int).Set(v.i)
	}
	return truncBig(v.f)
}

// Sign returns:
//
//	-1 if v < 0
//	 0 if v = 0
//	+1 if v > 0
func (v Value) Sign() int {
	if v.i != nil {
		return v.i.Sign()
	}
	switch {
	case v.f < 0:
		return -1
	case v.f > 0:
		return 1
	}
	return 0
}

// IsZero returns:
//
//	true  if v = 0
//	false otherwise
func (v Value) IsZero() bool {
	return v.Sign() == 0
}

// Cmp compares values and returns:
//
//	-1 if v < w
//	 0 if v = w
//	+1 if v > w
//
// If either operand is arbitrary precision, both are compared as big
// integers, truncating the floating operand toward zero.
func (v Value) Cmp(w Value) int {
	if v.i == nil && w.i == nil {
		switch {
		case v.f < w.f:
			return -1
		case v.f > w.f:
			return 1
		}
		return 0
	}
	return v.BigInt().Cmp(w.BigInt())
}

// Add returns the sum of values v and w.
// The sum is arbitrary precision if either operand is, so accumulating
// base values across many quantities does not lose precision once one of
// them has been promoted.
func (v Value) Add(w Value) Value {
	if v.i == nil && w.i == nil {
		return Number(v.f + w.f)
	}
	i := v.BigInt()
	return Value{i: i.Add(i, w.BigInt())}
}

// String implements the [fmt.Stringer] interface and returns the plain
// base-10 representation of the value.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (v Value) String() string {
	if v.i != nil {
		return v.i.String()
	}
	return strconv.FormatFloat(v.f, 'f', -1, 64)
}

// mulBase multiplies mantissa d by the integer multiplier mult without losing
// the fractional digits of d: the mantissa is scaled up by 10^s, where s is
// its number of digits after the decimal point, multiplied as an integer, and
// the excess scale is divided back out, truncating toward zero.
// This is the promotion path shared by every unit whose multiplier is (or has
// become) arbitrary precision.
func mulBase(d decimal.Decimal, mult *big.Int) *big.Int {
	s := d.Scale()
	coef := coefBig(d)
	coef.Mul(coef, mult)
	if s > 0 {
		coef.Quo(coef, pow10Big(s))
	}
	return coef
}

// divBase divides mantissa d by 10^n in big-integer arithmetic, truncating
// toward zero. This is the promotion path for the sub-unit multipliers: they
// are exact negative powers of ten, so they fold into the division scale,
// whereas converting them to an integer would truncate them to zero.
func divBase(d decimal.Decimal, n int) *big.Int {
	coef := coefBig(d)
	return coef.Quo(coef, pow10Big(d.Scale()+n))
}

// coefBig returns d * 10^d.Scale() as a big integer.
func coefBig(d decimal.Decimal) *big.Int {
	s := strings.Replace(d.String(), ".", "", 1)
	i, _ := new(big.Int).SetString(s, 10)
	return i
}

// pow10Big returns 10^n as a big integer.
func pow10Big(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// truncBig converts a finite float to a big integer, truncating toward zero.
func truncBig(f float64) *big.Int {
	i, _ := big.NewFloat(f).Int(nil)
	return i
}
