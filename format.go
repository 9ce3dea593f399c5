package quantity

import (
	"github.com/govalues/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Options control how a quantity is rendered.
// The zero value requests the defaults: automatic unit selection, maximum
// fraction digits, no grouping separators, and the root locale.
type Options struct {
	// Unit forces scaling to the given unit in [FormatCPU] and
	// [FormatMemory] instead of automatic selection.
	Unit *Unit

	// MaxFractionDigits limits the number of digits rendered after the
	// decimal point. Zero or negative means no limit beyond the precision
	// of the mantissa itself, so no rounding takes place by default.
	MaxFractionDigits int

	// MinFractionDigits zero-pads the fractional part to the given number
	// of digits.
	MinFractionDigits int

	// Grouping inserts the locale's grouping separators into the integer
	// part. It is off by default.
	Grouping bool

	// Locale selects the locale of the built-in formatter.
	// The zero value is the root locale, which renders latin digits with
	// "." as the decimal separator.
	Locale language.Tag
}

// Formatter renders a decimal mantissa according to the given options.
// Implementations are expected to be locale-aware and must not round the
// mantissa unless the options ask for it.
// The built-in implementation, returned by [NewFormatter], delegates to
// [golang.org/x/text/message].
type Formatter interface {
	FormatDecimal(d decimal.Decimal, opts Options) string
}

// NewFormatter returns a [Formatter] for the given locale.
// The formatter renders with maximum precision and without grouping
// separators unless the options passed to FormatDecimal override that.
func NewFormatter(tag language.Tag) Formatter {
	return printerFormatter{p: message.NewPrinter(tag)}
}

type printerFormatter struct {
	p *message.Printer
}

func (f printerFormatter) FormatDecimal(d decimal.Decimal, opts Options) string {
	var v any
	if w, _, ok := d.Int64(0); ok && d.IsInt() {
		// Integral mantissas within int64 render digit-exact, with no
		// float64 round-trip in between.
		v = w
		d = decimal.MustNew(w, 0)
	} else {
		fv, _ := d.Float64()
		// Re-deriving the mantissa from the float pins the fraction digit
		// count to the shortest representation, so the renderer reproduces
		// the digits exactly instead of exposing binary conversion noise.
		if sd, err := decimal.NewFromFloat64(fv); err == nil {
			d = sd
		}
		v = fv
	}
	max := d.Scale()
	if 0 < opts.MaxFractionDigits && opts.MaxFractionDigits < max {
		max = opts.MaxFractionDigits
	}
	if max < opts.MinFractionDigits {
		max = opts.MinFractionDigits
	}
	o := []number.Option{
		number.MaxFractionDigits(max),
		number.MinFractionDigits(opts.MinFractionDigits),
	}
	if !opts.Grouping {
		o = append(o, number.NoSeparator())
	}
	return f.p.Sprint(number.Decimal(v, o...))
}

// Text renders the quantity using the built-in formatter for the locale in
// opts: the mantissa formatted per opts, followed by the unit suffix.
// See also methods [Quantity.TextWith] and [Quantity.String].
func (q Quantity) Text(opts Options) string {
	return q.TextWith(NewFormatter(opts.Locale), opts)
}

// TextWith is like [Quantity.Text] but renders the mantissa with the given
// formatter, which allows plugging in any number-formatting facility.
func (q Quantity) TextWith(f Formatter, opts Options) string {
	return f.FormatDecimal(q.value, opts) + q.unit.Suffix()
}
