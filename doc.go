/*
Package quantity parses, converts, compares, and formats resource-quantity
strings of the form container-orchestration manifests use for CPU and memory,
such as "500m", "1.5Gi", and "10P".
It leverages the [decimal] package for exact decimal mantissas and switches
to arbitrary-precision integers exactly when magnitude or precision would
otherwise be lost.

# Representation

A [Quantity] consists of a decimal mantissa, kept exactly as written, and a
[Unit]. The Unit is an integer index into in-memory arrays holding the suffix
and multiplier of each member of a closed set: the decimal SI family used for
CPU ("u", "m", "k", "", "M", "G", "T", "P", "E") and the binary family used
for memory ("", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei"), plus the byte suffix "B"
with a multiplier of 1.

A [Value] is the dimensionless base form of a quantity: the mantissa
multiplied out by its unit. It holds either a float64 or a [math/big.Int].
Multiplying a mantissa by a large multiplier promotes the result to the
big-integer representation through a power-of-ten correction derived from the
mantissa's fractional digits, so "1.5E" scales to exactly 1500000000000000000
rather than a rounded float conversion.

All three types are immutable values, safe for concurrent use by multiple
goroutines. Every operation is a pure function of its inputs.

# Operations

[ParseQuantity] converts a string to a Quantity, [Quantity.Base] reduces it
to a Value, and [ScaleCPU], [ScaleMemory], and [ScaleTo] go the other way,
selecting the largest unit whose multiplier does not exceed the value unless
a unit is given explicitly. [Quantity.Cmp] orders quantities numerically
across units, so "1Gi" equals "1024Mi" but not "1073M". [Value.Add]
accumulates base values without precision loss.

# Formatting

[FormatCPU], [FormatMemory], and [Quantity.Text] render quantities through a
pluggable [Formatter]. The built-in formatter delegates to
[golang.org/x/text/message] and is configured for maximum fraction digits and
no grouping separators unless [Options] override them, so formatting never
silently rounds a mantissa.

# Errors

The only failure mode of parsing is [ErrFormat], reported for any input that
does not match the quantity grammar. Functions composing the parser, such as
[CompareStrings] and [ParseBase], propagate it unchanged. Scaling functions
return an error only when a mantissa cannot be represented in the requested
unit.

[decimal]: https://pkg.go.dev/github.com/govalues/decimal
*/
package quantity
