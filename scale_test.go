package quantity

import (
	"errors"
	"math/big"
	"testing"

	"golang.org/x/text/language"
)

func TestScaleTo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			v    Value
			unit Unit
			want string
		}{
			{Number(0.5), Milli, "500m"},
			{Number(2048), Kibi, "2Ki"},
			{Number(1024), Mebi, "0.0009765625Mi"},
			{Number(1500), Kilo, "1.5k"},
			{Number(0), Gibi, "0Gi"},
			{Big(big.NewInt(10_000_000_000_000_000)), Peta, "10P"},
			{Big(big.NewInt(0).Lsh(big.NewInt(3), 60)), Exbi, "3Ei"},
			// Truncation toward zero in big-integer division
			{Big(big.NewInt(1_500_000_000_000_000_000)), Exa, "1E"},
			{Number(0.5), Exa, "0E"},
		}
		for _, tt := range tests {
			got, err := ScaleTo(tt.v, tt.unit)
			if err != nil {
				t.Errorf("ScaleTo(%v, %v) failed: %v", tt.v, tt.unit, err)
				continue
			}
			if got.String() != tt.want {
				t.Errorf("ScaleTo(%v, %v) = %q, want %q", tt.v, tt.unit, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			v    Value
			unit Unit
		}{
			// Sub-unit multiplier truncates to zero
			{Big(big.NewInt(0).Lsh(big.NewInt(1), 60)), Milli},
			{Big(big.NewInt(0).Lsh(big.NewInt(1), 60)), Micro},
			// Mantissa overflows decimal precision
			{Big(big.NewInt(0).Exp(big.NewInt(10), big.NewInt(30), nil)), None},
		}
		for _, tt := range tests {
			_, err := ScaleTo(tt.v, tt.unit)
			if err == nil {
				t.Errorf("ScaleTo(%v, %v) did not fail", tt.v, tt.unit)
			}
		}
	})
}

func TestScaleCPU(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Number(0), "0"},
		{Number(0.5), "500m"},
		{Number(0.0005), "500u"},
		{Number(1), "1"},
		{Number(1.5), "1.5"},
		{Number(1500), "1.5k"},
		{Number(2000000), "2M"},
		{Number(3_500_000_000), "3.5G"},
		{Number(4e12), "4T"},
		{Number(1e17), "100P"},
		{Big(big.NewInt(1_000_000_000_000_000_000)), "1E"},
		{Big(big.NewInt(2_000_000_000_000_000_000)), "2E"},
		// Below the smallest unit, fall back to it
		{Number(0.0000005), "0.5u"},
		// Sub-unit values never land on a unit above kilo
		{Number(0.999), "999m"},
	}
	for _, tt := range tests {
		got, err := ScaleCPU(tt.v)
		if err != nil {
			t.Errorf("ScaleCPU(%v) failed: %v", tt.v, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ScaleCPU(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestScaleMemory(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Number(0), "0"},
		{Number(500), "500"},
		{Number(1023), "1023"},
		{Number(1024), "1Ki"},
		{Number(1536), "1.5Ki"},
		{Number(202782720.131072), "193.388672Mi"},
		{Number(1610612736), "1.5Gi"},
		{Number(4398046511104), "4Ti"},
		{Big(big.NewInt(0).Lsh(big.NewInt(1), 60)), "1Ei"},
		{Big(big.NewInt(0).Lsh(big.NewInt(1), 61)), "2Ei"},
		// Truncation: remainders below the unit are dropped
		{Big(big.NewInt(0).Add(big.NewInt(0).Lsh(big.NewInt(3), 60), big.NewInt(5))), "3Ei"},
		// Below 1, fall back to no unit
		{Number(0.5), "0.5"},
	}
	for _, tt := range tests {
		got, err := ScaleMemory(tt.v)
		if err != nil {
			t.Errorf("ScaleMemory(%v) failed: %v", tt.v, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ScaleMemory(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatCPU(t *testing.T) {
	tests := []struct {
		v    Value
		opts Options
		want string
	}{
		{Number(0), Options{}, "0"},
		{Number(0.5), Options{}, "500m"},
		{Number(2000000), Options{}, "2M"},
		{Number(1e17), Options{}, "100P"},
		{Number(0.5), Options{Unit: unitPtr(Micro)}, "500000u"},
		{Number(1.5), Options{MinFractionDigits: 3}, "1.500"},
	}
	for _, tt := range tests {
		got, err := FormatCPU(tt.v, tt.opts)
		if err != nil {
			t.Errorf("FormatCPU(%v, %v) failed: %v", tt.v, tt.opts, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatCPU(%v, %v) = %q, want %q", tt.v, tt.opts, got, tt.want)
		}
	}
}

func TestFormatMemory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			v    Value
			opts Options
			want string
		}{
			{Number(0), Options{}, "0"},
			{Number(1024), Options{}, "1Ki"},
			{Number(202782720.131072), Options{}, "193.388672Mi"},
			{Number(202782720.131072), Options{MaxFractionDigits: 2}, "193.39Mi"},
			{Number(128974848), Options{Unit: unitPtr(Mebi)}, "123Mi"},
			{Number(2000000), Options{Unit: unitPtr(None), Grouping: true}, "2,000,000"},
			{Number(1536), Options{Locale: language.German}, "1,5Ki"},
		}
		for _, tt := range tests {
			got, err := FormatMemory(tt.v, tt.opts)
			if err != nil {
				t.Errorf("FormatMemory(%v, %v) failed: %v", tt.v, tt.opts, err)
				continue
			}
			if got != tt.want {
				t.Errorf("FormatMemory(%v, %v) = %q, want %q", tt.v, tt.opts, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		v := Big(big.NewInt(0).Lsh(big.NewInt(1), 60))
		_, err := FormatMemory(v, Options{Unit: unitPtr(Milli)})
		if err == nil {
			t.Errorf("FormatMemory(%v, {Unit: Milli}) did not fail", v)
		}
	})
}

func TestAddBases(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			a, b string
			want string
		}{
			{"1.5Gi", "0.5Gi", "2147483648"},
			{"500m", "500m", "1"},
			{"1E", "1Ei", "2152921504606846976"},
			{"1", "1Ei", "1152921504606846977"},
		}
		for _, tt := range tests {
			got, err := AddBases(tt.a, tt.b)
			if err != nil {
				t.Errorf("AddBases(%q, %q) failed: %v", tt.a, tt.b, err)
				continue
			}
			if got.String() != tt.want {
				t.Errorf("AddBases(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := [][2]string{
			{"bogus", "1Gi"},
			{"1Gi", "bogus"},
		}
		for _, tt := range tests {
			_, err := AddBases(tt[0], tt[1])
			if !errors.Is(err, ErrFormat) {
				t.Errorf("AddBases(%q, %q) = %v, want %v", tt[0], tt[1], err, ErrFormat)
			}
		}
	})
}

func TestSum(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := Sum()
		if !got.IsZero() || got.IsBig() {
			t.Errorf("Sum() = %v, want 0", got)
		}
	})

	t.Run("floating", func(t *testing.T) {
		got := Sum(
			MustParseQuantity("1Gi"),
			MustParseQuantity("512Mi"),
			MustParseQuantity("512Mi"),
		)
		if got.IsBig() || got.Float64() != 2147483648 {
			t.Errorf("Sum(1Gi, 512Mi, 512Mi) = %v, want 2147483648", got)
		}
	})

	t.Run("big", func(t *testing.T) {
		got := Sum(
			MustParseQuantity("1Ei"),
			MustParseQuantity("1Ei"),
		)
		if !got.IsBig() || got.String() != "2305843009213693952" {
			t.Errorf("Sum(1Ei, 1Ei) = %v, want 2305843009213693952", got)
		}
	})
}

func unitPtr(u Unit) *Unit {
	return &u
}
