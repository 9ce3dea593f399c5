package quantity

import (
	"testing"

	"github.com/govalues/decimal"
	"golang.org/x/text/language"
)

func TestFormatter_FormatDecimal(t *testing.T) {
	tests := []struct {
		d    string
		tag  language.Tag
		opts Options
		want string
	}{
		{"0", language.Und, Options{}, "0"},
		{"1234.5", language.Und, Options{}, "1234.5"},
		{"1234.5", language.English, Options{Grouping: true}, "1,234.5"},
		{"1234.5", language.German, Options{Grouping: true}, "1.234,5"},
		{"1234.5", language.German, Options{}, "1234,5"},
		{"1.2345", language.Und, Options{MaxFractionDigits: 2}, "1.23"},
		{"1.5", language.Und, Options{MinFractionDigits: 3}, "1.500"},
		{"193.388672", language.Und, Options{}, "193.388672"},
		{"2000000", language.English, Options{Grouping: true}, "2,000,000"},
		// Integral mantissas above 2^53 render digit-exact
		{"9007199254740993", language.Und, Options{}, "9007199254740993"},
		{"9007199254740993", language.English, Options{Grouping: true}, "9,007,199,254,740,993"},
	}
	for _, tt := range tests {
		d := decimal.MustParse(tt.d)
		f := NewFormatter(tt.tag)
		got := f.FormatDecimal(d, tt.opts)
		if got != tt.want {
			t.Errorf("FormatDecimal(%q, %v) = %q, want %q", tt.d, tt.opts, got, tt.want)
		}
	}
}

func TestQuantity_Text(t *testing.T) {
	tests := []struct {
		q    string
		opts Options
		want string
	}{
		{"1.5Gi", Options{}, "1.5Gi"},
		{"1.5Gi", Options{Locale: language.German}, "1,5Gi"},
		{"500m", Options{}, "500m"},
		{"128974848", Options{Grouping: true, Locale: language.English}, "128,974,848"},
		{"193.388672Mi", Options{MaxFractionDigits: 2}, "193.39Mi"},
		{"9007199254740993", Options{}, "9007199254740993"},
	}
	for _, tt := range tests {
		got := MustParseQuantity(tt.q).Text(tt.opts)
		if got != tt.want {
			t.Errorf("%q.Text(%v) = %q, want %q", tt.q, tt.opts, got, tt.want)
		}
	}
}

type plainFormatter struct{}

func (plainFormatter) FormatDecimal(d decimal.Decimal, _ Options) string {
	return d.Trim(0).String()
}

func TestQuantity_TextWith(t *testing.T) {
	q := MustParseQuantity("1.50Gi")
	got := q.TextWith(plainFormatter{}, Options{})
	if got != "1.5Gi" {
		t.Errorf("%q.TextWith(plainFormatter{}) = %q, want %q", q, got, "1.5Gi")
	}
}
