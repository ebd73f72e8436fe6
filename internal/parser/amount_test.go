package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Cell
		want float64
	}{
		{"number passthrough", NumberCell(42.5), 42.5},
		{"empty", EmptyCell(), 0},
		{"blank text", TextCell("   "), 0},
		{"plain integer", TextCell("1500"), 1500},
		{"comma decimal", TextCell("1234,56"), 1234.56},
		{"negative comma decimal", TextCell("-15,5"), -15.5},
		{"space thousands", TextCell("1 200"), 1200},
		{"nbsp thousands", TextCell("1 200 000"), 1200000},
		{"quoted", TextCell(`"12 450"`), 12450},
		{"single quotes", TextCell("'900'"), 900},
		{"currency suffix", TextCell("50 000 ₸"), 50000},
		{"currency prefix", TextCell("₸ 50 000"), 50000},
		{"dollar prefix", TextCell("$1,200"), 1200},
		{"percent suffix keeps decimals", TextCell("12.5%"), 12.5},
		{"mixed separators keep leading number", TextCell("1,234.56"), 1.234},
		{"mixed separators reversed", TextCell("1.234,56"), 1.234},
		{"repeated separators", TextCell("1,234,567.89"), 1.234},
		{"garbage", TextCell("n/a"), 0},
		{"dash", TextCell("-"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.in), 1e-9)
		})
	}
}

func TestParsePercentOrRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Cell
		want float64
	}{
		{TextCell("45,5%"), 45.5},
		{TextCell(" 20 % "), 20},
		{TextCell("0,25"), 0.25},
		{TextCell(`"12,0%"`), 12},
		{TextCell("33％"), 33},
		{TextCell("n/a"), 0},
		{NumberCell(18.75), 18.75},
		{EmptyCell(), 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, ParsePercentOrRatio(tt.in), 1e-9, "input %q", tt.in.String())
	}
}

func TestParseAmount_NonFiniteNumbers(t *testing.T) {
	t.Parallel()

	assert.Zero(t, ParseAmount(NumberCell(math.NaN())))
	assert.Zero(t, ParseAmount(NumberCell(math.Inf(1))))
	assert.Zero(t, ParsePercentOrRatio(NumberCell(math.Inf(-1))))
	assert.False(t, math.IsInf(ParseAmount(TextCell("1e999")), 0))
}

func FuzzParseAmount(f *testing.F) {
	for _, seed := range []string{"1 200", "1234,56", "45,5%", "₸", "--1..2,,3", "1e309", " \"'"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		for _, v := range []float64{ParseAmount(TextCell(s)), ParsePercentOrRatio(TextCell(s))} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite result %v for %q", v, s)
			}
		}
	})
}
