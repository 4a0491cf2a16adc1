package salesreport

import (
	"math"
	"testing"
	"time"
)

func TestToFloat(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"1,234.5": 1234.5,
		" 7 ":     7,
		"":        0,
		"abc":     0,
		"NaN":     0,
		"-3":      -3,
	}
	for in, want := range cases {
		if got := toFloat(in); got != want {
			t.Fatalf("toFloat(%q) = %v want %v", in, got, want)
		}
	}
}

func TestToInt(t *testing.T) {
	t.Parallel()

	cases := map[string]int64{"1001": 1001, "1001.0": 1001, "x": 0, "": 0}
	for in, want := range cases {
		if got := toInt(in); got != want {
			t.Fatalf("toInt(%q) = %d want %d", in, got, want)
		}
	}
}

func TestNegateAndProductAvoidNegativeZero(t *testing.T) {
	t.Parallel()

	if v := negate(0); math.Signbit(v) {
		t.Fatalf("negate(0) produced -0")
	}
	if v := product(0, -5); math.Signbit(v) {
		t.Fatalf("product(0,-5) produced -0")
	}
	if negate(5) != -5 || product(2, -5) != -10 {
		t.Fatalf("arithmetic broken")
	}
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"12345.0":  "12345",
		" K-1 ":    "K-1",
		"12345.50": "12345.50",
		"0012.00":  "0012",
	}
	for in, want := range cases {
		if got := normalizeKey(in); got != want {
			t.Fatalf("normalizeKey(%q) = %q want %q", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-05-10", "2024/05/10", "2024/5/10", "20240510", "45422"} {
		got, ok := parseDate(in)
		if !ok || !dateOnly(got).Equal(want) {
			t.Fatalf("parseDate(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := parseDate("someday"); ok {
		t.Fatalf("garbage parsed as date")
	}
}

func TestNumericOrText(t *testing.T) {
	t.Parallel()

	if v := numericOrText("30.5"); v != 30.5 {
		t.Fatalf("number: %v", v)
	}
	if v := numericOrText("0012"); v != "0012" {
		t.Fatalf("leading zero: %v", v)
	}
	if v := numericOrText("0.5"); v != 0.5 {
		t.Fatalf("fraction: %v", v)
	}
	if v := numericOrText("K-1"); v != "K-1" {
		t.Fatalf("text: %v", v)
	}
}

func TestIndexFirstWins(t *testing.T) {
	t.Parallel()

	ix := newIndex[string, int](2)
	if !ix.add("a", 1) || ix.add("a", 2) {
		t.Fatalf("add must keep only the first value")
	}
	if v, ok := ix.Lookup("a"); !ok || v != 1 {
		t.Fatalf("lookup: %v %v", v, ok)
	}
	var nilIx *Index[string, int]
	if _, ok := nilIx.Lookup("a"); ok || nilIx.Len() != 0 {
		t.Fatalf("nil index must be empty")
	}
}
