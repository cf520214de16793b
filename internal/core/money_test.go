package core

import "testing"

func TestDigitsToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"", 0},
		{"abc", 0},
		{"0", 0},
		{"5", 5},
		{"120,50", 12050},
		{"1.234,56", 123456},
		{"R$ 12a3", 123},
		{"0012050", 12050},
	}
	for _, tc := range cases {
		if got := DigitsToCents(tc.in); got != tc.out {
			t.Fatalf("%q expected %d, got %d", tc.in, tc.out, got)
		}
	}
}

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1,23", 123, true},
		{"120,50", 12050, true},
		{"120.50", 1205000, true}, // lone period drops as a thousands separator
		{"R$ 1.234,56", 123456, true},
		{"R$ 120,50", 12050, true},
		{"0,01", 1, true},
		{"1,005", 101, true}, // half-up on the third decimal
		{"-12,30", -1230, true},
		{",50", 50, true},
		{"", 0, false},
		{"abc", 0, false},
		{"R$", 0, false},
		{"1,2,3", 0, false},
		{"1-2", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %d", tc.in, got)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "0,00"},
		{5, "0,05"},
		{12050, "120,50"},
		{123456, "1.234,56"},
		{-123456, "-1.234,56"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.in); got != tc.out {
			t.Fatalf("%d expected %q, got %q", tc.in, tc.out, got)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	if got := FormatBRL(123456); got != "R$ 1.234,56" {
		t.Fatalf("got %q", got)
	}
	if got := FormatBRL(-100); got != "-R$ 1,00" {
		t.Fatalf("got %q", got)
	}
}

// Digits of the display string must round-trip back to the same cent count.
func TestDisplayDigitsRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12050, 123456, 999999999} {
		if got := DigitsToCents(FormatCents(cents)); got != cents {
			t.Fatalf("cents %d round-tripped to %d via %q", cents, got, FormatCents(cents))
		}
	}
}

// The decimal parser must accept the currency formatter's own output.
func TestParseAcceptsFormatterOutput(t *testing.T) {
	for _, cents := range []int64{1, 100, 12050, 123456} {
		got, err := ParseDecimalToCents(FormatBRL(cents))
		if err != nil || got != cents {
			t.Fatalf("cents %d via %q came back as %d (err=%v)", cents, FormatBRL(cents), got, err)
		}
	}
}
