// Package core provides the pure computational heart of the application:
// money parsing and formatting, calendar month arithmetic, and record
// aggregation. Nothing in this package performs I/O.
package core

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// DigitsToCents interprets a keystroke digit stream as a cent count: every
// non-digit character is dropped and the remaining digits are read as an
// integer number of cents (the last two digits are the fractional part).
// It never fails; unparsable or empty input yields 0.
func DigitsToCents(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		return 0
	}
	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return cents
}

// ParseDecimalToCents converts a free-form decimal money string to cents.
//
// It accepts what the money input fields produce: "120,50", "120.50",
// "R$ 1.234,56". Every character that is not a digit, comma, period, or
// minus sign is stripped; the first period is treated as a thousands
// separator and removed; the comma is the decimal separator. Rounding on a
// third decimal digit is half-up.
//
// Returns ErrInvalidAmount when the remainder is not a number. The error is
// a validation signal for the caller, not a fault: no record may be created
// from it. Negative input parses to negative cents; entry-level validation
// rejects non-positive amounts separately.
func ParseDecimalToCents(s string) (int64, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	clean := b.String()
	// First "." is a thousands separator, "," the decimal separator.
	if i := strings.Index(clean, "."); i >= 0 {
		clean = clean[:i] + clean[i+1:]
	}
	clean = strings.Replace(clean, ",", ".", 1)
	if clean == "" || strings.ContainsAny(clean, ",") {
		return 0, ErrInvalidAmount
	}

	neg := false
	if strings.HasPrefix(clean, "-") {
		neg = true
		clean = clean[1:]
	}
	if strings.Contains(clean, "-") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(clean, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	// Two fractional digits, half-up on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// FormatCents renders a cent count with pt-BR digit grouping and exactly two
// decimals, without a currency symbol: 123456 -> "1.234,56".
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100
	s := ptBR.Sprintf("%d", whole) + "," + pad2(rem)
	if neg {
		return "-" + s
	}
	return s
}

// FormatBRL is FormatCents with the currency symbol: 123456 -> "R$ 1.234,56".
func FormatBRL(cents int64) string {
	if cents < 0 {
		return "-R$ " + FormatCents(-cents)
	}
	return "R$ " + FormatCents(cents)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
