package core

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month in canonical "YYYY-MM" form.
// Chronological order equals lexicographic order on the canonical form.
type MonthKey string

var ptMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthKeyOf truncates a point in time to its month key.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// CurrentMonthKey derives the key for the current wall-clock month.
func CurrentMonthKey() MonthKey {
	return MonthKeyOf(time.Now())
}

// ParseMonthKey validates and canonicalizes a user-supplied month string.
func ParseMonthKey(s string) (MonthKey, error) {
	k := MonthKey(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k MonthKey) Validate() error {
	if _, _, ok := k.parts(); !ok {
		return ErrInvalidMonthKey
	}
	return nil
}

func (k MonthKey) parts() (year, month int, ok bool) {
	if len(k) != 7 || k[4] != '-' {
		return 0, 0, false
	}
	for i, r := range k {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return 0, 0, false
		}
	}
	year = int(k[0]-'0')*1000 + int(k[1]-'0')*100 + int(k[2]-'0')*10 + int(k[3]-'0')
	month = int(k[5]-'0')*10 + int(k[6]-'0')
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// Date returns the first day of the month at midnight UTC. Invalid keys
// return the zero time.
func (k MonthKey) Date() time.Time {
	year, month, ok := k.parts()
	if !ok {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// Step returns the key delta months later; negative delta steps back.
// Year boundaries roll over.
func (k MonthKey) Step(delta int) MonthKey {
	return MonthKeyOf(k.Date().AddDate(0, delta, 0))
}

// Label renders the key as a pt-BR "month year" string, e.g. "janeiro de 2024".
func (k MonthKey) Label() string {
	year, month, ok := k.parts()
	if !ok {
		return string(k)
	}
	return fmt.Sprintf("%s de %d", ptMonths[month-1], year)
}

// MonthRange enumerates every month from `from` to `to` inclusive, ascending
// and contiguous. An inverted range yields an empty slice; that is the valid
// signal for a user-specified invalid range, not an error.
func MonthRange(from, to MonthKey) []MonthKey {
	if from > to {
		return nil
	}
	var months []MonthKey
	for cursor := from; cursor <= to; cursor = cursor.Step(1) {
		months = append(months, cursor)
	}
	return months
}

// MonthWindow builds the bounded selection list around a center month:
// `past` months before through `future` months after, ascending. The result
// always has past+future+1 entries.
func MonthWindow(center MonthKey, past, future int) []MonthKey {
	return MonthRange(center.Step(-past), center.Step(future))
}
