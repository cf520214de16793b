// Package ledger holds the in-memory book of months and the operations that
// mutate it. Every operation is an explicit transformation: it takes the
// current book and returns a new one, leaving the input untouched. Nothing
// here relies on ambient state or performs I/O; persistence is the caller's
// concern.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"gastos/internal/core"
)

// Book is the full in-memory state: the month-to-records collection plus the
// income profile. Records within a month are kept newest-insertion-first.
type Book struct {
	Months map[core.MonthKey][]core.ExpenseRecord
	Income core.IncomeProfile
}

// NewBook returns an empty book with the seed income profile.
func NewBook() Book {
	return Book{
		Months: map[core.MonthKey][]core.ExpenseRecord{},
		Income: core.DefaultIncome(),
	}
}

// Records returns the record list for a month, newest first. The returned
// slice is shared; callers must not mutate it.
func (b Book) Records(month core.MonthKey) []core.ExpenseRecord {
	return b.Months[month]
}

// EntryInput is the validated-on-use payload for add operations. Amount is
// the raw user string; parsing is part of the operation so a validation
// failure leaves the book unchanged.
type EntryInput struct {
	Category    core.Category
	Description string
	Amount      string
}

// BuildSingle parses and validates a one-off entry for a month. It is the
// single construction path for records: row-backed stores persist the result
// directly, the in-memory book inserts it via Insert.
func BuildSingle(month core.MonthKey, in EntryInput) (core.ExpenseRecord, error) {
	return in.record(month, core.Origin{Type: core.OriginSingle})
}

// BuildSeries builds one record per month of the inclusive range, all
// sharing a fresh series id. An inverted range yields ErrEmptyRange and no
// records.
func BuildSeries(from, to core.MonthKey, in EntryInput) ([]core.ExpenseRecord, error) {
	months := core.MonthRange(from, to)
	if len(months) == 0 {
		return nil, core.ErrEmptyRange
	}
	seriesID := uuid.NewString()
	records := make([]core.ExpenseRecord, 0, len(months))
	for _, month := range months {
		rec, err := in.record(month, core.Origin{
			Type:      core.OriginRange,
			SeriesID:  seriesID,
			FromMonth: from,
			ToMonth:   to,
		})
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (in EntryInput) record(month core.MonthKey, origin core.Origin) (core.ExpenseRecord, error) {
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.ExpenseRecord{}, err
	}
	if cents <= 0 {
		return core.ExpenseRecord{}, core.ErrInvalidAmount
	}
	rec := core.ExpenseRecord{
		ID:          uuid.NewString(),
		Month:       month,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		AmountCents: cents,
		CreatedAt:   time.Now().UTC(),
		Origin:      origin,
	}
	if err := rec.Validate(); err != nil {
		return core.ExpenseRecord{}, err
	}
	return rec, nil
}

// AddSingle records a one-off expense in the given month.
func AddSingle(b Book, month core.MonthKey, in EntryInput) (Book, core.ExpenseRecord, error) {
	rec, err := BuildSingle(month, in)
	if err != nil {
		return b, core.ExpenseRecord{}, err
	}
	return Insert(b, rec), rec, nil
}

// AddRange records the expense once per month from `from` to `to` inclusive,
// all sharing one series id. An inverted range creates nothing and reports
// ErrEmptyRange, which callers surface as a validation failure. Validation
// is input-dependent only, so a failure happens before anything is written.
func AddRange(b Book, from, to core.MonthKey, in EntryInput) (Book, []core.ExpenseRecord, error) {
	created, err := BuildSeries(from, to, in)
	if err != nil {
		return b, nil, err
	}
	next := b
	for _, rec := range created {
		next = Insert(next, rec)
	}
	return next, created, nil
}

// Insert places an already-built record at the head of its month.
func Insert(b Book, rec core.ExpenseRecord) Book {
	current := b.Months[rec.Month]
	records := make([]core.ExpenseRecord, 0, len(current)+1)
	records = append(records, rec)
	records = append(records, current...)
	return withMonth(b, rec.Month, records)
}

// Remove deletes one record by id from a month. Unknown ids are a no-op.
func Remove(b Book, month core.MonthKey, id string) Book {
	return removeMatching(b, month, func(r core.ExpenseRecord) bool { return r.ID == id })
}

// RemoveGroup deletes every record whose id is in ids from a month.
func RemoveGroup(b Book, month core.MonthKey, ids []string) Book {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return removeMatching(b, month, func(r core.ExpenseRecord) bool {
		_, ok := set[r.ID]
		return ok
	})
}

// ClearMonth drops a month and all its records from the book.
func ClearMonth(b Book, month core.MonthKey) Book {
	if _, ok := b.Months[month]; !ok {
		return b
	}
	months := make(map[core.MonthKey][]core.ExpenseRecord, len(b.Months))
	for k, v := range b.Months {
		if k != month {
			months[k] = v
		}
	}
	b.Months = months
	return b
}

// ReassignCategory moves every listed record of a month to a new category.
// The only mutation records ever see besides deletion.
func ReassignCategory(b Book, month core.MonthKey, ids []string, to core.Category) (Book, error) {
	if !to.Valid() {
		return b, core.ErrInvalidCategory
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	current := b.Months[month]
	records := make([]core.ExpenseRecord, len(current))
	copy(records, current)
	for i := range records {
		if _, ok := set[records[i].ID]; ok {
			records[i].Category = to
		}
	}
	return withMonth(b, month, records), nil
}

// SetIncomeField parses the raw amount and replaces one income field.
// Negative values are rejected; zero is a legitimate income value.
func SetIncomeField(b Book, field, amount string) (Book, error) {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return b, err
	}
	if cents < 0 {
		return b, core.ErrInvalidAmount
	}
	income, ok := b.Income.WithField(field, cents)
	if !ok {
		return b, core.ErrInvalidAmount
	}
	b.Income = income
	return b, nil
}

func removeMatching(b Book, month core.MonthKey, match func(core.ExpenseRecord) bool) Book {
	current, ok := b.Months[month]
	if !ok {
		return b
	}
	records := make([]core.ExpenseRecord, 0, len(current))
	for _, r := range current {
		if !match(r) {
			records = append(records, r)
		}
	}
	return withMonth(b, month, records)
}

func withMonth(b Book, month core.MonthKey, records []core.ExpenseRecord) Book {
	months := make(map[core.MonthKey][]core.ExpenseRecord, len(b.Months)+1)
	for k, v := range b.Months {
		months[k] = v
	}
	months[month] = records
	b.Months = months
	return b
}
