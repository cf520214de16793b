package ledger

import (
	"errors"
	"testing"

	"gastos/internal/core"
)

func TestAddSingle(t *testing.T) {
	book := NewBook()
	next, rec, err := AddSingle(book, "2024-06", EntryInput{
		Category:    core.CategoryFixos,
		Description: "  Internet ",
		Amount:      "120,50",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.AmountCents != 12050 || rec.Description != "Internet" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("id/timestamp not assigned: %+v", rec)
	}
	if rec.Origin.Type != core.OriginSingle {
		t.Fatalf("expected single origin: %+v", rec.Origin)
	}
	if len(next.Records("2024-06")) != 1 {
		t.Fatalf("record not stored")
	}
	// Input book untouched.
	if len(book.Records("2024-06")) != 0 {
		t.Fatalf("input book mutated")
	}
}

func TestAddSingleNewestFirst(t *testing.T) {
	book := NewBook()
	book, first, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "a", Amount: "1,00"})
	book, second, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "b", Amount: "2,00"})
	records := book.Records("2024-06")
	if records[0].ID != second.ID || records[1].ID != first.ID {
		t.Fatalf("records not newest-first: %v", records)
	}
}

func TestAddSingleValidationLeavesBookUnchanged(t *testing.T) {
	book := NewBook()
	cases := []EntryInput{
		{Category: core.CategoryFixos, Description: "", Amount: "1,00"},
		{Category: core.CategoryFixos, Description: "x", Amount: "abc"},
		{Category: core.CategoryFixos, Description: "x", Amount: "0"},
		{Category: core.CategoryFixos, Description: "x", Amount: "-5,00"},
		{Category: "carro", Description: "x", Amount: "1,00"},
	}
	for i, in := range cases {
		next, _, err := AddSingle(book, "2024-06", in)
		if err == nil {
			t.Fatalf("case %d expected validation error", i)
		}
		if len(next.Records("2024-06")) != 0 {
			t.Fatalf("case %d mutated the book", i)
		}
	}
}

func TestAddRange(t *testing.T) {
	book := NewBook()
	next, created, err := AddRange(book, "2024-11", "2025-02", EntryInput{
		Category:    core.CategoryFixos,
		Description: "aluguel",
		Amount:      "1.500,00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("expected 4 records, got %d", len(created))
	}
	series := created[0].Origin.SeriesID
	if series == "" {
		t.Fatalf("series id missing")
	}
	for _, rec := range created {
		if rec.Origin.Type != core.OriginRange || rec.Origin.SeriesID != series {
			t.Fatalf("series not shared: %+v", rec.Origin)
		}
		if rec.Origin.FromMonth != "2024-11" || rec.Origin.ToMonth != "2025-02" {
			t.Fatalf("range months not carried: %+v", rec.Origin)
		}
		if len(next.Records(rec.Month)) != 1 {
			t.Fatalf("month %q missing its record", rec.Month)
		}
	}
}

func TestAddRangeInverted(t *testing.T) {
	book := NewBook()
	next, created, err := AddRange(book, "2024-03", "2024-01", EntryInput{
		Category: core.CategoryFixos, Description: "x", Amount: "1,00",
	})
	if !errors.Is(err, core.ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange, got %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("inverted range must create zero records")
	}
	if len(next.Months) != len(book.Months) {
		t.Fatalf("book changed on validation failure")
	}
}

func TestRemove(t *testing.T) {
	book := NewBook()
	book, rec, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "a", Amount: "1,00"})
	book, keep, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "b", Amount: "1,00"})

	next := Remove(book, "2024-06", rec.ID)
	records := next.Records("2024-06")
	if len(records) != 1 || records[0].ID != keep.ID {
		t.Fatalf("unexpected records after remove: %v", records)
	}

	// Unknown id and unknown month are no-ops.
	if got := Remove(next, "2024-06", "nope"); len(got.Records("2024-06")) != 1 {
		t.Fatalf("unknown id removed something")
	}
	if got := Remove(next, "2020-01", rec.ID); len(got.Records("2024-06")) != 1 {
		t.Fatalf("unknown month changed records")
	}
}

func TestRemoveGroup(t *testing.T) {
	book := NewBook()
	book, a, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "x", Amount: "1,00"})
	book, b, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "x", Amount: "2,00"})
	book, c, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryMercado, Description: "y", Amount: "3,00"})

	next := RemoveGroup(book, "2024-06", []string{a.ID, b.ID})
	records := next.Records("2024-06")
	if len(records) != 1 || records[0].ID != c.ID {
		t.Fatalf("unexpected records after group remove: %v", records)
	}
}

func TestClearMonth(t *testing.T) {
	book := NewBook()
	book, _, _ = AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "x", Amount: "1,00"})
	book, _, _ = AddSingle(book, "2024-07", EntryInput{Category: core.CategoryFixos, Description: "y", Amount: "1,00"})

	next := ClearMonth(book, "2024-06")
	if _, ok := next.Months["2024-06"]; ok {
		t.Fatalf("month not cleared")
	}
	if len(next.Records("2024-07")) != 1 {
		t.Fatalf("other months must survive")
	}
	if len(book.Records("2024-06")) != 1 {
		t.Fatalf("input book mutated")
	}
}

func TestReassignCategory(t *testing.T) {
	book := NewBook()
	book, a, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "x", Amount: "1,00"})
	book, b, _ := AddSingle(book, "2024-06", EntryInput{Category: core.CategoryFixos, Description: "x", Amount: "2,00"})

	next, err := ReassignCategory(book, "2024-06", []string{a.ID, b.ID}, core.CategoryAleatorios)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range next.Records("2024-06") {
		if r.Category != core.CategoryAleatorios {
			t.Fatalf("record %s not reassigned: %q", r.ID, r.Category)
		}
	}
	// Input book keeps the old category.
	for _, r := range book.Records("2024-06") {
		if r.Category != core.CategoryFixos {
			t.Fatalf("input book mutated")
		}
	}

	if _, err := ReassignCategory(book, "2024-06", []string{a.ID}, "carro"); err == nil {
		t.Fatalf("invalid category must be rejected")
	}
}

func TestSetIncomeField(t *testing.T) {
	book := NewBook()
	next, err := SetIncomeField(book, "salary_net_cents", "5.000,00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Income.SalaryCents != 500000 {
		t.Fatalf("expected 500000, got %d", next.Income.SalaryCents)
	}
	if book.Income.SalaryCents != core.DefaultIncome().SalaryCents {
		t.Fatalf("input book mutated")
	}

	// Zero is a legitimate income value.
	next, err = SetIncomeField(next, "food_cents", "0")
	if err != nil || next.Income.FoodCents != 0 {
		t.Fatalf("zero income rejected: %v %d", err, next.Income.FoodCents)
	}

	if _, err := SetIncomeField(book, "salary_net_cents", "-1,00"); err == nil {
		t.Fatalf("negative income must be rejected")
	}
	if _, err := SetIncomeField(book, "nope", "1,00"); err == nil {
		t.Fatalf("unknown field must be rejected")
	}
}
