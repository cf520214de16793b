package core

import (
	"testing"
	"time"
)

func rec(id string, c Category, desc string, cents int64, at time.Time) ExpenseRecord {
	return ExpenseRecord{
		ID:          id,
		Month:       "2024-06",
		Category:    c,
		Description: desc,
		AmountCents: cents,
		CreatedAt:   at,
		Origin:      Origin{Type: OriginSingle},
	}
}

func TestSumByCategoryEmpty(t *testing.T) {
	sums := SumByCategory(nil, Categories())
	if len(sums) != len(Categories()) {
		t.Fatalf("expected %d entries, got %d", len(Categories()), len(sums))
	}
	for c, v := range sums {
		if v != 0 {
			t.Fatalf("category %q expected 0, got %d", c, v)
		}
	}
}

func TestSumByCategoryAndTotal(t *testing.T) {
	now := time.Now()
	records := []ExpenseRecord{
		rec("a", CategoryFixos, "internet", 1000, now),
		rec("b", CategoryFixos, "aluguel", 500, now),
		rec("c", CategoryMercado, "rancho", 200, now),
	}
	sums := SumByCategory(records, Categories())
	if sums[CategoryFixos] != 1500 {
		t.Fatalf("fixos expected 1500, got %d", sums[CategoryFixos])
	}
	if sums[CategoryMercado] != 200 {
		t.Fatalf("mercado expected 200, got %d", sums[CategoryMercado])
	}
	if sums[CategoryAleatorios] != 0 || sums[CategoryEmprestado] != 0 {
		t.Fatalf("absent categories must report 0: %v", sums)
	}
	if got := TotalCents(records); got != 1700 {
		t.Fatalf("total expected 1700, got %d", got)
	}
}

func TestBalance(t *testing.T) {
	if got := Balance(1000, 300); got != 700 {
		t.Fatalf("expected 700, got %d", got)
	}
	if got := Balance(300, 1000); got != -700 {
		t.Fatalf("expected -700, got %d", got)
	}
}

func TestFilterByCategory(t *testing.T) {
	now := time.Now()
	records := []ExpenseRecord{
		rec("a", CategoryFixos, "internet", 1000, now),
		rec("b", CategoryMercado, "rancho", 200, now),
		rec("c", CategoryFixos, "aluguel", 500, now),
	}

	if got := FilterByCategory(records, CategoryAll); len(got) != 3 {
		t.Fatalf("all filter expected pass-through, got %d records", len(got))
	}

	got := FilterByCategory(records, CategoryFixos)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("filter broke input order: %v", got)
	}

	if got := FilterByCategory(nil, CategoryFixos); len(got) != 0 {
		t.Fatalf("empty input expected empty output, got %v", got)
	}
}

func TestGroupRecordsMergesNormalizedDescriptions(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	records := []ExpenseRecord{
		rec("a", CategoryFixos, "Internet", 1000, t0),
		rec("b", CategoryFixos, "  internet ", 500, t1),
	}

	groups := GroupRecords(records)
	if len(groups) != 1 {
		t.Fatalf("expected one merged group, got %d", len(groups))
	}
	g := groups[0]
	if g.Count != 2 || g.TotalCents != 1500 {
		t.Fatalf("expected count 2 total 1500, got count %d total %d", g.Count, g.TotalCents)
	}
	if len(g.IDs) != 2 || g.IDs[0] != "a" || g.IDs[1] != "b" {
		t.Fatalf("member ids wrong: %v", g.IDs)
	}
	if !g.LatestAt.Equal(t1) {
		t.Fatalf("latest timestamp expected %v, got %v", t1, g.LatestAt)
	}
	if g.Description != "Internet" {
		t.Fatalf("display description expected first member's, got %q", g.Description)
	}
}

func TestGroupRecordsSameDescriptionDifferentCategory(t *testing.T) {
	now := time.Now()
	records := []ExpenseRecord{
		rec("a", CategoryFixos, "uber", 100, now),
		rec("b", CategoryAleatorios, "uber", 100, now),
	}
	if groups := GroupRecords(records); len(groups) != 2 {
		t.Fatalf("category is part of the key, expected 2 groups, got %d", len(groups))
	}
}

func TestGroupRecordsOrdering(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	records := []ExpenseRecord{
		rec("a", CategoryFixos, "internet", 100, t0),
		rec("b", CategoryMercado, "rancho", 100, t0.Add(2*time.Hour)),
		rec("c", CategoryAleatorios, "uber", 100, t0.Add(time.Hour)),
	}
	groups := GroupRecords(records)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Description != "rancho" || groups[1].Description != "uber" || groups[2].Description != "internet" {
		t.Fatalf("groups not sorted latest-first: %v", groups)
	}
}

func TestGroupRecordsEdgeCases(t *testing.T) {
	if groups := GroupRecords(nil); len(groups) != 0 {
		t.Fatalf("empty input expected no groups, got %v", groups)
	}

	// A zero-amount record still counts as a member.
	now := time.Now()
	groups := GroupRecords([]ExpenseRecord{rec("a", CategoryFixos, "x", 0, now)})
	if len(groups) != 1 || groups[0].Count != 1 || groups[0].TotalCents != 0 {
		t.Fatalf("zero-amount member handled wrong: %v", groups)
	}
}
