package legacy

import (
	"encoding/json"
	"testing"
	"time"

	"gastos/internal/core"
)

func TestNormalizeRecordLegacyDecimal(t *testing.T) {
	amount := 12.3
	raw := RawRecord{
		ID:          "r1",
		Category:    "mercado",
		Description: "rancho",
		Amount:      &amount,
		CreatedAtOld: "2024-06-01T10:00:00.000Z",
		Meta:        &RawOrigin{Type: "single"},
	}
	rec := NormalizeRecord(raw, "2024-06")
	if rec.AmountCents != 1230 {
		t.Fatalf("expected 1230 cents, got %d", rec.AmountCents)
	}
	if rec.Month != "2024-06" || rec.Category != core.CategoryMercado {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatalf("legacy timestamp not parsed")
	}
	if rec.Origin.Type != core.OriginSingle {
		t.Fatalf("expected single origin, got %+v", rec.Origin)
	}
}

func TestNormalizeRecordCanonicalIsIdempotent(t *testing.T) {
	cents := int64(1230)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	raw := RawRecord{
		ID:          "r1",
		Category:    "fixos",
		Description: "internet",
		AmountCents: &cents,
		CreatedAt:   &at,
		Origin: &RawOrigin{
			Type:      "range",
			SeriesID:  "s1",
			FromMonth: "2024-05",
			ToMonth:   "2024-07",
		},
	}
	rec := NormalizeRecord(raw, "2024-06")
	want := core.ExpenseRecord{
		ID:          "r1",
		Month:       "2024-06",
		Category:    core.CategoryFixos,
		Description: "internet",
		AmountCents: 1230,
		CreatedAt:   at,
		Origin: core.Origin{
			Type:      core.OriginRange,
			SeriesID:  "s1",
			FromMonth: "2024-05",
			ToMonth:   "2024-07",
		},
	}
	if rec != want {
		t.Fatalf("canonical input changed: got %+v want %+v", rec, want)
	}
}

func TestNormalizeRecordDefaults(t *testing.T) {
	rec := NormalizeRecord(RawRecord{}, "2024-06")
	if rec.ID == "" {
		t.Fatalf("missing id must be generated")
	}
	if rec.Category != core.DefaultCategory() {
		t.Fatalf("missing category expected default, got %q", rec.Category)
	}
	if rec.Description != "" {
		t.Fatalf("missing description expected empty, got %q", rec.Description)
	}
	if rec.AmountCents != 0 {
		t.Fatalf("missing amount expected 0, got %d", rec.AmountCents)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatalf("missing timestamp expected now")
	}
	if rec.Origin.Type != core.OriginSingle {
		t.Fatalf("missing origin expected single, got %+v", rec.Origin)
	}
}

func TestNormalizeRecordLegacyRangeMeta(t *testing.T) {
	raw := RawRecord{
		ID: "r1",
		Meta: &RawOrigin{
			Type:         "range",
			SeriesIDOld:  "s9",
			FromMonthOld: "2024-01",
			ToMonthOld:   "2024-03",
		},
	}
	rec := NormalizeRecord(raw, "2024-02")
	if rec.Origin.Type != core.OriginRange || rec.Origin.SeriesID != "s9" {
		t.Fatalf("legacy meta not mapped: %+v", rec.Origin)
	}
	if rec.Origin.FromMonth != "2024-01" || rec.Origin.ToMonth != "2024-03" {
		t.Fatalf("legacy range months not mapped: %+v", rec.Origin)
	}
}

func TestNormalizeIncomeNil(t *testing.T) {
	p := NormalizeIncome(nil)
	if p != core.DefaultIncome() {
		t.Fatalf("nil input expected full seed defaults, got %+v", p)
	}
}

func TestNormalizeIncomeLegacyNames(t *testing.T) {
	salary := 4765.38
	food := 0.0
	p := NormalizeIncome(&RawIncome{Salary: &salary, Food: &food})
	if p.SalaryCents != 476538 {
		t.Fatalf("legacy salary expected 476538, got %d", p.SalaryCents)
	}
	// Present-but-zero keeps the zero; no falsy fallback.
	if p.FoodCents != 0 {
		t.Fatalf("zero food field was replaced: got %d", p.FoodCents)
	}
	// Absent under both schemes falls back to the seed.
	if p.BenefitsCents != core.DefaultIncome().BenefitsCents {
		t.Fatalf("absent field expected seed default, got %d", p.BenefitsCents)
	}
}

func TestNormalizeIncomeCurrentNamesWin(t *testing.T) {
	cents := int64(100)
	decimal := 999.99
	p := NormalizeIncome(&RawIncome{SalaryNetCents: &cents, Salary: &decimal})
	if p.SalaryCents != 100 {
		t.Fatalf("current-generation field must win, got %d", p.SalaryCents)
	}
}

func TestDecodeBookLegacyBlob(t *testing.T) {
	blob := []byte(`{
		"2024-06": [
			{"id":"a","category":"fixos","description":"Internet","amount":99.9,
			 "createdAt":"2024-06-01T08:00:00.000Z","meta":{"type":"single"}}
		],
		"not-a-month": [{"id":"b"}]
	}`)
	book := DecodeBook(blob)
	if len(book) != 1 {
		t.Fatalf("malformed month keys must be dropped, got %d entries", len(book))
	}
	records := book["2024-06"]
	if len(records) != 1 || records[0].AmountCents != 9990 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestDecodeBookGarbage(t *testing.T) {
	if book := DecodeBook([]byte("{nope")); len(book) != 0 {
		t.Fatalf("garbage blob expected empty book, got %v", book)
	}
}

func TestDecodeIncomeRoundTrip(t *testing.T) {
	p := core.IncomeProfile{SalaryCents: 1, BenefitsCents: 2, FoodCents: 0, ExtraCents: 4}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := DecodeIncome(data); got != p {
		t.Fatalf("canonical income changed: got %+v want %+v", got, p)
	}

	if got := DecodeIncome([]byte("broken")); got != core.DefaultIncome() {
		t.Fatalf("garbage income expected seed defaults, got %+v", got)
	}
}
