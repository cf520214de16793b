package core

import (
	"testing"
	"time"
)

func TestExpenseRecordValidate(t *testing.T) {
	good := ExpenseRecord{
		ID:          "r1",
		Month:       "2024-06",
		Category:    CategoryFixos,
		Description: "internet",
		AmountCents: 12050,
		CreatedAt:   time.Now(),
		Origin:      Origin{Type: OriginSingle},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ExpenseRecord{
		func() ExpenseRecord { r := good; r.Month = "2024-6"; return r }(),
		func() ExpenseRecord { r := good; r.Category = "carro"; return r }(),
		func() ExpenseRecord { r := good; r.Description = "   "; return r }(),
		func() ExpenseRecord { r := good; r.AmountCents = 0; return r }(),
		func() ExpenseRecord { r := good; r.AmountCents = -1; return r }(),
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIncomeProfileTotal(t *testing.T) {
	p := IncomeProfile{SalaryCents: 100, BenefitsCents: 20, FoodCents: 3, ExtraCents: 4}
	if got := p.Total(); got != 127 {
		t.Fatalf("expected 127, got %d", got)
	}
}

func TestDefaultIncomeSeed(t *testing.T) {
	p := DefaultIncome()
	if p.SalaryCents != 476538 || p.BenefitsCents != 109297 || p.FoodCents != 3805 || p.ExtraCents != 120000 {
		t.Fatalf("seed defaults changed: %+v", p)
	}
}

func TestIncomeProfileFieldAccess(t *testing.T) {
	p := DefaultIncome()
	for _, name := range IncomeFields() {
		if _, ok := p.Field(name); !ok {
			t.Fatalf("field %q not readable", name)
		}
		next, ok := p.WithField(name, 4200)
		if !ok {
			t.Fatalf("field %q not writable", name)
		}
		if v, _ := next.Field(name); v != 4200 {
			t.Fatalf("field %q expected 4200, got %d", name, v)
		}
	}
	if _, ok := p.Field("nope"); ok {
		t.Fatalf("unknown field must report false")
	}
	if _, ok := p.WithField("nope", 1); ok {
		t.Fatalf("unknown field must not write")
	}

	// A legitimate zero must stick; no falsy-style defaulting.
	next, _ := p.WithField("food_cents", 0)
	if v, _ := next.Field("food_cents"); v != 0 {
		t.Fatalf("zero value was not kept, got %d", v)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Fatalf("%q expected valid", c)
		}
	}
	if CategoryAll.Valid() {
		t.Fatalf("the all filter is not a storable category")
	}
	if Category("carro").Valid() {
		t.Fatalf("unknown category expected invalid")
	}
}
