package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Closed category set. Values are the stored identifiers.
	CategoryFixos      Category = "fixos"
	CategoryMercado    Category = "mercado"
	CategoryAleatorios Category = "aleatorios"
	CategoryEmprestado Category = "emprestado"

	// CategoryAll is a filter pseudo-value, never stored on a record.
	CategoryAll Category = "all"

	OriginSingle OriginType = "single"
	OriginRange  OriginType = "range"
)

type (
	Category   string
	OriginType string

	// Origin records how an expense came to exist. Range expenses carry the
	// series they were generated with so the whole series can be traced.
	Origin struct {
		Type      OriginType `json:"type"`
		SeriesID  string     `json:"series_id,omitempty"`
		FromMonth MonthKey   `json:"from_month,omitempty"`
		ToMonth   MonthKey   `json:"to_month,omitempty"`
	}

	ExpenseRecord struct {
		ID          string    `json:"id"`
		Month       MonthKey  `json:"month_key"`
		Category    Category  `json:"category"`
		Description string    `json:"description"`
		AmountCents int64     `json:"amount_cents"`
		CreatedAt   time.Time `json:"created_at"`
		Origin      Origin    `json:"origin"`
	}

	// IncomeProfile is the fixed set of monthly income fields, in cents.
	IncomeProfile struct {
		SalaryCents   int64 `json:"salary_net_cents"`
		BenefitsCents int64 `json:"multibenefits_cents"`
		FoodCents     int64 `json:"food_cents"`
		ExtraCents    int64 `json:"spouse_salary_cents"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidMonthKey  = errors.New("invalid month key")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyRange       = errors.New("empty month range")
)

// Categories returns the known category set in display order.
func Categories() []Category {
	return []Category{CategoryFixos, CategoryMercado, CategoryAleatorios, CategoryEmprestado}
}

// DefaultCategory is assigned when a legacy record carries no category.
func DefaultCategory() Category { return CategoryFixos }

func (c Category) Valid() bool {
	switch c {
	case CategoryFixos, CategoryMercado, CategoryAleatorios, CategoryEmprestado:
		return true
	}
	return false
}

// Label returns the user-facing name for the category.
func (c Category) Label() string {
	switch c {
	case CategoryFixos:
		return "Fixos"
	case CategoryMercado:
		return "Mercado"
	case CategoryAleatorios:
		return "Aleatórios"
	case CategoryEmprestado:
		return "Emprestado"
	}
	return string(c)
}

func (e ExpenseRecord) Validate() error {
	if err := e.Month.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Total sums every income field.
func (p IncomeProfile) Total() int64 {
	return p.SalaryCents + p.BenefitsCents + p.FoodCents + p.ExtraCents
}

// DefaultIncome is the seed profile used when a month has no income row yet.
func DefaultIncome() IncomeProfile {
	return IncomeProfile{
		SalaryCents:   476538,
		BenefitsCents: 109297,
		FoodCents:     3805,
		ExtraCents:    120000,
	}
}

// IncomeFields lists the editable income field names, in display order.
// Names double as form field identifiers and storage column names.
func IncomeFields() []string {
	return []string{"salary_net_cents", "multibenefits_cents", "food_cents", "spouse_salary_cents"}
}

// Field returns the named income field value. Unknown names report false.
func (p IncomeProfile) Field(name string) (int64, bool) {
	switch name {
	case "salary_net_cents":
		return p.SalaryCents, true
	case "multibenefits_cents":
		return p.BenefitsCents, true
	case "food_cents":
		return p.FoodCents, true
	case "spouse_salary_cents":
		return p.ExtraCents, true
	}
	return 0, false
}

// WithField returns a copy of the profile with the named field replaced.
func (p IncomeProfile) WithField(name string, cents int64) (IncomeProfile, bool) {
	switch name {
	case "salary_net_cents":
		p.SalaryCents = cents
	case "multibenefits_cents":
		p.BenefitsCents = cents
	case "food_cents":
		p.FoodCents = cents
	case "spouse_salary_cents":
		p.ExtraCents = cents
	default:
		return p, false
	}
	return p, true
}
