// Package legacy migrates previously persisted record and income shapes into
// the current canonical form. Two generations exist: the original blobs kept
// plain decimal amounts and camelCase metadata, the current one keeps integer
// cents and snake_case fields. Detection is by presence of version-specific
// fields; each generation has its own mapper.
//
// Normalization never fails: malformed input degrades to defaults, which is
// the accepted trade-off over refusing to start. Normalizing already
// canonical data is a no-op.
package legacy

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"gastos/internal/core"
)

// RawRecord is the loose persisted shape of an expense record across both
// generations. Pointer fields distinguish absent from zero.
type RawRecord struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`

	// Current generation.
	AmountCents *int64     `json:"amount_cents"`
	CreatedAt   *time.Time `json:"created_at"`
	Origin      *RawOrigin `json:"origin"`

	// Prior generation: decimal amount, camelCase timestamp, "meta" tag.
	Amount       *float64   `json:"amount"`
	CreatedAtOld string     `json:"createdAt"`
	Meta         *RawOrigin `json:"meta"`
}

// RawOrigin covers both field-name generations of the origin tag.
type RawOrigin struct {
	Type      string `json:"type"`
	SeriesID  string `json:"series_id"`
	FromMonth string `json:"from_month"`
	ToMonth   string `json:"to_month"`

	SeriesIDOld  string `json:"seriesId"`
	FromMonthOld string `json:"fromMonth"`
	ToMonthOld   string `json:"toMonth"`
}

// RawIncome covers both field-name generations of the income profile.
// The prior generation stored plain decimal currency units.
type RawIncome struct {
	SalaryNetCents     *int64 `json:"salary_net_cents"`
	MultibenefitsCents *int64 `json:"multibenefits_cents"`
	FoodCents          *int64 `json:"food_cents"`
	SpouseSalaryCents  *int64 `json:"spouse_salary_cents"`

	Salary        *float64 `json:"salary"`
	Multibenefits *float64 `json:"multibenefits"`
	Food          *float64 `json:"food"`
	Spouse        *float64 `json:"spouse"`
}

// NormalizeRecord maps a raw record into the canonical shape. The owning
// month comes from the enclosing collection key. Missing id, category,
// timestamp, and origin are filled with defaults; a decimal legacy amount is
// converted to cents with half-up rounding.
func NormalizeRecord(raw RawRecord, month core.MonthKey) core.ExpenseRecord {
	rec := core.ExpenseRecord{
		ID:          raw.ID,
		Month:       month,
		Description: raw.Description,
		AmountCents: normalizeAmount(raw),
		Origin:      normalizeOrigin(raw),
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	rec.Category = core.Category(raw.Category)
	if !rec.Category.Valid() {
		rec.Category = core.DefaultCategory()
	}

	switch {
	case raw.CreatedAt != nil:
		rec.CreatedAt = *raw.CreatedAt
	case raw.CreatedAtOld != "":
		if t, err := time.Parse(time.RFC3339, raw.CreatedAtOld); err == nil {
			rec.CreatedAt = t
		}
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	return rec
}

func normalizeAmount(raw RawRecord) int64 {
	switch {
	case raw.AmountCents != nil:
		return *raw.AmountCents
	case raw.Amount != nil:
		return DecimalToCents(*raw.Amount)
	}
	return 0
}

func normalizeOrigin(raw RawRecord) core.Origin {
	src := raw.Origin
	if src == nil {
		src = raw.Meta
	}
	if src == nil {
		return core.Origin{Type: core.OriginSingle}
	}

	origin := core.Origin{Type: core.OriginType(src.Type)}
	if origin.Type != core.OriginRange {
		origin.Type = core.OriginSingle
		return origin
	}

	origin.SeriesID = pick(src.SeriesID, src.SeriesIDOld)
	origin.FromMonth = core.MonthKey(pick(src.FromMonth, src.FromMonthOld))
	origin.ToMonth = core.MonthKey(pick(src.ToMonth, src.ToMonthOld))
	return origin
}

// NormalizeIncome maps a raw income blob into the canonical profile. Each
// field follows one rule: current-generation cents value if present, else
// prior-generation decimal value converted to cents, else the fixed seed
// default. The rule checks presence, not zeroness, so a legitimately zero
// field survives. A nil input returns the full seed set.
func NormalizeIncome(raw *RawIncome) core.IncomeProfile {
	seed := core.DefaultIncome()
	if raw == nil {
		return seed
	}
	return core.IncomeProfile{
		SalaryCents:   incomeField(raw.SalaryNetCents, raw.Salary, seed.SalaryCents),
		BenefitsCents: incomeField(raw.MultibenefitsCents, raw.Multibenefits, seed.BenefitsCents),
		FoodCents:     incomeField(raw.FoodCents, raw.Food, seed.FoodCents),
		ExtraCents:    incomeField(raw.SpouseSalaryCents, raw.Spouse, seed.ExtraCents),
	}
}

func incomeField(cents *int64, decimal *float64, fallback int64) int64 {
	switch {
	case cents != nil:
		return *cents
	case decimal != nil:
		return DecimalToCents(*decimal)
	}
	return fallback
}

// DecimalToCents converts a decimal currency amount to cents, rounding
// half away from zero.
func DecimalToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// DecodeBook parses a persisted month-to-records blob of either generation
// into canonical records. Unparsable blobs and entries under malformed month
// keys come back empty rather than failing.
func DecodeBook(data []byte) map[core.MonthKey][]core.ExpenseRecord {
	var raw map[string][]RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return map[core.MonthKey][]core.ExpenseRecord{}
	}

	book := make(map[core.MonthKey][]core.ExpenseRecord, len(raw))
	for key, rawRecords := range raw {
		month, err := core.ParseMonthKey(key)
		if err != nil {
			continue
		}
		records := make([]core.ExpenseRecord, 0, len(rawRecords))
		for _, r := range rawRecords {
			records = append(records, NormalizeRecord(r, month))
		}
		book[month] = records
	}
	return book
}

// DecodeIncome parses a persisted income blob of either generation.
// Unparsable input yields the seed defaults.
func DecodeIncome(data []byte) core.IncomeProfile {
	var raw RawIncome
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.DefaultIncome()
	}
	return NormalizeIncome(&raw)
}

func pick(current, old string) string {
	if current != "" {
		return current
	}
	return old
}
