package http

import (
	"context"
	"strings"

	"gastos/internal/core"
	"gastos/internal/store"
)

// View models are fully pre-formatted so the templates stay logic-free.

type monthOption struct {
	Key      string
	Label    string
	Selected bool
}

type categoryOption struct {
	Key   string
	Label string
}

type categoryCard struct {
	Key    string
	Label  string
	Total  string
	Active bool
}

type incomeField struct {
	Name  string
	Label string
	Value string
}

type groupRow struct {
	FirstID       string
	IDs           string
	Description   string
	CategoryKey   string
	CategoryLabel string
	Total         string
	Count         int
	When          string
}

type monthView struct {
	Month       string
	MonthLabel  string
	Options     []monthOption
	Error       string
	AuthEnabled bool

	IncomeTotal     string
	ExpenseTotal    string
	Balance         string
	BalanceNegative bool
	IncomeFields    []incomeField

	Cards      []categoryCard
	Categories []categoryOption
	Filter     string
	FilterAll  bool

	Groups   []groupRow
	HasEntry bool
}

var incomeLabels = []struct {
	name  string
	label string
}{
	{"salary_net_cents", "Seu salário (líquido)"},
	{"multibenefits_cents", "Multibenefícios"},
	{"food_cents", "Alimentação"},
	{"spouse_salary_cents", "Salário esposa"},
}

// parseMonth falls back to the current month on a missing or malformed key.
func parseMonth(raw string) core.MonthKey {
	month := core.MonthKey(strings.TrimSpace(raw))
	if month.Validate() != nil {
		return core.CurrentMonthKey()
	}
	return month
}

// parseFilter maps unknown categories to the all filter.
func parseFilter(raw string) core.Category {
	filter := core.Category(strings.TrimSpace(raw))
	if filter == "" || !filter.Valid() {
		return core.CategoryAll
	}
	return filter
}

func (s *Server) buildMonthView(ctx context.Context, userID string, month core.MonthKey, filter core.Category, errMsg string) (monthView, error) {
	scope := store.Scope{UserID: userID, Month: month}

	records, err := s.store.ListRecords(ctx, scope)
	if err != nil {
		return monthView{}, err
	}
	income, err := s.store.Income(ctx, scope)
	if err != nil {
		return monthView{}, err
	}

	incomeTotal := income.Total()
	expenseTotal := core.TotalCents(records)
	balance := core.Balance(incomeTotal, expenseTotal)
	byCategory := core.SumByCategory(records, core.Categories())

	view := monthView{
		Month:           string(month),
		MonthLabel:      month.Label(),
		Options:         s.monthOptions(month),
		Error:           errMsg,
		AuthEnabled:     s.auth != nil,
		IncomeTotal:     core.FormatBRL(incomeTotal),
		ExpenseTotal:    core.FormatBRL(expenseTotal),
		Balance:         core.FormatBRL(balance),
		BalanceNegative: balance < 0,
		Filter:          string(filter),
		FilterAll:       filter == core.CategoryAll,
		HasEntry:        len(records) > 0,
	}

	for _, f := range incomeLabels {
		cents, _ := income.Field(f.name)
		view.IncomeFields = append(view.IncomeFields, incomeField{
			Name:  f.name,
			Label: f.label,
			Value: core.FormatCents(cents),
		})
	}

	for _, cat := range core.Categories() {
		view.Cards = append(view.Cards, categoryCard{
			Key:    string(cat),
			Label:  cat.Label(),
			Total:  core.FormatBRL(byCategory[cat]),
			Active: cat == filter,
		})
		view.Categories = append(view.Categories, categoryOption{
			Key:   string(cat),
			Label: cat.Label(),
		})
	}

	visible := core.FilterByCategory(records, filter)
	for _, g := range core.GroupRecords(visible) {
		view.Groups = append(view.Groups, groupRow{
			FirstID:       g.IDs[0],
			IDs:           strings.Join(g.IDs, ","),
			Description:   g.Description,
			CategoryKey:   string(g.Category),
			CategoryLabel: g.Category.Label(),
			Total:         core.FormatBRL(g.TotalCents),
			Count:         g.Count,
			When:          g.LatestAt.Format("02/01/2006 15:04"),
		})
	}

	return view, nil
}

// monthOptions is the selector window centered on the current month. The
// viewed month is appended when it falls outside the window so the selector
// never loses it.
func (s *Server) monthOptions(selected core.MonthKey) []monthOption {
	window := core.MonthWindow(core.CurrentMonthKey(), s.windowPast, s.windowFuture)

	seen := false
	options := make([]monthOption, 0, len(window)+1)
	for _, m := range window {
		if m == selected {
			seen = true
		}
		options = append(options, monthOption{
			Key:      string(m),
			Label:    m.Label(),
			Selected: m == selected,
		})
	}
	if !seen {
		options = append(options, monthOption{
			Key:      string(selected),
			Label:    selected.Label(),
			Selected: true,
		})
	}
	return options
}
