package core

import (
	"sort"
	"strings"
	"time"
)

// Group is a derived aggregate over the records of one month that share a
// category and a normalized description. It is recomputed on every read and
// never stored.
type Group struct {
	Category    Category
	Description string // display form, taken from the first member
	TotalCents  int64
	Count       int
	IDs         []string
	LatestAt    time.Time
}

// Key identifies the group: category joined with the trimmed, case-folded
// description.
func (g Group) Key() string {
	return groupKey(g.Category, g.Description)
}

func groupKey(c Category, description string) string {
	return string(c) + "|" + strings.ToLower(strings.TrimSpace(description))
}

// SumByCategory totals record amounts per category. Every category in cats
// is present in the result, absent ones at 0. Order-independent, integer
// addition only.
func SumByCategory(records []ExpenseRecord, cats []Category) map[Category]int64 {
	sums := make(map[Category]int64, len(cats))
	for _, c := range cats {
		sums[c] = 0
	}
	for _, r := range records {
		sums[r.Category] += r.AmountCents
	}
	return sums
}

// TotalCents sums all record amounts.
func TotalCents(records []ExpenseRecord) int64 {
	var total int64
	for _, r := range records {
		total += r.AmountCents
	}
	return total
}

// Balance is income minus expenses, signed.
func Balance(incomeCents, expenseCents int64) int64 {
	return incomeCents - expenseCents
}

// FilterByCategory keeps only records of the given category, preserving
// input order. CategoryAll passes the input through unchanged.
func FilterByCategory(records []ExpenseRecord, c Category) []ExpenseRecord {
	if c == CategoryAll {
		return records
	}
	var out []ExpenseRecord
	for _, r := range records {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// GroupRecords folds records into Groups keyed by (category, normalized
// description). Each member adds its amount to the group total, its id to
// the member list, and pushes the group's latest timestamp forward. Groups
// come back sorted most-recently-touched first; ties keep encounter order.
//
// An empty input yields an empty slice. A zero-amount record contributes 0
// but still counts as a member.
func GroupRecords(records []ExpenseRecord) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0, len(records))

	for _, r := range records {
		key := groupKey(r.Category, r.Description)
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{
				Category:    r.Category,
				Description: strings.TrimSpace(r.Description),
			})
		}
		g := &groups[i]
		g.Count++
		g.TotalCents += r.AmountCents
		g.IDs = append(g.IDs, r.ID)
		if r.CreatedAt.After(g.LatestAt) {
			g.LatestAt = r.CreatedAt
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].LatestAt.After(groups[b].LatestAt)
	})
	return groups
}
