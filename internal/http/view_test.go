package http

import (
	"testing"

	"gastos/internal/core"
)

func TestParseMonth(t *testing.T) {
	if got := parseMonth("2024-07"); got != core.MonthKey("2024-07") {
		t.Errorf("parseMonth(2024-07) = %q", got)
	}
	for _, raw := range []string{"", "2024-13", "julho", "2024-7"} {
		if got := parseMonth(raw); got != core.CurrentMonthKey() {
			t.Errorf("parseMonth(%q) = %q, want current month", raw, got)
		}
	}
}

func TestParseFilter(t *testing.T) {
	if got := parseFilter("mercado"); got != core.Category("mercado") {
		t.Errorf("parseFilter(mercado) = %q", got)
	}
	for _, raw := range []string{"", "viagens", "ALL"} {
		if got := parseFilter(raw); got != core.CategoryAll {
			t.Errorf("parseFilter(%q) = %q, want all", raw, got)
		}
	}
}

func TestMonthOptionsWindow(t *testing.T) {
	s := &Server{windowPast: 2, windowFuture: 1}
	current := core.CurrentMonthKey()

	options := s.monthOptions(current)
	if len(options) != 4 {
		t.Fatalf("len(options) = %d, want 4", len(options))
	}
	var selected int
	for _, opt := range options {
		if opt.Selected {
			selected++
			if opt.Key != string(current) {
				t.Errorf("selected option = %q, want %q", opt.Key, current)
			}
		}
	}
	if selected != 1 {
		t.Errorf("selected options = %d, want 1", selected)
	}
}

func TestMonthOptionsOutOfWindow(t *testing.T) {
	s := &Server{windowPast: 1, windowFuture: 1}
	old := core.CurrentMonthKey().Step(-60)

	options := s.monthOptions(old)
	last := options[len(options)-1]
	if last.Key != string(old) || !last.Selected {
		t.Errorf("out-of-window month not appended selected: %+v", last)
	}
}
