package http

import (
	"bytes"
	"context"
	"net/http"

	"gastos/internal/auth"
	"gastos/internal/core"
	"gastos/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	userID := auth.UserID(r.Context())
	month := parseMonth(r.URL.Query().Get("month"))
	filter := parseFilter(r.URL.Query().Get("filter"))

	section, err := s.monthSection(r.Context(), userID, month, filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "month section failed",
			log.FieldError, err.Error(),
			log.FieldMonthKey, string(month))
		http.Error(w, "erro ao carregar o mês", http.StatusInternalServerError)
		return
	}

	data := struct {
		Month        string
		MonthLabel   string
		AuthEnabled  bool
		MonthSection any
	}{
		Month:        string(month),
		MonthLabel:   month.Label(),
		AuthEnabled:  s.auth != nil,
		MonthSection: section,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "index template failed", log.FieldError, err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleMonthPartial serves the month section fragment for selector changes
// and category filter clicks.
func (s *Server) handleMonthPartial(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	month := parseMonth(r.URL.Query().Get("month"))
	filter := parseFilter(r.URL.Query().Get("filter"))

	key := s.cacheKey(userID, month, filter)
	if html, found := s.monthCache.Get(key); found {
		s.logger.Debug("month partial cache hit", log.FieldMonthKey, string(month))
		writeHTML(w, http.StatusOK, html)
		return
	}

	view, err := s.buildMonthView(r.Context(), userID, month, filter, "")
	if err != nil {
		s.logger.ErrorContext(r.Context(), "month partial failed",
			log.FieldError, err.Error(),
			log.FieldMonthKey, string(month))
		writeHTML(w, http.StatusInternalServerError, `<div class="error">Erro ao carregar o mês.</div>`)
		return
	}

	html, err := s.renderMonthSection(view)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "month template failed", log.FieldError, err.Error())
		writeHTML(w, http.StatusInternalServerError, `<div class="error">Erro ao renderizar o mês.</div>`)
		return
	}
	s.monthCache.Set(key, html)
	writeHTML(w, http.StatusOK, html)
}

// monthSection returns the section view for full-page renders, going
// through the same builder the partial uses but skipping the string cache.
func (s *Server) monthSection(ctx context.Context, userID string, month core.MonthKey, filter core.Category) (monthView, error) {
	return s.buildMonthView(ctx, userID, month, filter, "")
}

func (s *Server) renderMonthSection(view monthView) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "month_section.html", view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Server) cacheKey(userID string, month core.MonthKey, filter core.Category) string {
	return userID + "|" + string(month) + "|" + string(filter)
}

// invalidateMonth drops every cached filter variant of one month.
func (s *Server) invalidateMonth(userID string, month core.MonthKey) {
	s.monthCache.DeletePrefix(userID + "|" + string(month) + "|")
}

// invalidateUser drops every cached month of one user. Income edits use it:
// on the blob backend the profile spans all months.
func (s *Server) invalidateUser(userID string) {
	s.monthCache.DeletePrefix(userID + "|")
}

func writeHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}
