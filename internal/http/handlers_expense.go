package http

import (
	"errors"
	"net/http"
	"strings"

	"gastos/internal/amqp"
	"gastos/internal/auth"
	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"
	"gastos/internal/store"
)

// mutationRequest carries the form fields every mutation shares: the month
// being viewed and the active category filter, both echoed back in the
// re-rendered section.
type mutationRequest struct {
	userID string
	month  core.MonthKey
	filter core.Category
}

func (s *Server) parseMutation(w http.ResponseWriter, r *http.Request) (mutationRequest, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return mutationRequest{}, false
	}
	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "form parse failed", log.FieldError, err.Error())
		writeHTML(w, http.StatusBadRequest, `<div class="error">Requisição inválida.</div>`)
		return mutationRequest{}, false
	}
	return mutationRequest{
		userID: auth.UserID(r.Context()),
		month:  parseMonth(r.Form.Get("month")),
		filter: parseFilter(r.Form.Get("filter")),
	}, true
}

// respondMonth re-renders the month section, optionally with an inline
// error. Mutations always answer with the section so the page fragment
// swap shows current state.
func (s *Server) respondMonth(w http.ResponseWriter, r *http.Request, req mutationRequest, errMsg string, status int) {
	view, err := s.buildMonthView(r.Context(), req.userID, req.month, req.filter, errMsg)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "month render failed",
			log.FieldError, err.Error(),
			log.FieldMonthKey, string(req.month))
		writeHTML(w, http.StatusInternalServerError, `<div class="error">Erro ao carregar o mês.</div>`)
		return
	}
	html, err := s.renderMonthSection(view)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "month template failed", log.FieldError, err.Error())
		writeHTML(w, http.StatusInternalServerError, `<div class="error">Erro ao renderizar o mês.</div>`)
		return
	}
	writeHTML(w, status, html)
}

// userMessage translates validation sentinels to the inline texts the form
// shows. Unknown errors report false and become a 500.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		return "Descreva o gasto.", true
	case errors.Is(err, core.ErrInvalidAmount):
		return "Valor inválido.", true
	case errors.Is(err, core.ErrEmptyRange):
		return "Período inválido: o mês final vem antes do inicial.", true
	case errors.Is(err, core.ErrInvalidCategory):
		return "Categoria inválida.", true
	case errors.Is(err, core.ErrInvalidMonthKey):
		return "Mês inválido.", true
	}
	return "", false
}

func (s *Server) respondMutationError(w http.ResponseWriter, r *http.Request, req mutationRequest, err error) {
	if msg, ok := userMessage(err); ok {
		s.respondMonth(w, r, req, msg, http.StatusUnprocessableEntity)
		return
	}
	s.logger.ErrorContext(r.Context(), "mutation failed",
		log.FieldError, err.Error(),
		log.FieldMonthKey, string(req.month))
	s.respondMonth(w, r, req, "Erro ao salvar. Tente novamente.", http.StatusInternalServerError)
}

func entryCategory(raw string) (core.Category, error) {
	cat := core.Category(strings.TrimSpace(raw))
	if !cat.Valid() {
		return "", core.ErrInvalidCategory
	}
	return cat, nil
}

func (s *Server) handleAddSingle(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseMutation(w, r)
	if !ok {
		return
	}

	cat, err := entryCategory(r.Form.Get("category"))
	if err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}
	rec, err := ledger.BuildSingle(req.month, ledger.EntryInput{
		Category:    cat,
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      strings.TrimSpace(r.Form.Get("amount")),
	})
	if err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	if err := s.store.AddRecords(r.Context(), req.userID, []core.ExpenseRecord{rec}); err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	s.publishSync(r, req.userID, rec)
	s.invalidateMonth(req.userID, req.month)
	s.logger.InfoContext(r.Context(), "expense added",
		log.FieldRecordID, rec.ID,
		log.FieldMonthKey, string(rec.Month),
		log.FieldCategory, string(rec.Category),
		log.FieldAmountCents, rec.AmountCents)
	s.respondMonth(w, r, req, "", http.StatusOK)
}

func (s *Server) handleAddRange(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseMutation(w, r)
	if !ok {
		return
	}

	from := core.MonthKey(strings.TrimSpace(r.Form.Get("from")))
	to := core.MonthKey(strings.TrimSpace(r.Form.Get("to")))
	if from.Validate() != nil || to.Validate() != nil {
		s.respondMutationError(w, r, req, core.ErrInvalidMonthKey)
		return
	}
	cat, err := entryCategory(r.Form.Get("category"))
	if err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	records, err := ledger.BuildSeries(from, to, ledger.EntryInput{
		Category:    cat,
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      strings.TrimSpace(r.Form.Get("amount")),
	})
	if err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	if err := s.store.AddRecords(r.Context(), req.userID, records); err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	for _, rec := range records {
		s.publishSync(r, req.userID, rec)
		s.invalidateMonth(req.userID, rec.Month)
	}
	s.logger.InfoContext(r.Context(), "expense series added",
		log.FieldSeriesID, records[0].Origin.SeriesID,
		"months", len(records),
		log.FieldCategory, string(records[0].Category))
	s.respondMonth(w, r, req, "", http.StatusOK)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseMutation(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		s.respondMonth(w, r, req, "", http.StatusOK)
		return
	}
	if err := s.store.DeleteRecords(r.Context(), store.Scope{UserID: req.userID, Month: req.month}, []string{id}); err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	s.invalidateMonth(req.userID, req.month)
	s.logger.InfoContext(r.Context(), "expense deleted",
		log.FieldRecordID, id,
		log.FieldMonthKey, string(req.month))
	s.respondMonth(w, r, req, "", http.StatusOK)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseMutation(w, r)
	if !ok {
		return
	}

	ids := splitIDs(r.Form.Get("ids"))
	if len(ids) == 0 {
		s.respondMonth(w, r, req, "", http.StatusOK)
		return
	}
	if err := s.store.DeleteRecords(r.Context(), store.Scope{UserID: req.userID, Month: req.month}, ids); err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	s.invalidateMonth(req.userID, req.month)
	s.logger.InfoContext(r.Context(), "expense group deleted",
		"count", len(ids),
		log.FieldMonthKey, string(req.month))
	s.respondMonth(w, r, req, "", http.StatusOK)
}

func (s *Server) handleClearMonth(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseMutation(w, r)
	if !ok {
		return
	}

	if err := s.store.ClearMonth(r.Context(), store.Scope{UserID: req.userID, Month: req.month}); err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	s.invalidateMonth(req.userID, req.month)
	s.logger.InfoContext(r.Context(), "month cleared", log.FieldMonthKey, string(req.month))
	s.respondMonth(w, r, req, "", http.StatusOK)
}

func (s *Server) handleReassign(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseMutation(w, r)
	if !ok {
		return
	}

	to, err := entryCategory(r.Form.Get("to"))
	if err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}
	ids := splitIDs(r.Form.Get("ids"))
	if len(ids) == 0 {
		s.respondMonth(w, r, req, "", http.StatusOK)
		return
	}

	if err := s.store.ReassignCategory(r.Context(), store.Scope{UserID: req.userID, Month: req.month}, ids, to); err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	s.invalidateMonth(req.userID, req.month)
	s.logger.InfoContext(r.Context(), "group reassigned",
		"count", len(ids),
		log.FieldCategory, string(to),
		log.FieldMonthKey, string(req.month))
	s.respondMonth(w, r, req, "", http.StatusOK)
}

// publishSync is best effort: a broker outage logs a warning and the
// request still succeeds.
func (s *Server) publishSync(r *http.Request, userID string, rec core.ExpenseRecord) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewRecordSyncMessage(userID, rec.ID, rec.Month)
	if err := s.publisher.PublishRecordSync(r.Context(), msg); err != nil {
		s.logger.WarnContext(r.Context(), "sync publish failed",
			log.FieldError, err.Error(),
			log.FieldRecordID, rec.ID)
	}
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
