package http

import (
	"net/http"
	"strings"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/store"
)

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseMutation(w, r)
	if !ok {
		return
	}

	field := strings.TrimSpace(r.Form.Get("field"))
	if _, known := core.DefaultIncome().Field(field); !known {
		s.respondMonth(w, r, req, "Campo de receita desconhecido.", http.StatusUnprocessableEntity)
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil || cents < 0 {
		s.respondMonth(w, r, req, "Valor inválido.", http.StatusUnprocessableEntity)
		return
	}

	scope := store.Scope{UserID: req.userID, Month: req.month}
	if err := s.store.SetIncomeField(r.Context(), scope, field, cents); err != nil {
		s.respondMutationError(w, r, req, err)
		return
	}

	// The file backend keeps one income profile for every month, so a
	// field edit can change any cached month.
	s.invalidateUser(req.userID)
	s.logger.InfoContext(r.Context(), "income updated",
		"field", field,
		log.FieldAmountCents, cents,
		log.FieldMonthKey, string(req.month))
	s.respondMonth(w, r, req, "", http.StatusOK)
}
