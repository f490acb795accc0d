package http

import (
	"log/slog"
	"net/http"

	"tripcounter/internal/core"
)

type expenseRequest struct {
	Fecha       string `json:"fecha"`
	Hora        string `json:"hora"`
	Monto       any    `json:"monto"`
	Categoria   string `json:"categoria"`
	Descripcion string `json:"descripcion"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	expenses, err := s.store.ListExpenses(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses", "date", date.String(), "error", err)
		writeDomainError(w, err)
		return
	}

	payloads := make([]expensePayload, 0, len(expenses))
	for _, e := range expenses {
		payloads = append(payloads, toExpensePayload(e))
	}

	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	date, err := bodyDate(req.Fecha)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	monto, err := coerceMoney(req.Monto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_monto")
		return
	}

	expense := core.Expense{
		Date:        date,
		Hora:        sanitizeInput(req.Hora),
		Monto:       monto,
		Categoria:   sanitizeInput(req.Categoria),
		Descripcion: sanitizeInput(req.Descripcion),
	}
	if err := expense.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	saved, err := s.store.AppendExpense(r.Context(), expense)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "ok",
		"expense": toExpensePayload(saved),
	})
}
