package http

import (
	"log/slog"
	"net/http"
	"strings"

	"tripcounter/internal/core"
)

type budgetCreateRequest struct {
	Categoria string `json:"categoria"`
	Monto     any    `json:"monto"`
	TipoGasto string `json:"tipo_gasto"`
	FechaPago string `json:"fecha_pago"`
}

// budgetTargetRequest addresses an existing item. ID is preferred; row_index
// is the legacy positional form (1-based with a header row offset).
type budgetTargetRequest struct {
	ID       string `json:"id"`
	RowIndex int    `json:"row_index"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBudget(w, r)
	case http.MethodPost:
		s.createBudgetItem(w, r)
	case http.MethodPut:
		s.markBudgetPaid(w, r)
	case http.MethodDelete:
		s.deleteBudgetItem(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	}
}

func (s *Server) listBudget(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListBudgetItems(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list budget items", "error", err)
		writeDomainError(w, err)
		return
	}

	payloads := make([]budgetPayload, 0, len(items))
	for i, b := range items {
		payloads = append(payloads, toBudgetPayload(b, i+2))
	}

	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) createBudgetItem(w http.ResponseWriter, r *http.Request) {
	var req budgetCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	monto, err := coerceMoney(req.Monto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_monto")
		return
	}

	item := core.BudgetItem{
		Categoria: sanitizeInput(req.Categoria),
		Monto:     monto,
		Tipo:      core.BudgetType(strings.TrimSpace(req.TipoGasto)),
	}
	if v := strings.TrimSpace(req.FechaPago); v != "" {
		due, err := core.ParseDate(v)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		item.FechaPago = due
	}
	if err := item.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	saved, err := s.store.AppendBudgetItem(r.Context(), item)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "ok",
		"entry":  toBudgetPayload(saved, 0),
	})
}

func (s *Server) markBudgetPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveBudgetTarget(w, r)
	if !ok {
		return
	}

	if _, err := s.store.MarkPaid(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) deleteBudgetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveBudgetTarget(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteBudgetItem(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveBudgetTarget turns a target request into a stable item ID,
// translating a legacy row_index via the current list order. It writes the
// error response itself when resolution fails.
func (s *Server) resolveBudgetTarget(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req budgetTargetRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return "", false
	}

	if id := strings.TrimSpace(req.ID); id != "" {
		return id, true
	}

	if req.RowIndex < 2 {
		writeError(w, http.StatusBadRequest, "missing_row_index")
		return "", false
	}

	items, err := s.store.ListBudgetItems(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to resolve budget row", "row_index", req.RowIndex, "error", err)
		writeDomainError(w, err)
		return "", false
	}
	i := req.RowIndex - 2
	if i >= len(items) {
		writeError(w, http.StatusNotFound, "not_found")
		return "", false
	}
	return items[i].ID, true
}
