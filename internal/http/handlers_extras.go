package http

import (
	"log/slog"
	"net/http"

	"tripcounter/internal/core"
)

type extraRequest struct {
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"hora_inicio"`
	HoraFin    string `json:"hora_fin"`
	Monto      any    `json:"monto"`
}

func (s *Server) handleExtras(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExtras(w, r)
	case http.MethodPost:
		s.createExtra(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	}
}

func (s *Server) listExtras(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	extras, err := s.store.ListExtras(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list extras", "date", date.String(), "error", err)
		writeDomainError(w, err)
		return
	}

	payloads := make([]extraPayload, 0, len(extras))
	for _, e := range extras {
		payloads = append(payloads, toExtraPayload(e))
	}

	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) createExtra(w http.ResponseWriter, r *http.Request) {
	var req extraRequest
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

	extra := core.ExtraTrip{
		Date:       date,
		HoraInicio: sanitizeInput(req.HoraInicio),
		HoraFin:    sanitizeInput(req.HoraFin),
		Monto:      monto,
	}
	if err := extra.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	saved, err := s.store.AppendExtra(r.Context(), extra)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "ok",
		"extra":  toExtraPayload(saved),
	})
}
