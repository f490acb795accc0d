package http

import (
	"log/slog"
	"net/http"

	"tripcounter/internal/core"
)

type tripRequest struct {
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"hora_inicio"`
	HoraFin    string `json:"hora_fin"`
	Monto      any    `json:"monto"`
	Propina    any    `json:"propina"`
	Aeropuerto bool   `json:"aeropuerto"`
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTrips(w, r)
	case http.MethodPost:
		s.createTrip(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	}
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	trips, err := s.store.ListTrips(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list trips", "date", date.String(), "error", err)
		writeDomainError(w, err)
		return
	}

	payloads := make([]tripPayload, 0, len(trips))
	for _, t := range trips {
		payloads = append(payloads, toTripPayload(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trips": payloads,
		"bonus": s.schedule.BonusFor(len(trips)).Soles(),
	})
}

func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
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
	propina, err := coerceMoney(req.Propina)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_monto")
		return
	}

	trip := core.Trip{
		Date:       date,
		HoraInicio: sanitizeInput(req.HoraInicio),
		HoraFin:    sanitizeInput(req.HoraFin),
		Monto:      monto,
		Propina:    propina,
		Aeropuerto: req.Aeropuerto,
	}
	if err := trip.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	saved, err := s.store.AppendTrip(r.Context(), trip)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	trips, err := s.store.ListTrips(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to count trips after save", "date", date.String(), "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":    "ok",
		"trip":      toTripPayload(saved),
		"new_bonus": s.schedule.BonusFor(len(trips)).Soles(),
	})
}
