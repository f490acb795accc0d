package http

import (
	"errors"
	"log/slog"
	"net/http"

	"tripcounter/internal/core"
)

type odometerRequest struct {
	Fecha   string `json:"fecha"`
	KMValue any    `json:"km_value"`
	Action  string `json:"action"`
	Notas   string `json:"notas"`
}

func (s *Server) handleOdometer(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getOdometer(w, r)
	case http.MethodPost:
		s.recordOdometer(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	}
}

func (s *Server) getOdometer(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	reading, err := s.store.GetOdometer(r.Context(), date)
	if errors.Is(err, core.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "no_record"})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to get odometer reading", "date", date.String(), "error", err)
		writeDomainError(w, err)
		return
	}

	payload := map[string]any{
		"status":    "started",
		"Fecha":     reading.Date.String(),
		"KM Inicio": reading.KMStart,
		"Notas":     reading.Notas,
	}
	if reading.Complete() {
		payload["status"] = "complete"
		payload["KM Fin"] = *reading.KMEnd
		payload["Recorrido"] = reading.Recorrido()
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) recordOdometer(w http.ResponseWriter, r *http.Request) {
	var req odometerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	date, err := bodyDate(req.Fecha)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	km, ok := coerceFloat(req.KMValue)
	if !ok || km < 0 {
		writeError(w, http.StatusBadRequest, "invalid_km")
		return
	}

	switch req.Action {
	case "start":
		reading := core.OdometerReading{
			Date:    date,
			KMStart: km,
			Notas:   sanitizeInput(req.Notas),
		}
		saved, err := s.store.StartOdometer(r.Context(), reading)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"status":    "ok",
			"km_inicio": saved.KMStart,
		})
	case "end":
		saved, err := s.store.EndOdometer(r.Context(), date, km, sanitizeInput(req.Notas))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"km_fin":    *saved.KMEnd,
			"recorrido": saved.Recorrido(),
		})
	default:
		writeError(w, http.StatusBadRequest, "invalid_action")
	}
}
