package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"tripcounter/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}

	date, err := queryDate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	summary, err := s.buildDaySummary(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build day summary", "date", date.String(), "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryPayload(summary))
}

// buildDaySummary loads the date's records and derives the summary. A missing
// odometer record is a normal state, not an error.
func (s *Server) buildDaySummary(ctx context.Context, date core.Date) (core.DaySummary, error) {
	trips, err := s.store.ListTrips(ctx, date)
	if err != nil {
		return core.DaySummary{}, err
	}
	extras, err := s.store.ListExtras(ctx, date)
	if err != nil {
		return core.DaySummary{}, err
	}
	expenses, err := s.store.ListExpenses(ctx, date)
	if err != nil {
		return core.DaySummary{}, err
	}

	var odo *core.OdometerReading
	reading, err := s.store.GetOdometer(ctx, date)
	switch {
	case err == nil:
		odo = &reading
	case errors.Is(err, core.ErrNotFound):
		// No reading recorded for the date.
	default:
		return core.DaySummary{}, err
	}

	return core.BuildDaySummary(date, trips, extras, expenses, odo, s.schedule), nil
}
