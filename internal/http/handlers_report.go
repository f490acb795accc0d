package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tripcounter/internal/core"
)

// maxSummaryFetches bounds concurrent per-day loads against the backend.
const maxSummaryFetches = 8

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}

	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid_month")
		return
	}

	report, err := s.buildMonthlyReport(r, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build monthly report",
			"year", year, "month", month, "error", err)
		writeDomainError(w, err)
		return
	}

	response := map[string]any{"report": toReportPayload(report)}

	// Persisting the report is best effort: the computed numbers go back to
	// the client either way.
	historyID, err := s.store.AppendReport(r.Context(), report)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save monthly report",
			"year", year, "month", month, "error", err)
		response["save_error"] = err.Error()
		writeJSON(w, http.StatusOK, response)
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReportSaved(r.Context(), historyID, month, year); err != nil {
			slog.ErrorContext(r.Context(), "Failed to publish report saved event",
				"history_id", historyID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// buildMonthlyReport computes each day of the month concurrently and folds
// the summaries in day order.
func (s *Server) buildMonthlyReport(r *http.Request, year, month int) (core.MonthlyReport, error) {
	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	summaries := make([]core.DaySummary, daysInMonth)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(maxSummaryFetches)
	for day := 1; day <= daysInMonth; day++ {
		day := day
		g.Go(func() error {
			summary, err := s.buildDaySummary(ctx, core.NewDate(year, month, day))
			if err != nil {
				return err
			}
			mu.Lock()
			summaries[day-1] = summary
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.MonthlyReport{}, err
	}

	report := core.MonthlyReport{Month: month, Year: year}
	for _, summary := range summaries {
		report.AddDay(summary)
	}
	return report, nil
}
