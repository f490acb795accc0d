package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tripcounter/internal/amqp"
	"tripcounter/internal/core"
)

// ReportSource is the persisted report history the worker reads from.
type ReportSource interface {
	GetReport(ctx context.Context, historyID string) (core.MonthlyReport, error)
	ReportMirrored(ctx context.Context, historyID string) (bool, error)
	MarkReportMirrored(ctx context.Context, historyID string) error
}

// ReportMirror receives the mirrored report row, normally the spreadsheet.
type ReportMirror interface {
	AppendReportRow(ctx context.Context, historyID string, rep core.MonthlyReport) error
}

// ReportSyncWorker mirrors monthly reports saved in SQLite to the shared
// spreadsheet, driven by AMQP notifications.
type ReportSyncWorker struct {
	source ReportSource
	mirror ReportMirror
}

func NewReportSyncWorker(source ReportSource, mirror ReportMirror) *ReportSyncWorker {
	return &ReportSyncWorker{source: source, mirror: mirror}
}

// HandleReportSaved processes one report-saved message. It is safe under
// redelivery: already-mirrored reports are acked without a second write.
func (w *ReportSyncWorker) HandleReportSaved(ctx context.Context, msg *amqp.ReportSavedMessage) error {
	slog.InfoContext(ctx, "Processing report sync message",
		"history_id", msg.HistoryID,
		"month", msg.Month,
		"year", msg.Year)

	mirrored, err := w.source.ReportMirrored(ctx, msg.HistoryID)
	if errors.Is(err, core.ErrNotFound) {
		// The row was removed or the message is garbage; requeueing
		// cannot fix it.
		slog.WarnContext(ctx, "Report history row not found, dropping message",
			"history_id", msg.HistoryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("check mirrored state: %w", err)
	}
	if mirrored {
		slog.InfoContext(ctx, "Report already mirrored, skipping",
			"history_id", msg.HistoryID)
		return nil
	}

	rep, err := w.source.GetReport(ctx, msg.HistoryID)
	if err != nil {
		return fmt.Errorf("get report from history: %w", err)
	}

	if err := w.mirror.AppendReportRow(ctx, msg.HistoryID, rep); err != nil {
		return fmt.Errorf("append report to mirror: %w", err)
	}

	if err := w.source.MarkReportMirrored(ctx, msg.HistoryID); err != nil {
		// The mirror write succeeded; a redelivery would duplicate the
		// row, so log and ack anyway.
		slog.ErrorContext(ctx, "Failed to mark report mirrored",
			"history_id", msg.HistoryID,
			"error", err)
	}

	slog.InfoContext(ctx, "Report mirrored",
		"history_id", msg.HistoryID,
		"month", rep.Month,
		"year", rep.Year)

	return nil
}
