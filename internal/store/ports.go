package store

import (
	"context"

	"tripcounter/internal/core"
)

// Ports for outbound record stores. Every adapter (memory, sqlite, sheets)
// implements the full set; handlers depend on the narrow interfaces only.
//
// Append operations assign the record's ID and sequence number and enforce
// the duplicate-trip precondition, returning core.ErrDuplicate.
type (
	TripStore interface {
		AppendTrip(ctx context.Context, t core.Trip) (core.Trip, error)
		ListTrips(ctx context.Context, date core.Date) ([]core.Trip, error)
	}

	ExtraStore interface {
		AppendExtra(ctx context.Context, e core.ExtraTrip) (core.ExtraTrip, error)
		ListExtras(ctx context.Context, date core.Date) ([]core.ExtraTrip, error)
	}

	ExpenseStore interface {
		AppendExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		ListExpenses(ctx context.Context, date core.Date) ([]core.Expense, error)
	}

	// OdometerStore drives the per-date reading lifecycle:
	// no record -> started (StartOdometer) -> complete (EndOdometer, terminal).
	OdometerStore interface {
		StartOdometer(ctx context.Context, r core.OdometerReading) (core.OdometerReading, error)
		EndOdometer(ctx context.Context, date core.Date, kmEnd float64, notas string) (core.OdometerReading, error)
		GetOdometer(ctx context.Context, date core.Date) (core.OdometerReading, error)
	}

	// BudgetStore addresses items by the stable ID issued at creation.
	// MarkPaid on an already-paid item is a no-op, not an error.
	BudgetStore interface {
		AppendBudgetItem(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error)
		ListBudgetItems(ctx context.Context) ([]core.BudgetItem, error)
		MarkPaid(ctx context.Context, id string) (core.BudgetItem, error)
		DeleteBudgetItem(ctx context.Context, id string) error
	}

	// ReportHistory is the persisted monthly-report log. Append failures are
	// surfaced to callers but never abort the report computation.
	ReportHistory interface {
		AppendReport(ctx context.Context, r core.MonthlyReport) (historyID string, err error)
	}
)

// Backend bundles every port a fully-featured adapter provides.
type Backend interface {
	TripStore
	ExtraStore
	ExpenseStore
	OdometerStore
	BudgetStore
	ReportHistory
}
