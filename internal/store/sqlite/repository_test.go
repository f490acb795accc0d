package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tripcounter/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "tripcounter.db"))
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

func TestAppendTripAssignsNumeroPerDate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	date := mustDate(t, "2026-08-15")

	first, err := repo.AppendTrip(ctx, core.Trip{
		Date:       date,
		HoraInicio: "08:00",
		HoraFin:    "08:30",
		Monto:      core.Money{Cents: 2000},
	})
	if err != nil {
		t.Fatalf("AppendTrip() error = %v", err)
	}
	if first.Numero != 1 {
		t.Errorf("first trip numero = %d, want 1", first.Numero)
	}

	second, err := repo.AppendTrip(ctx, core.Trip{
		Date:       date,
		HoraInicio: "09:00",
		HoraFin:    "09:30",
		Monto:      core.Money{Cents: 1500},
		Aeropuerto: true,
	})
	if err != nil {
		t.Fatalf("AppendTrip() error = %v", err)
	}
	if second.Numero != 2 {
		t.Errorf("second trip numero = %d, want 2", second.Numero)
	}
	if second.Total.Cents != 1500+core.AirportFeeCents {
		t.Errorf("airport trip total = %d, want %d", second.Total.Cents, 1500+core.AirportFeeCents)
	}

	other, err := repo.AppendTrip(ctx, core.Trip{
		Date:       mustDate(t, "2026-08-16"),
		HoraInicio: "08:00",
		HoraFin:    "08:30",
		Monto:      core.Money{Cents: 1000},
	})
	if err != nil {
		t.Fatalf("AppendTrip() error = %v", err)
	}
	if other.Numero != 1 {
		t.Errorf("numero on new date = %d, want 1", other.Numero)
	}
}

func TestAppendTripDuplicateSlot(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	trip := core.Trip{
		Date:       mustDate(t, "2026-08-15"),
		HoraInicio: "08:00",
		HoraFin:    "08:30",
		Monto:      core.Money{Cents: 2000},
	}

	if _, err := repo.AppendTrip(ctx, trip); err != nil {
		t.Fatalf("AppendTrip() error = %v", err)
	}
	if _, err := repo.AppendTrip(ctx, trip); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("AppendTrip() duplicate error = %v, want ErrDuplicate", err)
	}

	trips, err := repo.ListTrips(ctx, trip.Date)
	if err != nil {
		t.Fatalf("ListTrips() error = %v", err)
	}
	if len(trips) != 1 {
		t.Errorf("len(trips) = %d, want 1", len(trips))
	}
}

func TestListTripsRoundTripPreservesCents(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	date := mustDate(t, "2026-08-15")

	saved, err := repo.AppendTrip(ctx, core.Trip{
		Date:       date,
		HoraInicio: "08:00",
		HoraFin:    "08:30",
		Monto:      core.Money{Cents: 2075},
		Propina:    core.Money{Cents: 125},
	})
	if err != nil {
		t.Fatalf("AppendTrip() error = %v", err)
	}

	trips, err := repo.ListTrips(ctx, date)
	if err != nil {
		t.Fatalf("ListTrips() error = %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("len(trips) = %d, want 1", len(trips))
	}
	got := trips[0]
	if got.Monto.Cents != 2075 || got.Propina.Cents != 125 {
		t.Errorf("round trip lost cents: monto=%d propina=%d", got.Monto.Cents, got.Propina.Cents)
	}
	if got.ID != saved.ID {
		t.Errorf("id changed across round trip: %q vs %q", got.ID, saved.ID)
	}
}

func TestOdometerLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	date := mustDate(t, "2026-08-15")

	if _, err := repo.EndOdometer(ctx, date, 150, ""); !errors.Is(err, core.ErrNotStarted) {
		t.Fatalf("EndOdometer() before start error = %v, want ErrNotStarted", err)
	}

	if _, err := repo.StartOdometer(ctx, core.OdometerReading{Date: date, KMStart: 100}); err != nil {
		t.Fatalf("StartOdometer() error = %v", err)
	}
	if _, err := repo.StartOdometer(ctx, core.OdometerReading{Date: date, KMStart: 120}); !errors.Is(err, core.ErrAlreadyStarted) {
		t.Fatalf("StartOdometer() twice error = %v, want ErrAlreadyStarted", err)
	}

	if _, err := repo.EndOdometer(ctx, date, 50, ""); !errors.Is(err, core.ErrEndBeforeStart) {
		t.Fatalf("EndOdometer() below start error = %v, want ErrEndBeforeStart", err)
	}

	// A rejected end must leave the day open.
	open, err := repo.GetOdometer(ctx, date)
	if err != nil {
		t.Fatalf("GetOdometer() error = %v", err)
	}
	if open.Complete() {
		t.Fatal("rejected end closed the reading")
	}

	ended, err := repo.EndOdometer(ctx, date, 180.5, "turno largo")
	if err != nil {
		t.Fatalf("EndOdometer() error = %v", err)
	}
	if got := ended.Recorrido(); got != 80.5 {
		t.Errorf("Recorrido() = %v, want 80.5", got)
	}

	if _, err := repo.EndOdometer(ctx, date, 200, ""); !errors.Is(err, core.ErrAlreadyEnded) {
		t.Fatalf("EndOdometer() twice error = %v, want ErrAlreadyEnded", err)
	}
}

func TestBudgetItemLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	due := mustDate(t, "2026-09-01")

	item, err := repo.AppendBudgetItem(ctx, core.BudgetItem{
		Categoria: "Seguro",
		Monto:     core.Money{Cents: 12000},
		Tipo:      core.Fijo,
		FechaPago: due,
	})
	if err != nil {
		t.Fatalf("AppendBudgetItem() error = %v", err)
	}

	paid, err := repo.MarkPaid(ctx, item.ID)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if !paid.Pagado {
		t.Error("MarkPaid() did not set pagado")
	}
	if !paid.FechaPago.Equal(due) {
		t.Errorf("due date lost across round trip: %v", paid.FechaPago)
	}

	// Marking again is idempotent.
	if _, err := repo.MarkPaid(ctx, item.ID); err != nil {
		t.Fatalf("MarkPaid() second call error = %v", err)
	}

	if err := repo.DeleteBudgetItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteBudgetItem() error = %v", err)
	}
	if err := repo.DeleteBudgetItem(ctx, item.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("DeleteBudgetItem() on deleted error = %v, want ErrNotFound", err)
	}

	items, err := repo.ListBudgetItems(ctx)
	if err != nil {
		t.Fatalf("ListBudgetItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) after delete = %d, want 0", len(items))
	}
}

func TestReportHistory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rep := core.MonthlyReport{
		Month:             8,
		Year:              2026,
		TotalKM:           420.5,
		TotalTrips:        96,
		TotalGrossIncome:  core.Money{Cents: 250000},
		TotalBonus:        core.Money{Cents: 4000},
		TotalExpenses:     core.Money{Cents: 80000},
		NetIncome:         core.Money{Cents: 174000},
		ProductivityPerKM: 4.14,
	}

	id, err := repo.AppendReport(ctx, rep)
	if err != nil {
		t.Fatalf("AppendReport() error = %v", err)
	}

	got, err := repo.GetReport(ctx, id)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got != rep {
		t.Errorf("GetReport() = %+v, want %+v", got, rep)
	}

	mirrored, err := repo.ReportMirrored(ctx, id)
	if err != nil {
		t.Fatalf("ReportMirrored() error = %v", err)
	}
	if mirrored {
		t.Error("new report already marked mirrored")
	}

	if err := repo.MarkReportMirrored(ctx, id); err != nil {
		t.Fatalf("MarkReportMirrored() error = %v", err)
	}
	mirrored, err = repo.ReportMirrored(ctx, id)
	if err != nil {
		t.Fatalf("ReportMirrored() error = %v", err)
	}
	if !mirrored {
		t.Error("report not marked mirrored")
	}

	if _, err := repo.GetReport(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("GetReport() missing error = %v, want ErrNotFound", err)
	}
}
