package memory

import (
	"context"
	"errors"
	"testing"

	"tripcounter/internal/core"
)

func TestAppendTripAssignsNumeroAndTotal(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := core.NewDate(2024, 5, 5)

	first, err := s.AppendTrip(ctx, core.Trip{
		Date:       date,
		HoraInicio: "08:00",
		HoraFin:    "08:30",
		Monto:      core.Money{Cents: 2000},
		Propina:    core.Money{Cents: 500},
		Aeropuerto: true,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected an ID to be issued")
	}
	if first.Numero != 1 {
		t.Fatalf("numero = %d, want 1", first.Numero)
	}
	if first.Total.Cents != 3150 {
		t.Fatalf("total = %d, want 3150", first.Total.Cents)
	}

	second, err := s.AppendTrip(ctx, core.Trip{
		Date:       date,
		HoraInicio: "09:00",
		HoraFin:    "09:20",
		Monto:      core.Money{Cents: 1500},
	})
	if err != nil {
		t.Fatalf("append second: %v", err)
	}
	if second.Numero != 2 {
		t.Fatalf("numero = %d, want 2", second.Numero)
	}

	// A different date restarts the sequence.
	other, err := s.AppendTrip(ctx, core.Trip{
		Date:       core.NewDate(2024, 5, 6),
		HoraInicio: "09:00",
		HoraFin:    "09:20",
		Monto:      core.Money{Cents: 1500},
	})
	if err != nil {
		t.Fatalf("append other date: %v", err)
	}
	if other.Numero != 1 {
		t.Fatalf("numero = %d, want 1", other.Numero)
	}
}

func TestAppendTripDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()
	trip := core.Trip{
		Date:       core.NewDate(2024, 5, 5),
		HoraInicio: "08:00",
		HoraFin:    "08:30",
		Monto:      core.Money{Cents: 2000},
	}
	if _, err := s.AppendTrip(ctx, trip); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if _, err := s.AppendTrip(ctx, trip); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	trips, _ := s.ListTrips(ctx, trip.Date)
	if len(trips) != 1 {
		t.Fatalf("store must hold exactly one trip, got %d", len(trips))
	}
}

func TestTripRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := core.NewDate(2024, 5, 5)
	created, err := s.AppendTrip(ctx, core.Trip{
		Date:       date,
		HoraInicio: "08:00",
		HoraFin:    "08:30",
		Monto:      core.Money{Cents: 2075},
		Propina:    core.Money{Cents: 125},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	trips, err := s.ListTrips(ctx, date)
	if err != nil || len(trips) != 1 {
		t.Fatalf("list: trips=%d err=%v", len(trips), err)
	}
	// No silent coercion of amount precision through the store.
	if trips[0].Monto.Cents != 2075 || trips[0].Propina.Cents != 125 {
		t.Fatalf("amounts changed in round trip: %+v", trips[0])
	}
	if trips[0].ID != created.ID {
		t.Fatalf("ID changed in round trip")
	}
}

func TestOdometerLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := core.NewDate(2024, 5, 5)

	if _, err := s.GetOdometer(ctx, date); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before start, got %v", err)
	}
	if _, err := s.EndOdometer(ctx, date, 1120, ""); !errors.Is(err, core.ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}

	started, err := s.StartOdometer(ctx, core.OdometerReading{Date: date, KMStart: 1000, Notas: "turno mañana"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Complete() {
		t.Fatalf("started reading must be open")
	}
	if _, err := s.StartOdometer(ctx, core.OdometerReading{Date: date, KMStart: 900}); !errors.Is(err, core.ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}

	// End below start is rejected and leaves the reading open.
	if _, err := s.EndOdometer(ctx, date, 900, ""); !errors.Is(err, core.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
	got, _ := s.GetOdometer(ctx, date)
	if got.Complete() {
		t.Fatalf("failed end must not close the reading")
	}

	ended, err := s.EndOdometer(ctx, date, 1120, "turno completo")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Recorrido() != 120 {
		t.Fatalf("recorrido = %v, want 120", ended.Recorrido())
	}

	// COMPLETE is terminal.
	if _, err := s.EndOdometer(ctx, date, 1300, ""); !errors.Is(err, core.ErrAlreadyEnded) {
		t.Fatalf("expected ErrAlreadyEnded, got %v", err)
	}
}

func TestBudgetMarkPaidIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	item, err := s.AppendBudgetItem(ctx, core.BudgetItem{
		Categoria: "Internet",
		Monto:     core.Money{Cents: 12000},
		Tipo:      core.Fijo,
		FechaPago: core.NewDate(2024, 5, 5),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := s.MarkPaid(ctx, item.ID); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if _, err := s.MarkPaid(ctx, item.ID); err != nil {
		t.Fatalf("second mark must be a no-op success: %v", err)
	}
	items, _ := s.ListBudgetItems(ctx)
	if len(items) != 1 || !items[0].Pagado {
		t.Fatalf("unexpected items: %+v", items)
	}

	if _, err := s.MarkPaid(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBudgetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	a, _ := s.AppendBudgetItem(ctx, core.BudgetItem{Categoria: "A", Monto: core.Money{Cents: 100}, Tipo: core.Variable})
	b, _ := s.AppendBudgetItem(ctx, core.BudgetItem{Categoria: "B", Monto: core.Money{Cents: 200}, Tipo: core.Variable})

	if err := s.DeleteBudgetItem(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := s.ListBudgetItems(ctx)
	if len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("unexpected items after delete: %+v", items)
	}
	if err := s.DeleteBudgetItem(ctx, a.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted item, got %v", err)
	}
}
