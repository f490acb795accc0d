package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tripcounter/internal/core"
)

// Store is an in-memory backend used by tests and as the default when no
// external store is configured. All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	trips    []core.Trip
	extras   []core.ExtraTrip
	expenses []core.Expense
	odometer []core.OdometerReading
	budget   []core.BudgetItem
	reports  []core.MonthlyReport
}

func New() *Store {
	return &Store{}
}

func (s *Store) AppendTrip(_ context.Context, t core.Trip) (core.Trip, error) {
	if err := t.Validate(); err != nil {
		return core.Trip{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	same := s.tripsForDate(t.Date)
	if core.HasDuplicateTrip(same, t.HoraInicio, t.HoraFin) {
		return core.Trip{}, core.ErrDuplicate
	}
	t.ID = uuid.NewString()
	t.Numero = core.NextNumero(len(same))
	t.Total = core.TripTotal(t.Monto, t.Propina, t.Aeropuerto)
	s.trips = append(s.trips, t)
	return t, nil
}

func (s *Store) ListTrips(_ context.Context, date core.Date) ([]core.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Trip(nil), s.tripsForDate(date)...), nil
}

func (s *Store) tripsForDate(date core.Date) []core.Trip {
	var out []core.Trip
	for _, t := range s.trips {
		if t.Date.Equal(date) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) AppendExtra(_ context.Context, e core.ExtraTrip) (core.ExtraTrip, error) {
	if err := e.Validate(); err != nil {
		return core.ExtraTrip{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	same := s.extrasForDate(e.Date)
	if core.HasDuplicateExtra(same, e.HoraInicio, e.HoraFin) {
		return core.ExtraTrip{}, core.ErrDuplicate
	}
	e.ID = uuid.NewString()
	e.Numero = core.NextNumero(len(same))
	e.Total = e.Monto
	s.extras = append(s.extras, e)
	return e, nil
}

func (s *Store) ListExtras(_ context.Context, date core.Date) ([]core.ExtraTrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExtraTrip(nil), s.extrasForDate(date)...), nil
}

func (s *Store) extrasForDate(date core.Date) []core.ExtraTrip {
	var out []core.ExtraTrip
	for _, e := range s.extras {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) AppendExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.NewString()
	s.expenses = append(s.expenses, e)
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, date core.Date) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) StartOdometer(_ context.Context, r core.OdometerReading) (core.OdometerReading, error) {
	if err := r.Validate(); err != nil {
		return core.OdometerReading{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.odometerForDate(r.Date); ok {
		return core.OdometerReading{}, core.ErrAlreadyStarted
	}
	r.ID = uuid.NewString()
	r.KMEnd = nil
	s.odometer = append(s.odometer, r)
	return r, nil
}

func (s *Store) EndOdometer(_ context.Context, date core.Date, kmEnd float64, notas string) (core.OdometerReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.odometerForDate(date)
	if !ok {
		return core.OdometerReading{}, core.ErrNotStarted
	}
	r := s.odometer[idx]
	if r.Complete() {
		return core.OdometerReading{}, core.ErrAlreadyEnded
	}
	r.KMEnd = &kmEnd
	if notas != "" {
		r.Notas = notas
	}
	if err := r.Validate(); err != nil {
		return core.OdometerReading{}, err
	}
	s.odometer[idx] = r
	return r, nil
}

func (s *Store) GetOdometer(_ context.Context, date core.Date) (core.OdometerReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.odometerForDate(date)
	if !ok {
		return core.OdometerReading{}, core.ErrNotFound
	}
	return s.odometer[idx], nil
}

func (s *Store) odometerForDate(date core.Date) (int, bool) {
	for i, r := range s.odometer {
		if r.Date.Equal(date) {
			return i, true
		}
	}
	return 0, false
}

func (s *Store) AppendBudgetItem(_ context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	if err := b.Validate(); err != nil {
		return core.BudgetItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = uuid.NewString()
	s.budget = append(s.budget, b)
	return b, nil
}

func (s *Store) ListBudgetItems(_ context.Context) ([]core.BudgetItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BudgetItem(nil), s.budget...), nil
}

func (s *Store) MarkPaid(_ context.Context, id string) (core.BudgetItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budget {
		if b.ID == id {
			// Idempotent: re-marking a paid item succeeds without change.
			s.budget[i].Pagado = true
			return s.budget[i], nil
		}
	}
	return core.BudgetItem{}, core.ErrNotFound
}

func (s *Store) DeleteBudgetItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budget {
		if b.ID == id {
			s.budget = append(s.budget[:i], s.budget[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) AppendReport(_ context.Context, r core.MonthlyReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return uuid.NewString(), nil
}
