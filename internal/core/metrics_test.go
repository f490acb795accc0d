package core

import (
	"math"
	"testing"
)

func TestComputeDayTotalsEmpty(t *testing.T) {
	totals := ComputeDayTotals(nil, nil, nil)
	if totals != (DayTotals{}) {
		t.Fatalf("empty record sets must yield all-zero totals, got %+v", totals)
	}
}

func TestComputeDayTotals(t *testing.T) {
	trips := []Trip{
		{Monto: Money{Cents: 2000}, Propina: Money{Cents: 500}, Total: Money{Cents: 3150}},
		{Monto: Money{Cents: 1500}, Propina: Money{Cents: 0}, Total: Money{Cents: 1500}},
	}
	extras := []ExtraTrip{{Monto: Money{Cents: 800}, Total: Money{Cents: 800}}}
	expenses := []Expense{{Monto: Money{Cents: 730}}, {Monto: Money{Cents: 500}}}

	totals := ComputeDayTotals(trips, extras, expenses)
	if totals.TotalMonto.Cents != 3500 {
		t.Fatalf("monto = %d, want 3500", totals.TotalMonto.Cents)
	}
	if totals.TotalPropina.Cents != 500 {
		t.Fatalf("propina = %d, want 500", totals.TotalPropina.Cents)
	}
	if totals.TripIncome.Cents != 4650 {
		t.Fatalf("trip income = %d, want 4650", totals.TripIncome.Cents)
	}
	if totals.ExtraIncome.Cents != 800 {
		t.Fatalf("extra income = %d, want 800", totals.ExtraIncome.Cents)
	}
	if totals.TotalExpense.Cents != 1230 {
		t.Fatalf("expenses = %d, want 1230", totals.TotalExpense.Cents)
	}
}

func TestNetIncome(t *testing.T) {
	net := NetIncome(Money{Cents: 3150}, Money{Cents: 0}, Money{Cents: 1000}, Money{Cents: 500})
	if net.Cents != 3650 {
		t.Fatalf("net = %d, want 3650", net.Cents)
	}
	// Expenses above income produce a negative net, not an error.
	net = NetIncome(Money{Cents: 100}, Money{}, Money{}, Money{Cents: 500})
	if net.Cents != -400 {
		t.Fatalf("net = %d, want -400", net.Cents)
	}
}

func TestProductivity(t *testing.T) {
	if got := Productivity(Money{Cents: 12000}, 120); got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
	// km == 0 is defined as 0, never NaN/Inf and never a panic.
	for _, km := range []float64{0, -5} {
		got := Productivity(Money{Cents: 12000}, km)
		if got != 0 {
			t.Fatalf("km=%v: got %v, want 0", km, got)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("km=%v: got non-finite %v", km, got)
		}
	}
}

func TestIsDayComplete(t *testing.T) {
	end := 1120.0
	complete := &OdometerReading{KMStart: 1000, KMEnd: &end}
	open := &OdometerReading{KMStart: 1000}

	cases := []struct {
		trips int
		odo   *OdometerReading
		want  bool
	}{
		{0, nil, false},
		{0, complete, false},
		{3, nil, false},
		{3, open, false},
		{3, complete, true},
	}
	for i, tc := range cases {
		if got := IsDayComplete(tc.trips, tc.odo); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestBonusSchedule(t *testing.T) {
	s := DefaultBonusSchedule()
	cases := []struct {
		trips int
		want  int64
	}{
		{0, 0},
		{4, 0},
		{5, 500},
		{9, 500},
		{10, 1000},
		{15, 2000},
		{40, 2000},
	}
	for _, tc := range cases {
		if got := s.BonusFor(tc.trips); got.Cents != tc.want {
			t.Fatalf("trips=%d: got %d, want %d", tc.trips, got.Cents, tc.want)
		}
	}
}

func TestParseBonusSchedule(t *testing.T) {
	s, err := ParseBonusSchedule("10:10.00, 5:5.00,15:20.00")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(s) != 3 || s[0].MinTrips != 5 || s[2].Amount.Cents != 2000 {
		t.Fatalf("unexpected schedule: %+v", s)
	}

	for _, bad := range []string{"", "abc", "5", "0:1.00", "5:abc"} {
		if _, err := ParseBonusSchedule(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestBuildDaySummary(t *testing.T) {
	date := NewDate(2024, 5, 5)
	trips := []Trip{{Date: date, Monto: Money{Cents: 2000}, Propina: Money{Cents: 500}, Aeropuerto: true, Total: Money{Cents: 3150}}}
	end := 1120.0
	odo := &OdometerReading{Date: date, KMStart: 1000, KMEnd: &end}

	// Single trip stays below every tier; force the bonus with a 1-trip tier.
	schedule := BonusSchedule{{MinTrips: 1, Amount: Money{Cents: 1000}}}
	s := BuildDaySummary(date, trips, nil, nil, odo, schedule)

	if s.TotalIncome.Cents != 4150 {
		t.Fatalf("total income = %d, want 4150", s.TotalIncome.Cents)
	}
	if s.NetIncome.Cents != 4150 {
		t.Fatalf("net = %d, want 4150", s.NetIncome.Cents)
	}
	if s.TotalKM != 120 {
		t.Fatalf("km = %v, want 120", s.TotalKM)
	}
	if !s.IsComplete {
		t.Fatalf("expected complete day")
	}
	if s.ProductivityPerKM == 0 {
		t.Fatalf("expected non-zero productivity")
	}
}

func TestBuildDaySummaryEmptyDay(t *testing.T) {
	s := BuildDaySummary(NewDate(2024, 5, 5), nil, nil, nil, nil, DefaultBonusSchedule())
	if s.IsComplete {
		t.Fatalf("empty day cannot be complete")
	}
	if s.TotalIncome.Cents != 0 || s.NetIncome.Cents != 0 || s.ProductivityPerKM != 0 {
		t.Fatalf("empty day must be all-zero: %+v", s)
	}
}
