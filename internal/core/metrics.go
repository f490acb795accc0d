package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DayTotals aggregates the raw income and expense amounts for one date.
type DayTotals struct {
	TotalMonto   Money // base fares across standard trips
	TotalPropina Money // tips across standard trips
	TripIncome   Money // sum of standard trip totals
	ExtraIncome  Money // sum of extra trip totals
	TotalExpense Money
}

// ComputeDayTotals sums the day's records. Empty inputs yield all-zero totals.
func ComputeDayTotals(trips []Trip, extras []ExtraTrip, expenses []Expense) DayTotals {
	var t DayTotals
	for _, tr := range trips {
		t.TotalMonto = t.TotalMonto.Add(tr.Monto)
		t.TotalPropina = t.TotalPropina.Add(tr.Propina)
		t.TripIncome = t.TripIncome.Add(tr.Total)
	}
	for _, ex := range extras {
		t.ExtraIncome = t.ExtraIncome.Add(ex.Total)
	}
	for _, e := range expenses {
		t.TotalExpense = t.TotalExpense.Add(e.Monto)
	}
	return t
}

// NetIncome computes net = trip income + extra income + bonus - expenses.
func NetIncome(tripIncome, extraIncome, bonus, expenses Money) Money {
	return tripIncome.Add(extraIncome).Add(bonus).Sub(expenses)
}

// Productivity returns net income per kilometer. Defined as 0 when totalKM is
// zero or negative so callers never see NaN or Inf.
func Productivity(net Money, totalKM float64) float64 {
	if totalKM <= 0 {
		return 0
	}
	v := net.Soles() / totalKM
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// IsDayComplete reports whether the day has at least one trip or extra and a
// closed odometer reading.
func IsDayComplete(tripCount int, odo *OdometerReading) bool {
	return tripCount > 0 && odo != nil && odo.Complete()
}

// BonusTier pays Amount for days with at least MinTrips standard trips.
type BonusTier struct {
	MinTrips int
	Amount   Money
}

// BonusSchedule is an ordered set of tiers; the highest tier reached wins.
// The schedule itself is deployment configuration, not a client-visible rule.
type BonusSchedule []BonusTier

// DefaultBonusSchedule returns the compiled-in tier table.
func DefaultBonusSchedule() BonusSchedule {
	return BonusSchedule{
		{MinTrips: 5, Amount: Money{Cents: 500}},
		{MinTrips: 10, Amount: Money{Cents: 1000}},
		{MinTrips: 15, Amount: Money{Cents: 2000}},
	}
}

// ParseBonusSchedule parses a "minTrips:amount,minTrips:amount" string,
// e.g. "5:5.00,10:10.00,15:20.00". Tiers are sorted by trip count.
func ParseBonusSchedule(s string) (BonusSchedule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty bonus schedule")
	}
	var out BonusSchedule
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, found := strings.Cut(part, ":")
		if !found {
			return nil, fmt.Errorf("bonus tier %q: want minTrips:amount", part)
		}
		minTrips, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || minTrips < 1 {
			return nil, fmt.Errorf("bonus tier %q: invalid trip count", part)
		}
		amount, err := ParseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("bonus tier %q: %w", part, err)
		}
		out = append(out, BonusTier{MinTrips: minTrips, Amount: amount})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty bonus schedule")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinTrips < out[j].MinTrips })
	return out, nil
}

// BonusFor returns the bonus for a day with the given standard trip count.
func (s BonusSchedule) BonusFor(tripCount int) Money {
	var bonus Money
	for _, tier := range s {
		if tripCount >= tier.MinTrips {
			bonus = tier.Amount
		}
	}
	return bonus
}
