package core

// DaySummary is the derived view for one date. It is computed on demand and
// never stored.
type DaySummary struct {
	Date              Date
	NumTrips          int
	TotalKM           float64
	TotalIncome       Money
	TotalExpenses     Money
	Bonus             Money
	NetIncome         Money
	ProductivityPerKM float64
	IsComplete        bool
}

// MonthlyReport aggregates day totals across one calendar month.
type MonthlyReport struct {
	Month             int
	Year              int
	TotalKM           float64
	TotalTrips        int
	TotalGrossIncome  Money
	TotalBonus        Money
	TotalExpenses     Money
	NetIncome         Money
	ProductivityPerKM float64
}

// BuildDaySummary derives the summary for one date from its raw records.
// The odometer reading may be nil when no record exists for the date.
func BuildDaySummary(date Date, trips []Trip, extras []ExtraTrip, expenses []Expense, odo *OdometerReading, schedule BonusSchedule) DaySummary {
	totals := ComputeDayTotals(trips, extras, expenses)
	bonus := schedule.BonusFor(len(trips))
	net := NetIncome(totals.TripIncome, totals.ExtraIncome, bonus, totals.TotalExpense)

	var km float64
	if odo != nil {
		km = odo.Recorrido()
	}

	return DaySummary{
		Date:              date,
		NumTrips:          len(trips) + len(extras),
		TotalKM:           km,
		TotalIncome:       totals.TripIncome.Add(totals.ExtraIncome).Add(bonus),
		TotalExpenses:     totals.TotalExpense,
		Bonus:             bonus,
		NetIncome:         net,
		ProductivityPerKM: Productivity(net, km),
		IsComplete:        IsDayComplete(len(trips)+len(extras), odo),
	}
}

// AddDay folds one day's summary into the monthly aggregate.
func (r *MonthlyReport) AddDay(s DaySummary) {
	r.TotalKM += s.TotalKM
	r.TotalTrips += s.NumTrips
	r.TotalGrossIncome = r.TotalGrossIncome.Add(s.TotalIncome)
	r.TotalBonus = r.TotalBonus.Add(s.Bonus)
	r.TotalExpenses = r.TotalExpenses.Add(s.TotalExpenses)
	r.NetIncome = r.NetIncome.Add(s.NetIncome)
	r.ProductivityPerKM = Productivity(r.NetIncome, r.TotalKM)
}
