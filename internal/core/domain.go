package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// AirportFeeCents is the fixed surcharge added to a trip's total when it
	// served the airport.
	AirportFeeCents int64 = 650

	Fijo     BudgetType = "Fijo"
	Variable BudgetType = "Variable"
)

type (
	// BudgetType classifies a budget item: Fijo has a due date, Variable does not.
	BudgetType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Trip is a completed ride with fare, tip and optional airport surcharge.
	// Numero is assigned by the store at append time (per-date count + 1).
	Trip struct {
		ID         string
		Date       Date
		Numero     int
		HoraInicio string
		HoraFin    string
		Monto      Money
		Propina    Money
		Aeropuerto bool
		Total      Money
	}

	// ExtraTrip is a flat-amount ride outside the fare/tip/airport model.
	ExtraTrip struct {
		ID         string
		Date       Date
		Numero     int
		HoraInicio string
		HoraFin    string
		Monto      Money
		Total      Money
	}

	Expense struct {
		ID          string
		Date        Date
		Hora        string
		Monto       Money
		Categoria   string
		Descripcion string
	}

	// OdometerReading tracks start/end vehicle mileage for one date.
	// KMEnd is nil while the reading is still open.
	OdometerReading struct {
		ID      string
		Date    Date
		KMStart float64
		KMEnd   *float64
		Notas   string
	}

	BudgetItem struct {
		ID        string
		Categoria string
		Monto     Money
		Tipo      BudgetType
		FechaPago Date // required iff Tipo == Fijo
		Pagado    bool
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyTime        = errors.New("empty time")
	ErrEmptyCategory    = errors.New("empty category")
	ErrMissingDueDate   = errors.New("fixed budget item requires a due date")
	ErrInvalidType      = errors.New("invalid budget type")
	ErrInvalidKilometer = errors.New("invalid kilometer value")
	ErrEndBeforeStart   = errors.New("end kilometers below start")

	// Store-level sentinels, mapped to HTTP status codes by handlers.
	ErrDuplicate      = errors.New("duplicate record")
	ErrNotFound       = errors.New("record not found")
	ErrAlreadyStarted = errors.New("odometer already started for date")
	ErrNotStarted     = errors.New("odometer not started for date")
	ErrAlreadyEnded   = errors.New("odometer already completed for date")
)

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String renders the date in the wire format (YYYY-MM-DD).
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Equal compares dates by calendar day, ignoring time of day.
func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

// Year and Month report the calendar year and 1-12 month.
func (d Date) Year() int  { return d.Time.Year() }
func (d Date) Month() int { return int(d.Time.Month()) }

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m minus other; the result may be negative (net loss days exist).
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// TripTotal computes a trip's total: fare + tip + airport surcharge when flagged.
func TripTotal(monto, propina Money, aeropuerto bool) Money {
	total := monto.Add(propina)
	if aeropuerto {
		total = total.Add(Money{Cents: AirportFeeCents})
	}
	return total
}

func (t Trip) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.HoraInicio) == "" || strings.TrimSpace(t.HoraFin) == "" {
		return ErrEmptyTime
	}
	if err := t.Monto.Validate(); err != nil {
		return err
	}
	return t.Propina.Validate()
}

func (e ExtraTrip) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.HoraInicio) == "" || strings.TrimSpace(e.HoraFin) == "" {
		return ErrEmptyTime
	}
	return e.Monto.Validate()
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Categoria) == "" {
		return ErrEmptyCategory
	}
	return e.Monto.Validate()
}

func (o OdometerReading) Validate() error {
	if err := o.Date.Validate(); err != nil {
		return err
	}
	if o.KMStart < 0 {
		return ErrInvalidKilometer
	}
	if o.KMEnd != nil && *o.KMEnd < o.KMStart {
		return ErrEndBeforeStart
	}
	return nil
}

// Complete reports whether both readings are recorded.
func (o OdometerReading) Complete() bool {
	return o.KMEnd != nil
}

// Recorrido returns the distance driven once the reading is complete.
func (o OdometerReading) Recorrido() float64 {
	if o.KMEnd == nil {
		return 0
	}
	return *o.KMEnd - o.KMStart
}

func (b BudgetItem) Validate() error {
	if strings.TrimSpace(b.Categoria) == "" {
		return ErrEmptyCategory
	}
	if err := b.Monto.Validate(); err != nil {
		return err
	}
	switch b.Tipo {
	case Fijo:
		if b.FechaPago.IsZero() {
			return ErrMissingDueDate
		}
	case Variable:
		// No due date requirement.
	default:
		return ErrInvalidType
	}
	return nil
}
