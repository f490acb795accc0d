package http

import (
	"math"
	"strconv"
	"strings"

	"tripcounter/internal/core"
)

// Wire payloads keep the spreadsheet-header keys the original client
// renders from. Amounts travel as raw numbers (soles); formatting is the
// caller's concern.

type tripPayload struct {
	ID         string  `json:"id"`
	Fecha      string  `json:"Fecha"`
	Numero     int     `json:"Numero"`
	HoraInicio string  `json:"Hora inicio"`
	HoraFin    string  `json:"Hora fin"`
	Monto      float64 `json:"Monto"`
	Propina    float64 `json:"Propina"`
	Aeropuerto float64 `json:"Aeropuerto"`
	Total      float64 `json:"Total"`
}

func toTripPayload(t core.Trip) tripPayload {
	var fee float64
	if t.Aeropuerto {
		fee = core.Money{Cents: core.AirportFeeCents}.Soles()
	}
	return tripPayload{
		ID:         t.ID,
		Fecha:      t.Date.String(),
		Numero:     t.Numero,
		HoraInicio: t.HoraInicio,
		HoraFin:    t.HoraFin,
		Monto:      t.Monto.Soles(),
		Propina:    t.Propina.Soles(),
		Aeropuerto: fee,
		Total:      t.Total.Soles(),
	}
}

type extraPayload struct {
	ID         string  `json:"id"`
	Fecha      string  `json:"Fecha"`
	Numero     int     `json:"Numero"`
	HoraInicio string  `json:"Hora inicio"`
	HoraFin    string  `json:"Hora fin"`
	Monto      float64 `json:"Monto"`
	Total      float64 `json:"Total"`
}

func toExtraPayload(e core.ExtraTrip) extraPayload {
	return extraPayload{
		ID:         e.ID,
		Fecha:      e.Date.String(),
		Numero:     e.Numero,
		HoraInicio: e.HoraInicio,
		HoraFin:    e.HoraFin,
		Monto:      e.Monto.Soles(),
		Total:      e.Total.Soles(),
	}
}

type expensePayload struct {
	ID          string  `json:"id"`
	Fecha       string  `json:"Fecha"`
	Hora        string  `json:"Hora"`
	Monto       float64 `json:"Monto"`
	Categoria   string  `json:"Categoría"`
	Descripcion string  `json:"Descripción"`
}

func toExpensePayload(e core.Expense) expensePayload {
	return expensePayload{
		ID:          e.ID,
		Fecha:       e.Date.String(),
		Hora:        e.Hora,
		Monto:       e.Monto.Soles(),
		Categoria:   e.Categoria,
		Descripcion: e.Descripcion,
	}
}

type budgetPayload struct {
	ID        string  `json:"id"`
	RowIndex  int     `json:"row_index"`
	Categoria string  `json:"categoria"`
	Monto     float64 `json:"monto"`
	Tipo      string  `json:"tipo"`
	FechaPago string  `json:"fecha_pago,omitempty"`
	Pagado    bool    `json:"pagado"`
}

func toBudgetPayload(b core.BudgetItem, rowIndex int) budgetPayload {
	p := budgetPayload{
		ID:        b.ID,
		RowIndex:  rowIndex,
		Categoria: b.Categoria,
		Monto:     b.Monto.Soles(),
		Tipo:      string(b.Tipo),
		Pagado:    b.Pagado,
	}
	if !b.FechaPago.IsZero() {
		p.FechaPago = b.FechaPago.String()
	}
	return p
}

type summaryPayload struct {
	Date              string  `json:"date"`
	NumTrips          int     `json:"num_trips"`
	TotalKM           float64 `json:"total_km"`
	TotalIncome       float64 `json:"total_income"`
	TotalExpenses     float64 `json:"total_expenses"`
	CurrentBonus      float64 `json:"current_bonus"`
	NetIncome         float64 `json:"net_income"`
	ProductivityPerKM float64 `json:"productivity_per_km"`
	IsComplete        bool    `json:"is_complete"`
}

func toSummaryPayload(s core.DaySummary) summaryPayload {
	return summaryPayload{
		Date:              s.Date.String(),
		NumTrips:          s.NumTrips,
		TotalKM:           s.TotalKM,
		TotalIncome:       s.TotalIncome.Soles(),
		TotalExpenses:     s.TotalExpenses.Soles(),
		CurrentBonus:      s.Bonus.Soles(),
		NetIncome:         s.NetIncome.Soles(),
		ProductivityPerKM: s.ProductivityPerKM,
		IsComplete:        s.IsComplete,
	}
}

type reportPayload struct {
	Month             int     `json:"month"`
	Year              int     `json:"year"`
	TotalKM           float64 `json:"total_km"`
	TotalTrips        int     `json:"total_trips"`
	TotalGrossIncome  float64 `json:"total_gross_income"`
	TotalBonus        float64 `json:"total_bonus"`
	TotalExpenses     float64 `json:"total_expenses"`
	NetIncome         float64 `json:"net_income"`
	ProductivityPerKM float64 `json:"productivity_per_km"`
}

func toReportPayload(r core.MonthlyReport) reportPayload {
	return reportPayload{
		Month:             r.Month,
		Year:              r.Year,
		TotalKM:           r.TotalKM,
		TotalTrips:        r.TotalTrips,
		TotalGrossIncome:  r.TotalGrossIncome.Soles(),
		TotalBonus:        r.TotalBonus.Soles(),
		TotalExpenses:     r.TotalExpenses.Soles(),
		NetIncome:         r.NetIncome.Soles(),
		ProductivityPerKM: r.ProductivityPerKM,
	}
}

// coerceMoney accepts a JSON number or a numeric string, which the legacy
// client mixes freely in request bodies.
func coerceMoney(v any) (core.Money, error) {
	switch t := v.(type) {
	case nil:
		return core.Money{}, nil
	case float64:
		cents := int64(math.Round(t * 100))
		m := core.Money{Cents: cents}
		if err := m.Validate(); err != nil {
			return core.Money{}, err
		}
		return m, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return core.Money{}, nil
		}
		return core.ParseAmount(t)
	default:
		return core.Money{}, core.ErrInvalidAmount
	}
}

// coerceFloat accepts a JSON number or a numeric string.
func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
