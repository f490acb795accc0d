package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tripcounter/internal/core"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// isUniqueViolation reports whether err came from a UNIQUE index, which
// is how the schema enforces one trip per (date, start, end) slot.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *Repository) AppendTrip(ctx context.Context, t core.Trip) (core.Trip, error) {
	if err := t.Validate(); err != nil {
		return core.Trip{}, err
	}

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trips WHERE trip_date = ?`, t.Date.String()).Scan(&count)
	if err != nil {
		return core.Trip{}, fmt.Errorf("count trips for date: %w", err)
	}

	t.ID = uuid.NewString()
	t.Numero = core.NextNumero(count)
	t.Total = core.TripTotal(t.Monto, t.Propina, t.Aeropuerto)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO trips (id, trip_date, numero, hora_inicio, hora_fin, monto_cents, propina_cents, aeropuerto, total_cents)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date.String(), t.Numero, t.HoraInicio, t.HoraFin,
		t.Monto.Cents, t.Propina.Cents, boolToInt(t.Aeropuerto), t.Total.Cents)
	if isUniqueViolation(err) {
		return core.Trip{}, core.ErrDuplicate
	}
	if err != nil {
		return core.Trip{}, fmt.Errorf("insert trip: %w", err)
	}

	slog.InfoContext(ctx, "Trip saved to SQLite",
		"id", t.ID,
		"date", t.Date.String(),
		"numero", t.Numero,
		"total_cents", t.Total.Cents)

	return t, nil
}

func (r *Repository) ListTrips(ctx context.Context, date core.Date) ([]core.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, trip_date, numero, hora_inicio, hora_fin, monto_cents, propina_cents, aeropuerto, total_cents
		 FROM trips WHERE trip_date = ? ORDER BY numero`, date.String())
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var trips []core.Trip
	for rows.Next() {
		var (
			t        core.Trip
			dateStr  string
			airport  int
		)
		if err := rows.Scan(&t.ID, &dateStr, &t.Numero, &t.HoraInicio, &t.HoraFin,
			&t.Monto.Cents, &t.Propina.Cents, &airport, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		t.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse trip date: %w", err)
		}
		t.Aeropuerto = airport != 0
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *Repository) AppendExtra(ctx context.Context, e core.ExtraTrip) (core.ExtraTrip, error) {
	if err := e.Validate(); err != nil {
		return core.ExtraTrip{}, err
	}

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM extras WHERE trip_date = ?`, e.Date.String()).Scan(&count)
	if err != nil {
		return core.ExtraTrip{}, fmt.Errorf("count extras for date: %w", err)
	}

	e.ID = uuid.NewString()
	e.Numero = core.NextNumero(count)
	e.Total = e.Monto

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO extras (id, trip_date, numero, hora_inicio, hora_fin, monto_cents, total_cents)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), e.Numero, e.HoraInicio, e.HoraFin, e.Monto.Cents, e.Total.Cents)
	if isUniqueViolation(err) {
		return core.ExtraTrip{}, core.ErrDuplicate
	}
	if err != nil {
		return core.ExtraTrip{}, fmt.Errorf("insert extra: %w", err)
	}

	slog.InfoContext(ctx, "Extra trip saved to SQLite",
		"id", e.ID,
		"date", e.Date.String(),
		"numero", e.Numero)

	return e, nil
}

func (r *Repository) ListExtras(ctx context.Context, date core.Date) ([]core.ExtraTrip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, trip_date, numero, hora_inicio, hora_fin, monto_cents, total_cents
		 FROM extras WHERE trip_date = ? ORDER BY numero`, date.String())
	if err != nil {
		return nil, fmt.Errorf("list extras: %w", err)
	}
	defer rows.Close()

	var extras []core.ExtraTrip
	for rows.Next() {
		var (
			e       core.ExtraTrip
			dateStr string
		)
		if err := rows.Scan(&e.ID, &dateStr, &e.Numero, &e.HoraInicio, &e.HoraFin,
			&e.Monto.Cents, &e.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan extra: %w", err)
		}
		e.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse extra date: %w", err)
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}

func (r *Repository) AppendExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	e.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, expense_date, hora, monto_cents, categoria, descripcion)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), e.Hora, e.Monto.Cents, e.Categoria, e.Descripcion)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"date", e.Date.String(),
		"categoria", e.Categoria,
		"monto_cents", e.Monto.Cents)

	return e, nil
}

func (r *Repository) ListExpenses(ctx context.Context, date core.Date) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, expense_date, hora, monto_cents, categoria, descripcion
		 FROM expenses WHERE expense_date = ? ORDER BY hora`, date.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			dateStr string
		)
		if err := rows.Scan(&e.ID, &dateStr, &e.Hora, &e.Monto.Cents, &e.Categoria, &e.Descripcion); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse expense date: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *Repository) StartOdometer(ctx context.Context, o core.OdometerReading) (core.OdometerReading, error) {
	if err := o.Validate(); err != nil {
		return core.OdometerReading{}, err
	}

	o.ID = uuid.NewString()
	o.KMEnd = nil
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO odometer (id, reading_date, km_start, notas) VALUES (?, ?, ?, ?)`,
		o.ID, o.Date.String(), o.KMStart, o.Notas)
	if isUniqueViolation(err) {
		return core.OdometerReading{}, core.ErrAlreadyStarted
	}
	if err != nil {
		return core.OdometerReading{}, fmt.Errorf("insert odometer reading: %w", err)
	}

	slog.InfoContext(ctx, "Odometer start saved to SQLite",
		"id", o.ID,
		"date", o.Date.String(),
		"km_start", o.KMStart)

	return o, nil
}

func (r *Repository) EndOdometer(ctx context.Context, date core.Date, kmEnd float64, notas string) (core.OdometerReading, error) {
	existing, err := r.GetOdometer(ctx, date)
	if errors.Is(err, core.ErrNotFound) {
		return core.OdometerReading{}, core.ErrNotStarted
	}
	if err != nil {
		return core.OdometerReading{}, err
	}
	if existing.Complete() {
		return core.OdometerReading{}, core.ErrAlreadyEnded
	}

	existing.KMEnd = &kmEnd
	if notas != "" {
		existing.Notas = notas
	}
	if err := existing.Validate(); err != nil {
		return core.OdometerReading{}, err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE odometer SET km_end = ?, notas = ? WHERE reading_date = ?`,
		kmEnd, existing.Notas, date.String())
	if err != nil {
		return core.OdometerReading{}, fmt.Errorf("update odometer reading: %w", err)
	}

	slog.InfoContext(ctx, "Odometer end saved to SQLite",
		"id", existing.ID,
		"date", date.String(),
		"km_end", kmEnd,
		"recorrido", existing.Recorrido())

	return existing, nil
}

func (r *Repository) GetOdometer(ctx context.Context, date core.Date) (core.OdometerReading, error) {
	var (
		o       core.OdometerReading
		dateStr string
		kmEnd   sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, reading_date, km_start, km_end, notas FROM odometer WHERE reading_date = ?`,
		date.String()).Scan(&o.ID, &dateStr, &o.KMStart, &kmEnd, &o.Notas)
	if errors.Is(err, sql.ErrNoRows) {
		return core.OdometerReading{}, core.ErrNotFound
	}
	if err != nil {
		return core.OdometerReading{}, fmt.Errorf("get odometer reading: %w", err)
	}
	o.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.OdometerReading{}, fmt.Errorf("parse odometer date: %w", err)
	}
	if kmEnd.Valid {
		v := kmEnd.Float64
		o.KMEnd = &v
	}
	return o, nil
}

func (r *Repository) AppendBudgetItem(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	if err := b.Validate(); err != nil {
		return core.BudgetItem{}, err
	}

	b.ID = uuid.NewString()
	var fechaPago any
	if !b.FechaPago.IsZero() {
		fechaPago = b.FechaPago.String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_items (id, categoria, monto_cents, tipo, fecha_pago, pagado)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Categoria, b.Monto.Cents, string(b.Tipo), fechaPago, boolToInt(b.Pagado))
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("insert budget item: %w", err)
	}

	slog.InfoContext(ctx, "Budget item saved to SQLite",
		"id", b.ID,
		"categoria", b.Categoria,
		"tipo", string(b.Tipo))

	return b, nil
}

func (r *Repository) ListBudgetItems(ctx context.Context) ([]core.BudgetItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, categoria, monto_cents, tipo, fecha_pago, pagado
		 FROM budget_items ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list budget items: %w", err)
	}
	defer rows.Close()

	var items []core.BudgetItem
	for rows.Next() {
		var (
			b         core.BudgetItem
			tipo      string
			fechaPago sql.NullString
			pagado    int
		)
		if err := rows.Scan(&b.ID, &b.Categoria, &b.Monto.Cents, &tipo, &fechaPago, &pagado); err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		b.Tipo = core.BudgetType(tipo)
		b.Pagado = pagado != 0
		if fechaPago.Valid && fechaPago.String != "" {
			d, err := core.ParseDate(fechaPago.String)
			if err != nil {
				return nil, fmt.Errorf("parse budget due date: %w", err)
			}
			b.FechaPago = d
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *Repository) MarkPaid(ctx context.Context, id string) (core.BudgetItem, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE budget_items SET pagado = 1 WHERE id = ?`, id)
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("mark budget item paid: %w", err)
	}
	return r.getBudgetItem(ctx, id)
}

func (r *Repository) DeleteBudgetItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budget_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *Repository) getBudgetItem(ctx context.Context, id string) (core.BudgetItem, error) {
	var (
		b         core.BudgetItem
		tipo      string
		fechaPago sql.NullString
		pagado    int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, categoria, monto_cents, tipo, fecha_pago, pagado FROM budget_items WHERE id = ?`,
		id).Scan(&b.ID, &b.Categoria, &b.Monto.Cents, &tipo, &fechaPago, &pagado)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetItem{}, core.ErrNotFound
	}
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("get budget item: %w", err)
	}
	b.Tipo = core.BudgetType(tipo)
	b.Pagado = pagado != 0
	if fechaPago.Valid && fechaPago.String != "" {
		d, err := core.ParseDate(fechaPago.String)
		if err != nil {
			return core.BudgetItem{}, fmt.Errorf("parse budget due date: %w", err)
		}
		b.FechaPago = d
	}
	return b, nil
}

func (r *Repository) AppendReport(ctx context.Context, rep core.MonthlyReport) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO report_history (id, month, year, total_km, total_trips, gross_income_cents,
		 bonus_cents, expenses_cents, net_income_cents, productivity_per_km)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rep.Month, rep.Year, rep.TotalKM, rep.TotalTrips, rep.TotalGrossIncome.Cents,
		rep.TotalBonus.Cents, rep.TotalExpenses.Cents, rep.NetIncome.Cents, rep.ProductivityPerKM)
	if err != nil {
		return "", fmt.Errorf("insert report history: %w", err)
	}

	slog.InfoContext(ctx, "Monthly report saved to SQLite",
		"history_id", id,
		"month", rep.Month,
		"year", rep.Year)

	return id, nil
}

// GetReport loads a saved report row by its history id. The sync worker
// uses it to mirror reports into the spreadsheet after the fact.
func (r *Repository) GetReport(ctx context.Context, historyID string) (core.MonthlyReport, error) {
	var rep core.MonthlyReport
	err := r.db.QueryRowContext(ctx,
		`SELECT month, year, total_km, total_trips, gross_income_cents, bonus_cents,
		 expenses_cents, net_income_cents, productivity_per_km
		 FROM report_history WHERE id = ?`, historyID).
		Scan(&rep.Month, &rep.Year, &rep.TotalKM, &rep.TotalTrips, &rep.TotalGrossIncome.Cents,
			&rep.TotalBonus.Cents, &rep.TotalExpenses.Cents, &rep.NetIncome.Cents, &rep.ProductivityPerKM)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyReport{}, core.ErrNotFound
	}
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("get report history: %w", err)
	}
	return rep, nil
}

// MarkReportMirrored records that the worker has pushed the row to the
// spreadsheet, so redelivered messages are safe to ack without a second write.
func (r *Repository) MarkReportMirrored(ctx context.Context, historyID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE report_history SET mirrored = 1 WHERE id = ?`, historyID)
	if err != nil {
		return fmt.Errorf("mark report mirrored: %w", err)
	}
	return nil
}

func (r *Repository) ReportMirrored(ctx context.Context, historyID string) (bool, error) {
	var mirrored int
	err := r.db.QueryRowContext(ctx,
		`SELECT mirrored FROM report_history WHERE id = ?`, historyID).Scan(&mirrored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, core.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("check report mirrored: %w", err)
	}
	return mirrored != 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
