package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"tripcounter/internal/core"
	"tripcounter/internal/store"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Worksheet names inside the shared spreadsheet. One tab per record kind.
const (
	tripsSheet    = "TripCounter_Trips"
	extrasSheet   = "TripCounter_Extras"
	expensesSheet = "TripCounter_Gastos"
	odometerSheet = "TripCounter_KM"
	budgetSheet   = "TripCounter_Presupuesto"
	reportsSheet  = "TripCounter_Reportes"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ store.Backend = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) readRows(ctx context.Context, sheetName string) ([][]any, error) {
	rng := fmt.Sprintf("%s!A2:Z", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) appendRow(ctx context.Context, sheetName string, row []any) error {
	rng := fmt.Sprintf("%s!A:Z", sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheetName, err)
	}
	return nil
}

// updateRow writes over an existing data row. rowIndex counts data rows
// from zero; the sheet row is offset by one header row.
func (c *Client) updateRow(ctx context.Context, sheetName string, rowIndex int, row []any) error {
	sheetRow := rowIndex + 2
	rng := fmt.Sprintf("%s!A%d", sheetName, sheetRow)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", sheetName, sheetRow, err)
	}
	return nil
}

func (c *Client) deleteRowValues(ctx context.Context, sheetName string, rowIndex int) error {
	sheetRow := rowIndex + 2
	rng := fmt.Sprintf("%s!A%d:Z%d", sheetName, sheetRow, sheetRow)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s row %d: %w", sheetName, sheetRow, err)
	}
	return nil
}

func (c *Client) AppendTrip(ctx context.Context, t core.Trip) (core.Trip, error) {
	if err := t.Validate(); err != nil {
		return core.Trip{}, err
	}

	existing, err := c.ListTrips(ctx, t.Date)
	if err != nil {
		return core.Trip{}, err
	}
	if core.HasDuplicateTrip(existing, t.HoraInicio, t.HoraFin) {
		return core.Trip{}, core.ErrDuplicate
	}

	t.ID = uuid.NewString()
	t.Numero = core.NextNumero(len(existing))
	t.Total = core.TripTotal(t.Monto, t.Propina, t.Aeropuerto)

	row := []any{
		t.Date.String(), t.Numero, t.HoraInicio, t.HoraFin,
		centsCell(t.Monto), centsCell(t.Propina), flagCell(t.Aeropuerto), centsCell(t.Total),
		t.ID,
	}
	if err := c.appendRow(ctx, tripsSheet, row); err != nil {
		return core.Trip{}, err
	}

	slog.InfoContext(ctx, "Trip saved to spreadsheet",
		"id", t.ID,
		"date", t.Date.String(),
		"numero", t.Numero)

	return t, nil
}

func (c *Client) ListTrips(ctx context.Context, date core.Date) ([]core.Trip, error) {
	rows, err := c.readRows(ctx, tripsSheet)
	if err != nil {
		return nil, err
	}

	var trips []core.Trip
	for _, raw := range rows {
		cols := toStrings(raw)
		t, ok := parseTripRow(cols)
		if !ok || !t.Date.Equal(date) {
			continue
		}
		trips = append(trips, t)
	}
	return trips, nil
}

func parseTripRow(cols []string) (core.Trip, bool) {
	date, err := core.ParseDate(safeGet(cols, 0))
	if err != nil {
		return core.Trip{}, false
	}
	monto, ok := parseCents(safeGet(cols, 4))
	if !ok {
		return core.Trip{}, false
	}
	propina, _ := parseCents(safeGet(cols, 5))
	total, _ := parseCents(safeGet(cols, 7))

	t := core.Trip{
		ID:         safeGet(cols, 8),
		Date:       date,
		HoraInicio: safeGet(cols, 2),
		HoraFin:    safeGet(cols, 3),
		Monto:      core.Money{Cents: monto},
		Propina:    core.Money{Cents: propina},
		Aeropuerto: parseFlag(safeGet(cols, 6)),
		Total:      core.Money{Cents: total},
	}
	t.Numero, _ = strconv.Atoi(safeGet(cols, 1))
	if t.Total.Cents == 0 {
		t.Total = core.TripTotal(t.Monto, t.Propina, t.Aeropuerto)
	}
	return t, true
}

func (c *Client) AppendExtra(ctx context.Context, e core.ExtraTrip) (core.ExtraTrip, error) {
	if err := e.Validate(); err != nil {
		return core.ExtraTrip{}, err
	}

	existing, err := c.ListExtras(ctx, e.Date)
	if err != nil {
		return core.ExtraTrip{}, err
	}
	if core.HasDuplicateExtra(existing, e.HoraInicio, e.HoraFin) {
		return core.ExtraTrip{}, core.ErrDuplicate
	}

	e.ID = uuid.NewString()
	e.Numero = core.NextNumero(len(existing))
	e.Total = e.Monto

	row := []any{
		e.Date.String(), e.Numero, e.HoraInicio, e.HoraFin,
		centsCell(e.Monto), centsCell(e.Total), e.ID,
	}
	if err := c.appendRow(ctx, extrasSheet, row); err != nil {
		return core.ExtraTrip{}, err
	}

	slog.InfoContext(ctx, "Extra trip saved to spreadsheet",
		"id", e.ID,
		"date", e.Date.String(),
		"numero", e.Numero)

	return e, nil
}

func (c *Client) ListExtras(ctx context.Context, date core.Date) ([]core.ExtraTrip, error) {
	rows, err := c.readRows(ctx, extrasSheet)
	if err != nil {
		return nil, err
	}

	var extras []core.ExtraTrip
	for _, raw := range rows {
		cols := toStrings(raw)
		e, ok := parseExtraRow(cols)
		if !ok || !e.Date.Equal(date) {
			continue
		}
		extras = append(extras, e)
	}
	return extras, nil
}

func parseExtraRow(cols []string) (core.ExtraTrip, bool) {
	date, err := core.ParseDate(safeGet(cols, 0))
	if err != nil {
		return core.ExtraTrip{}, false
	}
	monto, ok := parseCents(safeGet(cols, 4))
	if !ok {
		return core.ExtraTrip{}, false
	}
	total, _ := parseCents(safeGet(cols, 5))

	e := core.ExtraTrip{
		ID:         safeGet(cols, 6),
		Date:       date,
		HoraInicio: safeGet(cols, 2),
		HoraFin:    safeGet(cols, 3),
		Monto:      core.Money{Cents: monto},
		Total:      core.Money{Cents: total},
	}
	e.Numero, _ = strconv.Atoi(safeGet(cols, 1))
	if e.Total.Cents == 0 {
		e.Total = e.Monto
	}
	return e, true
}

func (c *Client) AppendExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	e.ID = uuid.NewString()
	row := []any{
		e.Date.String(), e.Hora, centsCell(e.Monto), e.Categoria, e.Descripcion, e.ID,
	}
	if err := c.appendRow(ctx, expensesSheet, row); err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense saved to spreadsheet",
		"id", e.ID,
		"date", e.Date.String(),
		"categoria", e.Categoria)

	return e, nil
}

func (c *Client) ListExpenses(ctx context.Context, date core.Date) ([]core.Expense, error) {
	rows, err := c.readRows(ctx, expensesSheet)
	if err != nil {
		return nil, err
	}

	var expenses []core.Expense
	for _, raw := range rows {
		cols := toStrings(raw)
		rowDate, err := core.ParseDate(safeGet(cols, 0))
		if err != nil || !rowDate.Equal(date) {
			continue
		}
		monto, ok := parseCents(safeGet(cols, 2))
		if !ok {
			continue
		}
		expenses = append(expenses, core.Expense{
			ID:          safeGet(cols, 5),
			Date:        rowDate,
			Hora:        safeGet(cols, 1),
			Monto:       core.Money{Cents: monto},
			Categoria:   safeGet(cols, 3),
			Descripcion: safeGet(cols, 4),
		})
	}
	return expenses, nil
}

func (c *Client) StartOdometer(ctx context.Context, o core.OdometerReading) (core.OdometerReading, error) {
	if err := o.Validate(); err != nil {
		return core.OdometerReading{}, err
	}

	if _, _, err := c.findOdometerRow(ctx, o.Date); err == nil {
		return core.OdometerReading{}, core.ErrAlreadyStarted
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.OdometerReading{}, err
	}

	o.ID = uuid.NewString()
	o.KMEnd = nil
	row := []any{o.Date.String(), o.KMStart, "", o.Notas, "", o.ID}
	if err := c.appendRow(ctx, odometerSheet, row); err != nil {
		return core.OdometerReading{}, err
	}

	slog.InfoContext(ctx, "Odometer start saved to spreadsheet",
		"id", o.ID,
		"date", o.Date.String(),
		"km_start", o.KMStart)

	return o, nil
}

func (c *Client) EndOdometer(ctx context.Context, date core.Date, kmEnd float64, notas string) (core.OdometerReading, error) {
	existing, rowIndex, err := c.findOdometerRow(ctx, date)
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

	row := []any{
		existing.Date.String(), existing.KMStart, kmEnd, existing.Notas,
		existing.Recorrido(), existing.ID,
	}
	if err := c.updateRow(ctx, odometerSheet, rowIndex, row); err != nil {
		return core.OdometerReading{}, err
	}

	slog.InfoContext(ctx, "Odometer end saved to spreadsheet",
		"id", existing.ID,
		"date", date.String(),
		"km_end", kmEnd)

	return existing, nil
}

func (c *Client) GetOdometer(ctx context.Context, date core.Date) (core.OdometerReading, error) {
	o, _, err := c.findOdometerRow(ctx, date)
	return o, err
}

func (c *Client) findOdometerRow(ctx context.Context, date core.Date) (core.OdometerReading, int, error) {
	rows, err := c.readRows(ctx, odometerSheet)
	if err != nil {
		return core.OdometerReading{}, 0, err
	}

	for i, raw := range rows {
		cols := toStrings(raw)
		rowDate, err := core.ParseDate(safeGet(cols, 0))
		if err != nil || !rowDate.Equal(date) {
			continue
		}
		kmStart, ok := parseKilometers(safeGet(cols, 1))
		if !ok {
			continue
		}
		o := core.OdometerReading{
			ID:      safeGet(cols, 5),
			Date:    rowDate,
			KMStart: kmStart,
			Notas:   safeGet(cols, 3),
		}
		if kmEnd, ok := parseKilometers(safeGet(cols, 2)); ok {
			o.KMEnd = &kmEnd
		}
		return o, i, nil
	}
	return core.OdometerReading{}, 0, core.ErrNotFound
}

func (c *Client) AppendBudgetItem(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	if err := b.Validate(); err != nil {
		return core.BudgetItem{}, err
	}

	b.ID = uuid.NewString()
	fechaPago := ""
	if !b.FechaPago.IsZero() {
		fechaPago = b.FechaPago.String()
	}
	row := []any{
		b.Categoria, centsCell(b.Monto), string(b.Tipo), fechaPago, flagCell(b.Pagado), b.ID,
	}
	if err := c.appendRow(ctx, budgetSheet, row); err != nil {
		return core.BudgetItem{}, err
	}

	slog.InfoContext(ctx, "Budget item saved to spreadsheet",
		"id", b.ID,
		"categoria", b.Categoria)

	return b, nil
}

func (c *Client) ListBudgetItems(ctx context.Context) ([]core.BudgetItem, error) {
	items, _, err := c.listBudgetRows(ctx)
	return items, err
}

func (c *Client) listBudgetRows(ctx context.Context) ([]core.BudgetItem, []int, error) {
	rows, err := c.readRows(ctx, budgetSheet)
	if err != nil {
		return nil, nil, err
	}

	var (
		items   []core.BudgetItem
		indexes []int
	)
	for i, raw := range rows {
		cols := toStrings(raw)
		monto, ok := parseCents(safeGet(cols, 1))
		if !ok {
			continue
		}
		b := core.BudgetItem{
			ID:        safeGet(cols, 5),
			Categoria: safeGet(cols, 0),
			Monto:     core.Money{Cents: monto},
			Tipo:      core.BudgetType(safeGet(cols, 2)),
			Pagado:    parseFlag(safeGet(cols, 4)),
		}
		if s := safeGet(cols, 3); s != "" {
			if d, err := core.ParseDate(s); err == nil {
				b.FechaPago = d
			}
		}
		items = append(items, b)
		indexes = append(indexes, i)
	}
	return items, indexes, nil
}

func (c *Client) MarkPaid(ctx context.Context, id string) (core.BudgetItem, error) {
	items, indexes, err := c.listBudgetRows(ctx)
	if err != nil {
		return core.BudgetItem{}, err
	}
	for i, b := range items {
		if b.ID != id {
			continue
		}
		b.Pagado = true
		fechaPago := ""
		if !b.FechaPago.IsZero() {
			fechaPago = b.FechaPago.String()
		}
		row := []any{
			b.Categoria, centsCell(b.Monto), string(b.Tipo), fechaPago, flagCell(true), b.ID,
		}
		if err := c.updateRow(ctx, budgetSheet, indexes[i], row); err != nil {
			return core.BudgetItem{}, err
		}
		return b, nil
	}
	return core.BudgetItem{}, core.ErrNotFound
}

func (c *Client) DeleteBudgetItem(ctx context.Context, id string) error {
	items, indexes, err := c.listBudgetRows(ctx)
	if err != nil {
		return err
	}
	for i, b := range items {
		if b.ID == id {
			return c.deleteRowValues(ctx, budgetSheet, indexes[i])
		}
	}
	return core.ErrNotFound
}

func (c *Client) AppendReport(ctx context.Context, rep core.MonthlyReport) (string, error) {
	id := uuid.NewString()
	if err := c.AppendReportRow(ctx, id, rep); err != nil {
		return "", err
	}
	return id, nil
}

// AppendReportRow writes a monthly report under the given history id.
// The sync worker reuses it to mirror SQLite-saved reports.
func (c *Client) AppendReportRow(ctx context.Context, historyID string, rep core.MonthlyReport) error {
	row := []any{
		rep.Month, rep.Year, rep.TotalKM, rep.TotalTrips,
		centsCell(rep.TotalGrossIncome), centsCell(rep.TotalBonus),
		centsCell(rep.TotalExpenses), centsCell(rep.NetIncome),
		rep.ProductivityPerKM, historyID,
	}
	if err := c.appendRow(ctx, reportsSheet, row); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Monthly report saved to spreadsheet",
		"history_id", historyID,
		"month", rep.Month,
		"year", rep.Year)

	return nil
}
