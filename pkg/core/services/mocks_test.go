package services

import (
	"context"
	"errors"
	"slices"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// mockStore implements every store interface the services declare
type mockStore struct {
	employees []db.Employee
	history   []db.SettlementHistory
	cells     []db.RosterCell
	holidays  []db.PublicHoliday
	summaries []db.HealthSummary

	getEmployeesErr error
	getCellsErr     error
	applyErr        error
	getRunsErr      error

	appliedRuns      []db.SettlementRun
	upsertedStaff    []db.Employee
	replacedCells    []db.RosterCell
	upsertedHolidays []db.PublicHoliday
	replacedTrend    []db.HealthSummary
}

func (m *mockStore) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	if m.getEmployeesErr != nil {
		return nil, m.getEmployeesErr
	}
	return m.employees, nil
}

func (m *mockStore) GetSettlementHistory(ctx context.Context) ([]db.SettlementHistory, error) {
	return m.history, nil
}

func (m *mockStore) UpsertEmployees(ctx context.Context, employees []db.Employee) error {
	m.upsertedStaff = append(m.upsertedStaff, employees...)
	return nil
}

func (m *mockStore) GetRosterCells(ctx context.Context, year, month int) ([]db.RosterCell, error) {
	if m.getCellsErr != nil {
		return nil, m.getCellsErr
	}
	var cells []db.RosterCell
	for _, c := range m.cells {
		if c.Year == year && c.Month == month {
			cells = append(cells, c)
		}
	}
	return cells, nil
}

func (m *mockStore) ReplaceRosterCells(ctx context.Context, year, month int, cells []db.RosterCell) error {
	m.replacedCells = cells
	return nil
}

func (m *mockStore) GetPublicHolidays(ctx context.Context) ([]db.PublicHoliday, error) {
	return m.holidays, nil
}

func (m *mockStore) UpsertPublicHolidays(ctx context.Context, holidays []db.PublicHoliday) error {
	m.upsertedHolidays = holidays
	return nil
}

func (m *mockStore) GetHealthSummaries(ctx context.Context) ([]db.HealthSummary, error) {
	return m.summaries, nil
}

func (m *mockStore) ReplaceHealthSummaries(ctx context.Context, summaries []db.HealthSummary) error {
	m.replacedTrend = summaries
	return nil
}

// ApplySettlement mirrors the postgres ledger: deltas against stored history, then persist
func (m *mockStore) ApplySettlement(ctx context.Context, run db.SettlementRun, rows []settlement.Row) ([]settlement.BalanceUpdate, error) {
	if m.applyErr != nil {
		return nil, m.applyErr
	}
	employees, err := db.ToRosterEmployees(m.employees, m.history)
	if err != nil {
		return nil, err
	}
	updates := settlement.ComputeLedger(run.MonthKey, employees, rows)
	for _, u := range updates {
		for i := range m.employees {
			if m.employees[i].ID == u.EmployeeID {
				m.employees[i].AccumulatedOT += u.OTDelta
				m.employees[i].NightShiftBalance += u.NightDelta
			}
		}
		m.setHistory(u.EmployeeID, u.MonthKey, u.NewRecord)
	}
	m.appliedRuns = append(m.appliedRuns, run)
	return updates, nil
}

// GetSettlementRuns returns applied runs most recent first, like the postgres store
func (m *mockStore) GetSettlementRuns(ctx context.Context) ([]db.SettlementRun, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	runs := slices.Clone(m.appliedRuns)
	slices.Reverse(runs)
	return runs, nil
}

func (m *mockStore) setHistory(id, monthKey string, rec roster.SettlementRecord) {
	for i := range m.history {
		if m.history[i].EmployeeID == id && m.history[i].MonthKey == monthKey {
			m.history[i].OT, m.history[i].Night = rec.OT, rec.Night
			return
		}
	}
	m.history = append(m.history, db.SettlementHistory{EmployeeID: id, MonthKey: monthKey, OT: rec.OT, Night: rec.Night})
}

type sentEmail struct {
	to, subject, body string
}

// mockEmailSender records emails and fails for addresses in failFor
type mockEmailSender struct {
	sent    []sentEmail
	failFor map[string]bool
}

func (m *mockEmailSender) SendEmail(to, subject, body string) error {
	if m.failFor[to] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

// mockPublisher records published settlements
type mockPublisher struct {
	sheetID string
	period  roster.Period
	rows    []settlement.Row
	err     error
}

func (m *mockPublisher) PublishSettlement(spreadsheetID string, period roster.Period, rows []settlement.Row) error {
	if m.err != nil {
		return m.err
	}
	m.sheetID, m.period, m.rows = spreadsheetID, period, rows
	return nil
}

// mockArchive records settlement exports
type mockArchive struct {
	exports []db.SettlementExport
	err     error
}

func (m *mockArchive) InsertSettlementExports(exports []db.SettlementExport) error {
	if m.err != nil {
		return m.err
	}
	m.exports = append(m.exports, exports...)
	return nil
}

// mockSheetsReader serves canned staff and rosters
type mockSheetsReader struct {
	staff     []roster.Employee
	roster    *roster.Roster
	staffErr  error
	rosterErr error
}

func (m *mockSheetsReader) ListStaff(spreadsheetID, tab string) ([]roster.Employee, error) {
	if m.staffErr != nil {
		return nil, m.staffErr
	}
	return m.staff, nil
}

func (m *mockSheetsReader) ReadRoster(spreadsheetID string, period roster.Period) (*roster.Roster, error) {
	if m.rosterErr != nil {
		return nil, m.rosterErr
	}
	return m.roster, nil
}

// mockHolidaySource serves a canned holiday sheet
type mockHolidaySource struct {
	holidays []db.PublicHoliday
}

func (m *mockHolidaySource) GetPublicHolidays(ctx context.Context) ([]db.PublicHoliday, error) {
	return m.holidays, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL: "postgres://localhost/ward_test",
		BaseSalary:  "40000",
	}
}

// cellsFor builds stored cells for one slot, one code per day starting at day 1.
// Empty codes are left unset.
func cellsFor(year, month int, slot string, codes ...string) []db.RosterCell {
	var cells []db.RosterCell
	for i, code := range codes {
		if code == "" {
			continue
		}
		cells = append(cells, db.RosterCell{Year: year, Month: month, Slot: slot, Day: i + 1, Code: code})
	}
	return cells
}

// repeat returns n copies of code
func repeat(code string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = code
	}
	return out
}
