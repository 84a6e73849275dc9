package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// ImportStore defines the database operations needed to import from spreadsheets
type ImportStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	UpsertEmployees(ctx context.Context, employees []db.Employee) error
	ReplaceRosterCells(ctx context.Context, year, month int, cells []db.RosterCell) error
	UpsertPublicHolidays(ctx context.Context, holidays []db.PublicHoliday) error
}

// SheetsReader reads staff and rosters from Google Sheets
type SheetsReader interface {
	ListStaff(spreadsheetID, tab string) ([]roster.Employee, error)
	ReadRoster(spreadsheetID string, period roster.Period) (*roster.Roster, error)
}

// ImportResult counts what an import wrote
type ImportResult struct {
	Period   roster.Period
	Staff    int
	Cells    int
	Holidays int
	// Roster rows whose employee id is not on the staff list
	UnknownSlots []string
}

// ImportSheets copies the staff list, a month's roster and the holiday calendar into the database.
// Each source is skipped when it is not configured; holidays is nil when there is no holiday sheet.
func ImportSheets(
	ctx context.Context,
	store ImportStore,
	sheets SheetsReader,
	holidays db.HolidaySource,
	cfg *config.Config,
	logger *zap.Logger,
	year, month int,
) (*ImportResult, error) {
	logger.Debug("Starting importSheets", zap.Int("year", year), zap.Int("month", month))

	period, err := roster.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{Period: period}

	// Step 1: Staff
	if cfg.StaffSheetID != "" {
		logger.Debug("Importing staff", zap.String("sheet", cfg.StaffSheetID))
		staff, err := sheets.ListStaff(cfg.StaffSheetID, cfg.StaffTab)
		if err != nil {
			return nil, fmt.Errorf("failed to read staff: %w", err)
		}
		stored := make([]db.Employee, 0, len(staff))
		for _, e := range staff {
			stored = append(stored, db.FromRosterEmployee(e))
		}
		if err := store.UpsertEmployees(ctx, stored); err != nil {
			return nil, fmt.Errorf("failed to store staff: %w", err)
		}
		result.Staff = len(staff)
	}

	// Step 2: Roster
	if cfg.RosterSheetID != "" {
		logger.Debug("Importing roster", zap.String("sheet", cfg.RosterSheetID))
		r, err := sheets.ReadRoster(cfg.RosterSheetID, period)
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}

		employees, err := store.GetEmployees(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch employees: %w", err)
		}
		result.UnknownSlots = unknownSlots(r, employees)
		if len(result.UnknownSlots) > 0 {
			logger.Warn("Roster rows reference unknown employees", zap.Strings("slots", result.UnknownSlots))
		}

		cells := db.FromRoster(period, r)
		if err := store.ReplaceRosterCells(ctx, year, month, cells); err != nil {
			return nil, fmt.Errorf("failed to store roster: %w", err)
		}
		result.Cells = len(cells)
	}

	// Step 3: Holidays
	var toStore []db.PublicHoliday
	if holidays != nil {
		logger.Debug("Importing holiday sheet")
		sheetHolidays, err := holidays.GetPublicHolidays(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read holidays: %w", err)
		}
		toStore = append(toStore, sheetHolidays...)
	}
	configured, err := cfg.HolidayDates(period)
	if err != nil {
		return nil, fmt.Errorf("failed to expand holiday rules: %w", err)
	}
	for _, d := range configured {
		toStore = append(toStore, db.PublicHoliday{Date: d})
	}
	toStore = dedupeHolidays(toStore)
	if err := store.UpsertPublicHolidays(ctx, toStore); err != nil {
		return nil, fmt.Errorf("failed to store holidays: %w", err)
	}
	result.Holidays = len(toStore)

	logger.Info("Sheets imported",
		zap.String("period", period.String()),
		zap.Int("staff", result.Staff),
		zap.Int("cells", result.Cells),
		zap.Int("holidays", result.Holidays))

	return result, nil
}

// unknownSlots lists assigned roster rows with no matching employee, sorted
func unknownSlots(r *roster.Roster, employees []db.Employee) []string {
	known := make(map[string]bool, len(employees))
	for _, e := range employees {
		known[e.ID] = true
	}

	var unknown []string
	for _, row := range r.Assigned() {
		if !known[row.Slot.EmployeeID()] {
			unknown = append(unknown, row.Slot.EmployeeID())
		}
	}
	sort.Strings(unknown)
	return unknown
}

// dedupeHolidays keeps one entry per date, preferring a named one
func dedupeHolidays(holidays []db.PublicHoliday) []db.PublicHoliday {
	byDate := make(map[string]db.PublicHoliday, len(holidays))
	for _, h := range holidays {
		if existing, ok := byDate[h.Date]; ok && existing.Name != "" {
			continue
		}
		byDate[h.Date] = h
	}

	result := make([]db.PublicHoliday, 0, len(byDate))
	for _, h := range byDate {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result
}
