package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// EmployeeReader defines the database operations needed to load staff with their balances
type EmployeeReader interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetSettlementHistory(ctx context.Context) ([]db.SettlementHistory, error)
}

// RosterStore defines the database operations needed to analyze a month's roster
type RosterStore interface {
	EmployeeReader
	GetRosterCells(ctx context.Context, year, month int) ([]db.RosterCell, error)
	GetPublicHolidays(ctx context.Context) ([]db.PublicHoliday, error)
}

// monthSnapshot is everything loaded for one month
type monthSnapshot struct {
	period    roster.Period
	roster    *roster.Roster
	employees []roster.Employee
	holidays  roster.HolidaySet
}

// loadEmployees reads staff and their settlement history
func loadEmployees(ctx context.Context, store EmployeeReader) ([]roster.Employee, error) {
	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	history, err := store.GetSettlementHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settlement history: %w", err)
	}

	result, err := db.ToRosterEmployees(employees, history)
	if err != nil {
		return nil, fmt.Errorf("failed to convert employees: %w", err)
	}
	return result, nil
}

// loadMonth reads the roster, staff and holidays for a month.
// Holidays are the stored calendar plus the configured dates and rules.
func loadMonth(ctx context.Context, store RosterStore, cfg *config.Config, logger *zap.Logger, year, month int) (*monthSnapshot, error) {
	period, err := roster.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetching employees")
	employees, err := loadEmployees(ctx, store)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetching roster cells", zap.String("period", period.String()))
	cells, err := store.GetRosterCells(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	logger.Debug("Fetching public holidays")
	stored, err := store.GetPublicHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public holidays: %w", err)
	}
	holidays := db.HolidaySet(stored)

	configured, err := cfg.HolidayDates(period)
	if err != nil {
		return nil, fmt.Errorf("failed to expand holiday rules: %w", err)
	}
	for _, d := range configured {
		holidays.Add(d)
	}

	snapshot := &monthSnapshot{
		period:    period,
		roster:    db.ToRoster(cells),
		employees: employees,
		holidays:  holidays,
	}

	logger.Debug("Loaded month",
		zap.String("period", period.String()),
		zap.Int("employees", len(employees)),
		zap.Int("rows", len(snapshot.roster.Rows)),
		zap.Int("cells", len(cells)))

	return snapshot, nil
}

// getEmployeeIDs extracts employee IDs (useful for logging)
func getEmployeeIDs(employees []roster.Employee) []string {
	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}
	return ids
}

