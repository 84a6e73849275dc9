package db

import (
	"context"

	"github.com/jakechorley/ward-roster/pkg/core/settlement"
)

// EmployeeStore defines the interface for employee database operations
type EmployeeStore interface {
	GetEmployees(ctx context.Context) ([]Employee, error)
	GetSettlementHistory(ctx context.Context) ([]SettlementHistory, error)
	UpsertEmployees(ctx context.Context, employees []Employee) error
}

// LedgerStore applies a confirmed settlement. Implementations must compute the
// balance deltas and write them atomically, serialising concurrent runs.
type LedgerStore interface {
	ApplySettlement(ctx context.Context, run SettlementRun, rows []settlement.Row) ([]settlement.BalanceUpdate, error)
	GetSettlementRuns(ctx context.Context) ([]SettlementRun, error)
}

// HolidaySource defines the interface for reading public holidays
type HolidaySource interface {
	GetPublicHolidays(ctx context.Context) ([]PublicHoliday, error)
}

// SettlementArchive defines the interface for exporting confirmed settlements
type SettlementArchive interface {
	InsertSettlementExports(exports []SettlementExport) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	EmployeeStore
	LedgerStore
	HolidaySource
	UpsertPublicHolidays(ctx context.Context, holidays []PublicHoliday) error
	GetRosterCells(ctx context.Context, year, month int) ([]RosterCell, error)
	ReplaceRosterCells(ctx context.Context, year, month int, cells []RosterCell) error
	GetHealthSummaries(ctx context.Context) ([]HealthSummary, error)
	ReplaceHealthSummaries(ctx context.Context, summaries []HealthSummary) error
}
