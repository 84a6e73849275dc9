package db

import (
	"context"
	"fmt"

	"github.com/jakechorley/ward-roster/pkg/sheetssql"
)

// Models returns every model stored in a SheetsSQL spreadsheet
func Models() []interface{} {
	return []interface{}{PublicHoliday{}, SettlementExport{}}
}

// DB provides the spreadsheet-backed holiday calendar and settlement export using SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB) *DB {
	return &DB{
		ssql: ssql,
	}
}

// GetPublicHolidays retrieves all public holiday records
func (db *DB) GetPublicHolidays(ctx context.Context) ([]PublicHoliday, error) {
	holidays, err := sheetssql.GetTableAs[PublicHoliday](db.ssql, "public_holiday")
	if err != nil {
		return nil, fmt.Errorf("failed to get public holidays: %w", err)
	}
	return holidays, nil
}

// InsertSettlementExports appends settlement export rows
func (db *DB) InsertSettlementExports(exports []SettlementExport) error {
	if err := sheetssql.InsertModels(db.ssql, exports); err != nil {
		return fmt.Errorf("failed to insert settlement exports: %w", err)
	}
	return nil
}
