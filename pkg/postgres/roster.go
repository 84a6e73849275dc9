package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/ward-roster/pkg/db"
)

// GetRosterCells retrieves the stored cells for one month
func (d *DB) GetRosterCells(ctx context.Context, year, month int) ([]db.RosterCell, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT year, month, slot, day, code, time
		FROM roster_cell
		WHERE year = $1 AND month = $2
		ORDER BY slot, day
	`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster cells: %w", err)
	}
	defer rows.Close()

	var cells []db.RosterCell
	for rows.Next() {
		var c db.RosterCell
		if err := rows.Scan(&c.Year, &c.Month, &c.Slot, &c.Day, &c.Code, &c.Time); err != nil {
			return nil, fmt.Errorf("failed to scan roster cell: %w", err)
		}
		cells = append(cells, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster cells: %w", err)
	}

	return cells, nil
}

// ReplaceRosterCells replaces a month's roster with the given cells in one transaction
func (d *DB) ReplaceRosterCells(ctx context.Context, year, month int, cells []db.RosterCell) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM roster_cell WHERE year = $1 AND month = $2`, year, month); err != nil {
		return fmt.Errorf("failed to clear roster cells: %w", err)
	}

	for _, c := range cells {
		if c.Year != year || c.Month != month {
			return fmt.Errorf("roster cell for %s day %d belongs to %04d-%02d, not %04d-%02d",
				c.Slot, c.Day, c.Year, c.Month, year, month)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_cell (year, month, slot, day, code, time)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, c.Year, c.Month, c.Slot, c.Day, c.Code, c.Time)
		if err != nil {
			return fmt.Errorf("failed to insert roster cell: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
