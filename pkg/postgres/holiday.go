package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/ward-roster/pkg/db"
)

// GetPublicHolidays retrieves all public holiday records
func (d *DB) GetPublicHolidays(ctx context.Context) ([]db.PublicHoliday, error) {
	rows, err := d.pool.Query(ctx, `SELECT date, name FROM public_holiday ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query public holidays: %w", err)
	}
	defer rows.Close()

	var holidays []db.PublicHoliday
	for rows.Next() {
		var h db.PublicHoliday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan public holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating public holidays: %w", err)
	}

	return holidays, nil
}

// UpsertPublicHolidays inserts holidays, updating the name of any that already exist
func (d *DB) UpsertPublicHolidays(ctx context.Context, holidays []db.PublicHoliday) error {
	if len(holidays) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, h := range holidays {
		_, err := tx.Exec(ctx, `
			INSERT INTO public_holiday (date, name) VALUES ($1, $2)
			ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name
		`, h.Date, h.Name)
		if err != nil {
			return fmt.Errorf("failed to upsert public holiday %s: %w", h.Date, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
