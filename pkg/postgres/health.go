package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/ward-roster/pkg/db"
)

// GetHealthSummaries retrieves the stored trend, oldest first
func (d *DB) GetHealthSummaries(ctx context.Context) ([]db.HealthSummary, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT year, month, avg, median
		FROM health_summary
		ORDER BY year, month
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query health summaries: %w", err)
	}
	defer rows.Close()

	var summaries []db.HealthSummary
	for rows.Next() {
		var s db.HealthSummary
		if err := rows.Scan(&s.Year, &s.Month, &s.Avg, &s.Median); err != nil {
			return nil, fmt.Errorf("failed to scan health summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating health summaries: %w", err)
	}

	return summaries, nil
}

// ReplaceHealthSummaries overwrites the stored trend
func (d *DB) ReplaceHealthSummaries(ctx context.Context, summaries []db.HealthSummary) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM health_summary`); err != nil {
		return fmt.Errorf("failed to clear health summaries: %w", err)
	}

	for _, s := range summaries {
		_, err := tx.Exec(ctx, `
			INSERT INTO health_summary (year, month, avg, median) VALUES ($1, $2, $3, $4)
		`, s.Year, s.Month, s.Avg, s.Median)
		if err != nil {
			return fmt.Errorf("failed to insert health summary: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
