package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/ward-roster/pkg/db"
)

// GetEmployees retrieves all employee records ordered by id
func (d *DB) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, level, is_leader, is_active, hour_rule, accumulated_ot, night_shift_balance
		FROM employee
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []db.Employee
	for rows.Next() {
		var e db.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Level, &e.IsLeader, &e.IsActive,
			&e.HourRule, &e.AccumulatedOT, &e.NightShiftBalance); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetSettlementHistory retrieves every stored per-month settlement record
func (d *DB) GetSettlementHistory(ctx context.Context) ([]db.SettlementHistory, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, month_key, ot, night
		FROM settlement_history
		ORDER BY employee_id, month_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement history: %w", err)
	}
	defer rows.Close()

	var history []db.SettlementHistory
	for rows.Next() {
		var h db.SettlementHistory
		if err := rows.Scan(&h.EmployeeID, &h.MonthKey, &h.OT, &h.Night); err != nil {
			return nil, fmt.Errorf("failed to scan settlement history: %w", err)
		}
		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement history: %w", err)
	}

	return history, nil
}

// UpsertEmployees inserts or updates staff profile fields.
// Balances are only set on insert; existing balances are owned by the ledger.
func (d *DB) UpsertEmployees(ctx context.Context, employees []db.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range employees {
		_, err := tx.Exec(ctx, `
			INSERT INTO employee (id, name, email, level, is_leader, is_active, hour_rule, accumulated_ot, night_shift_balance)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				level = EXCLUDED.level,
				is_leader = EXCLUDED.is_leader,
				is_active = EXCLUDED.is_active,
				hour_rule = EXCLUDED.hour_rule
		`, e.ID, e.Name, e.Email, e.Level, e.IsLeader, e.IsActive, e.HourRule, e.AccumulatedOT, e.NightShiftBalance)
		if err != nil {
			return fmt.Errorf("failed to upsert employee %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
