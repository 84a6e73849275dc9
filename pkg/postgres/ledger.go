package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// ApplySettlement commits a confirmed settlement in one transaction.
// Employee rows are locked in id order, so concurrent confirmations are serialised
// and each computes its deltas against the history the previous one committed.
func (d *DB) ApplySettlement(ctx context.Context, run db.SettlementRun, rows []settlement.Row) ([]settlement.BalanceUpdate, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	employees, err := lockEmployees(ctx, tx, run.MonthKey)
	if err != nil {
		return nil, err
	}

	updates := settlement.ComputeLedger(run.MonthKey, employees, rows)
	d.logger.Debug("Computed ledger updates",
		zap.String("month", run.MonthKey),
		zap.Int("rows", len(rows)),
		zap.Int("updates", len(updates)))

	for _, u := range updates {
		if !u.IsZero() {
			_, err := tx.Exec(ctx, `
				UPDATE employee
				SET accumulated_ot = accumulated_ot + $2, night_shift_balance = night_shift_balance + $3
				WHERE id = $1
			`, u.EmployeeID, u.OTDelta, u.NightDelta)
			if err != nil {
				return nil, fmt.Errorf("failed to update balances for %s: %w", u.EmployeeID, err)
			}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO settlement_history (employee_id, month_key, ot, night)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (employee_id, month_key) DO UPDATE SET ot = EXCLUDED.ot, night = EXCLUDED.night
		`, u.EmployeeID, u.MonthKey, u.NewRecord.OT, u.NewRecord.Night)
		if err != nil {
			return nil, fmt.Errorf("failed to record settlement history for %s: %w", u.EmployeeID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO settlement_run (id, month_key, base_salary, employee_count, confirmed_at)
		VALUES ($1::uuid, $2, $3::numeric, $4, $5::timestamptz)
	`, run.ID, run.MonthKey, run.BaseSalary, run.EmployeeCount, run.ConfirmedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert settlement run: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updates, nil
}

// lockEmployees reads every employee's balances and their record for monthKey under row locks
func lockEmployees(ctx context.Context, tx pgx.Tx, monthKey string) ([]roster.Employee, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, accumulated_ot, night_shift_balance
		FROM employee
		ORDER BY id
		FOR UPDATE
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to lock employees: %w", err)
	}

	var employees []roster.Employee
	for rows.Next() {
		var e roster.Employee
		if err := rows.Scan(&e.ID, &e.AccumulatedOT, &e.NightShiftBalance); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	historyRows, err := tx.Query(ctx, `
		SELECT employee_id, ot, night FROM settlement_history WHERE month_key = $1
	`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement history: %w", err)
	}
	defer historyRows.Close()

	records := make(map[string]roster.SettlementRecord)
	for historyRows.Next() {
		var id string
		var rec roster.SettlementRecord
		if err := historyRows.Scan(&id, &rec.OT, &rec.Night); err != nil {
			return nil, fmt.Errorf("failed to scan settlement history: %w", err)
		}
		records[id] = rec
	}
	if err := historyRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement history: %w", err)
	}

	for i := range employees {
		if rec, ok := records[employees[i].ID]; ok {
			employees[i].SettlementHistory = map[string]roster.SettlementRecord{monthKey: rec}
		}
	}
	return employees, nil
}

// GetSettlementRuns retrieves confirmed runs, most recent first
func (d *DB) GetSettlementRuns(ctx context.Context) ([]db.SettlementRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, month_key, base_salary::text, employee_count, confirmed_at
		FROM settlement_run
		ORDER BY confirmed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement runs: %w", err)
	}
	defer rows.Close()

	var runs []db.SettlementRun
	for rows.Next() {
		var r db.SettlementRun
		var confirmedAt time.Time
		if err := rows.Scan(&r.ID, &r.MonthKey, &r.BaseSalary, &r.EmployeeCount, &confirmedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement run: %w", err)
		}
		r.ConfirmedAt = confirmedAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement runs: %w", err)
	}

	return runs, nil
}
