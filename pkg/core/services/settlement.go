package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// ConfirmSettlementStore defines the database operations needed to confirm a settlement
type ConfirmSettlementStore interface {
	RosterStore
	ApplySettlement(ctx context.Context, run db.SettlementRun, rows []settlement.Row) ([]settlement.BalanceUpdate, error)
}

// EmailSender sends a plain-text email
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// SettlementPublisher writes a month's settlement to a spreadsheet
type SettlementPublisher interface {
	PublishSettlement(spreadsheetID string, period roster.Period, rows []settlement.Row) error
}

// SettlementPreview is a month's pay breakdown and the balance changes confirming it would make
type SettlementPreview struct {
	Period  roster.Period
	Rows    []settlement.Row
	Updates []settlement.BalanceUpdate
}

// ConfirmOptions selects the optional side effects of a confirmation.
// A nil Notifier, Publisher or Archive skips that step.
type ConfirmOptions struct {
	Notifier  EmailSender
	Publisher SettlementPublisher
	Archive   db.SettlementArchive
}

// NotificationFailure records an employee who could not be emailed
type NotificationFailure struct {
	EmployeeID string
	Email      string
	Err        error
}

// SettlementConfirmation is the outcome of a committed settlement
type SettlementConfirmation struct {
	Run     db.SettlementRun
	Rows    []settlement.Row
	Updates []settlement.BalanceUpdate
	// Emails sent, and employees skipped for having no address
	Notified             int
	SkippedNoEmail       []string
	NotificationFailures []NotificationFailure
	// Publish and archive errors happen after commit and never undo it
	PublishErr error
	ArchiveErr error
}

// calculateMonth loads a month and runs the settlement calculator over it
func calculateMonth(ctx context.Context, store RosterStore, cfg *config.Config, logger *zap.Logger, year, month int) (*monthSnapshot, []settlement.Row, error) {
	snapshot, err := loadMonth(ctx, store, cfg, logger, year, month)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Calculating settlement", zap.String("base_salary", cfg.BaseSalary))
	rows, err := settlement.Calculate(settlement.Input{
		Roster:     snapshot.roster,
		Employees:  snapshot.employees,
		BaseSalary: cfg.BaseSalaryDecimal(),
		Holidays:   snapshot.holidays,
		Period:     snapshot.period,
		Catalog:    cfg.Catalog(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to calculate settlement: %w", err)
	}
	return snapshot, rows, nil
}

// PreviewSettlement calculates a month's settlement without touching any balance.
// Updates are projected against the currently stored history.
func PreviewSettlement(
	ctx context.Context,
	store RosterStore,
	cfg *config.Config,
	logger *zap.Logger,
	year, month int,
) (*SettlementPreview, error) {
	logger.Debug("Starting previewSettlement", zap.Int("year", year), zap.Int("month", month))

	snapshot, rows, err := calculateMonth(ctx, store, cfg, logger, year, month)
	if err != nil {
		return nil, err
	}

	updates := settlement.ComputeLedger(snapshot.period.MonthKey(), snapshot.employees, rows)

	logger.Info("Settlement previewed",
		zap.String("period", snapshot.period.String()),
		zap.Int("rows", len(rows)),
		zap.Int("updates", len(updates)))

	return &SettlementPreview{Period: snapshot.period, Rows: rows, Updates: updates}, nil
}

// ConfirmSettlement commits a month's settlement to the balance ledger, then optionally
// archives, publishes and emails it. Only the ledger write can fail the confirmation;
// later steps report their errors on the result.
func ConfirmSettlement(
	ctx context.Context,
	store ConfirmSettlementStore,
	cfg *config.Config,
	logger *zap.Logger,
	year, month int,
	opts ConfirmOptions,
) (*SettlementConfirmation, error) {
	logger.Debug("Starting confirmSettlement", zap.Int("year", year), zap.Int("month", month))

	// Step 1: Calculate
	snapshot, rows, err := calculateMonth(ctx, store, cfg, logger, year, month)
	if err != nil {
		return nil, err
	}

	// Step 2: Commit to the ledger
	run := db.NewSettlementRun(uuid.NewString(), snapshot.period, cfg.BaseSalaryDecimal().String(), len(rows), time.Now())
	logger.Debug("Applying settlement", zap.String("run_id", run.ID))
	updates, err := store.ApplySettlement(ctx, run, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to apply settlement: %w", err)
	}

	result := &SettlementConfirmation{Run: run, Rows: rows, Updates: updates}
	logger.Info("Settlement confirmed",
		zap.String("run_id", run.ID),
		zap.String("period", snapshot.period.String()),
		zap.Int("updates", len(updates)))

	// Step 3: Archive
	if opts.Archive != nil {
		logger.Debug("Archiving settlement export")
		if err := opts.Archive.InsertSettlementExports(db.ExportRows(run, rows, updates)); err != nil {
			result.ArchiveErr = err
			logger.Warn("Failed to archive settlement", zap.Error(err))
		}
	}

	// Step 4: Publish
	if opts.Publisher != nil {
		if cfg.SettlementSheetID == "" {
			result.PublishErr = fmt.Errorf("settlementSheetID is not configured")
		} else if err := opts.Publisher.PublishSettlement(cfg.SettlementSheetID, snapshot.period, rows); err != nil {
			result.PublishErr = err
		}
		if result.PublishErr != nil {
			logger.Warn("Failed to publish settlement", zap.Error(result.PublishErr))
		}
	}

	// Step 5: Notify
	if opts.Notifier != nil {
		notifyEmployees(opts.Notifier, snapshot, rows, updates, result, logger)
	}

	return result, nil
}

// notifyEmployees emails each employee with a ledger update their new balances
func notifyEmployees(
	notifier EmailSender,
	snapshot *monthSnapshot,
	rows []settlement.Row,
	updates []settlement.BalanceUpdate,
	result *SettlementConfirmation,
	logger *zap.Logger,
) {
	byID := roster.Index(snapshot.employees)
	rowsByID := make(map[string]settlement.Row, len(rows))
	for _, r := range rows {
		rowsByID[r.EmployeeID] = r
	}

	for _, u := range updates {
		e := byID[u.EmployeeID]
		if e.Email == "" {
			result.SkippedNoEmail = append(result.SkippedNoEmail, e.ID)
			continue
		}

		subject, body := settlementNotice(snapshot.period, e, rowsByID[e.ID], u)
		if err := notifier.SendEmail(e.Email, subject, body); err != nil {
			result.NotificationFailures = append(result.NotificationFailures, NotificationFailure{
				EmployeeID: e.ID,
				Email:      e.Email,
				Err:        err,
			})
			logger.Warn("Failed to send settlement notice", zap.String("employee_id", e.ID), zap.Error(err))
			continue
		}
		result.Notified++
	}

	logger.Info("Settlement notices sent",
		zap.Int("sent", result.Notified),
		zap.Int("failed", len(result.NotificationFailures)),
		zap.Strings("skipped", result.SkippedNoEmail))
}

// settlementNotice renders the email telling an employee how their balances changed
func settlementNotice(period roster.Period, e roster.Employee, row settlement.Row, u settlement.BalanceUpdate) (string, string) {
	name := e.Name
	if name == "" {
		name = e.ID
	}

	subject := fmt.Sprintf("Settlement for %s", period.MonthKey())

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Your settlement for %s has been confirmed.\n\n", period.MonthKey())
	fmt.Fprintf(&b, "Work days: %d (standard %d)\n", row.WorkDays, row.StandardDays)
	fmt.Fprintf(&b, "Overtime days: %d\n", row.OTDays)
	fmt.Fprintf(&b, "Night shifts: %d\n", row.NightShifts)
	fmt.Fprintf(&b, "Final pay: %s\n\n", row.FinalPay.StringFixed(0))
	fmt.Fprintf(&b, "Overtime balance: %d (%+d)\n", u.NewAccumulatedOT, u.OTDelta)
	fmt.Fprintf(&b, "Night shift balance: %d (%+d)\n", u.NewNightBalance, u.NightDelta)
	return subject, b.String()
}
