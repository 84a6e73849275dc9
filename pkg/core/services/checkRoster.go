package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/core/analysis"
	"github.com/jakechorley/ward-roster/pkg/core/health"
)

// CheckRoster runs compliance, risk and health analysis over a stored month
func CheckRoster(
	ctx context.Context,
	store RosterStore,
	cfg *config.Config,
	logger *zap.Logger,
	year, month int,
) (*analysis.Report, error) {
	logger.Debug("Starting checkRoster", zap.Int("year", year), zap.Int("month", month))

	// Step 1: Load the month
	snapshot, err := loadMonth(ctx, store, cfg, logger, year, month)
	if err != nil {
		return nil, err
	}

	// Step 2: Analyze
	logger.Debug("Analyzing roster")
	catalog := cfg.Catalog()
	report, err := analysis.Analyze(ctx, analysis.Input{
		Roster:    snapshot.roster,
		Employees: snapshot.employees,
		Holidays:  snapshot.holidays,
		Period:    snapshot.period,
		Catalog:   catalog,
		Health:    health.Options{ClampAtZero: cfg.ShouldClampHealthScore(), Catalog: catalog},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check roster: %w", err)
	}

	logger.Info("Roster checked",
		zap.String("period", snapshot.period.String()),
		zap.Int("violations", len(report.Violations)),
		zap.Int("at_risk", len(report.Risks)),
		zap.Int("health_avg", report.HealthSummary.Avg))

	return report, nil
}
