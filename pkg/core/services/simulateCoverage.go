package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/core/coverage"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// CoverageStore defines the database operations needed to simulate coverage
type CoverageStore interface {
	GetRosterCells(ctx context.Context, year, month int) ([]db.RosterCell, error)
}

// SimulateCoverage compares a stored month's clinical staffing against ward demand
func SimulateCoverage(
	ctx context.Context,
	store CoverageStore,
	cfg *config.Config,
	logger *zap.Logger,
	year, month int,
	demand coverage.Demand,
) (*coverage.Result, error) {
	logger.Debug("Starting simulateCoverage",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("beds", demand.Beds))

	period, err := roster.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}

	cells, err := store.GetRosterCells(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	result, err := coverage.Simulate(db.ToRoster(cells), period, demand, cfg.BaseSalaryDecimal())
	if err != nil {
		return nil, fmt.Errorf("failed to simulate coverage: %w", err)
	}

	logger.Info("Coverage simulated",
		zap.String("period", period.String()),
		zap.Int("staff", result.StaffCount),
		zap.Int("gap_shifts", result.GapShifts),
		zap.String("extra_ot_cost", result.ExtraOTCost.String()))

	return &result, nil
}

// DemandFromConfig fills any unset demand field from the configured defaults
func DemandFromConfig(cfg *config.Config, demand coverage.Demand) coverage.Demand {
	if demand.Beds == 0 {
		demand.Beds = cfg.Coverage.Beds
	}
	if demand.RatioD == 0 {
		demand.RatioD = cfg.Coverage.RatioD
	}
	if demand.RatioE == 0 {
		demand.RatioE = cfg.Coverage.RatioE
	}
	if demand.RatioN == 0 {
		demand.RatioN = cfg.Coverage.RatioN
	}
	demand.BanNight = demand.BanNight || cfg.Coverage.BanNight
	return demand
}
