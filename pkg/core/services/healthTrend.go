package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/core/health"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// HealthTrendStore defines the database operations needed to maintain the health trend
type HealthTrendStore interface {
	GetRosterCells(ctx context.Context, year, month int) ([]db.RosterCell, error)
	GetHealthSummaries(ctx context.Context) ([]db.HealthSummary, error)
	ReplaceHealthSummaries(ctx context.Context, summaries []db.HealthSummary) error
}

// GetHealthTrend returns the stored rolling trend, oldest first
func GetHealthTrend(ctx context.Context, store HealthTrendStore, logger *zap.Logger) (health.Trend, error) {
	logger.Debug("Fetching health summaries")
	summaries, err := store.GetHealthSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch health summaries: %w", err)
	}
	return db.ToTrend(summaries), nil
}

// RecordHealthTrend scores a month's roster, upserts its summary into the trend and stores
// the result. Recording a month twice replaces its entry; only the newest months are kept.
func RecordHealthTrend(
	ctx context.Context,
	store HealthTrendStore,
	cfg *config.Config,
	logger *zap.Logger,
	year, month int,
) (health.Trend, health.MonthlySummary, error) {
	logger.Debug("Starting recordHealthTrend", zap.Int("year", year), zap.Int("month", month))

	period, err := roster.NewPeriod(year, month)
	if err != nil {
		return nil, health.MonthlySummary{}, err
	}

	// Step 1: Score the month
	cells, err := store.GetRosterCells(ctx, year, month)
	if err != nil {
		return nil, health.MonthlySummary{}, fmt.Errorf("failed to fetch roster: %w", err)
	}
	scores := health.ScoreRoster(db.ToRoster(cells), period, health.Options{
		ClampAtZero: cfg.ShouldClampHealthScore(),
		Catalog:     cfg.Catalog(),
	})
	summary := health.Summarize(period, scores)
	logger.Debug("Scored roster",
		zap.Int("rows", len(scores)),
		zap.Int("avg", summary.Avg),
		zap.Int("median", summary.Median))

	// Step 2: Upsert into the trend
	trend, err := GetHealthTrend(ctx, store, logger)
	if err != nil {
		return nil, health.MonthlySummary{}, err
	}
	trend = trend.Upsert(summary)

	if err := store.ReplaceHealthSummaries(ctx, db.FromTrend(trend)); err != nil {
		return nil, health.MonthlySummary{}, fmt.Errorf("failed to store health trend: %w", err)
	}

	logger.Info("Health trend recorded",
		zap.String("period", period.String()),
		zap.Int("avg", summary.Avg),
		zap.Int("median", summary.Median),
		zap.Int("months", len(trend)))

	return trend, summary, nil
}
