package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// SettlementRunReader defines the database operations needed to list confirmed settlements
type SettlementRunReader interface {
	GetSettlementRuns(ctx context.Context) ([]db.SettlementRun, error)
}

// ListSettlementRuns returns confirmed settlement runs, most recent first.
// A nil period returns every run; otherwise only runs for that month.
func ListSettlementRuns(
	ctx context.Context,
	store SettlementRunReader,
	logger *zap.Logger,
	period *roster.Period,
) ([]db.SettlementRun, error) {
	logger.Debug("Starting listSettlementRuns")

	if period != nil {
		if err := period.Validate(); err != nil {
			return nil, err
		}
	}

	runs, err := store.GetSettlementRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement runs: %w", err)
	}
	if period == nil {
		return runs, nil
	}

	monthKey := period.MonthKey()
	matching := make([]db.SettlementRun, 0, len(runs))
	for _, run := range runs {
		if run.MonthKey == monthKey {
			matching = append(matching, run)
		}
	}

	logger.Debug("Filtered settlement runs",
		zap.String("month", monthKey),
		zap.Int("total", len(runs)),
		zap.Int("matching", len(matching)))
	return matching, nil
}
