package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
)

// ListBalances returns the active employees with the highest balance of the given kind.
// top <= 0 returns everyone.
func ListBalances(
	ctx context.Context,
	store EmployeeReader,
	logger *zap.Logger,
	kind settlement.BalanceKind,
	top int,
) ([]roster.Employee, error) {
	logger.Debug("Starting listBalances", zap.String("kind", string(kind)), zap.Int("top", top))

	if kind != settlement.BalanceOT && kind != settlement.BalanceNight {
		return nil, fmt.Errorf("unknown balance kind %q (want %q or %q)", kind, settlement.BalanceOT, settlement.BalanceNight)
	}

	employees, err := loadEmployees(ctx, store)
	if err != nil {
		return nil, err
	}

	active := make([]roster.Employee, 0, len(employees))
	for _, e := range employees {
		if e.IsActive {
			active = append(active, e)
		}
	}

	ranked := settlement.TopBalances(active, kind, top)
	logger.Debug("Ranked balances", zap.Strings("employees", getEmployeeIDs(ranked)))
	return ranked, nil
}
