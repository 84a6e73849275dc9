package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/health"
	"github.com/jakechorley/ward-roster/pkg/core/services"
)

// HealthTrendCmd creates the healthTrend command
func HealthTrendCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "healthTrend [year month]",
		Short: "Show the rolling 12-month health trend, recording a month first when one is given",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or <year> <month>, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var trend health.Trend

			if len(args) == 2 {
				year, month, err := parsePeriodArgs(args)
				if err != nil {
					return err
				}
				app.Logger.Debug("healthTrend command", zap.Int("year", year), zap.Int("month", month))

				var summary health.MonthlySummary
				trend, summary, err = services.RecordHealthTrend(app.Ctx, app.Database, app.Cfg, app.Logger, year, month)
				if err != nil {
					return err
				}
				fmt.Printf("\n✓ Recorded %04d-%02d (average %d, median %d)\n", summary.Year, summary.Month, summary.Avg, summary.Median)
			} else {
				app.Logger.Debug("healthTrend command (stored trend)")

				var err error
				trend, err = services.GetHealthTrend(app.Ctx, app.Database, app.Logger)
				if err != nil {
					return err
				}
			}

			fmt.Printf("\nHealth trend (last %d months)\n\n", len(trend))
			if len(trend) == 0 {
				fmt.Println("No months recorded yet.")
				return nil
			}

			for _, s := range trend {
				color := healthColor(s.Avg, colorGreen, colorYellow, colorRed)
				fmt.Printf("  %04d-%02d  avg %s%4d%s  median %4d  %s%s%s\n",
					s.Year, s.Month, color, s.Avg, colorReset, s.Median, color, bar(s.Avg), colorReset)
			}
			fmt.Println()

			return nil
		},
	}

	return cmd
}
