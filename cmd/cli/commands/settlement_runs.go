package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/services"
)

// SettlementRunsCmd creates the settlementRuns command
func SettlementRunsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settlementRuns [year month]",
		Short: "List confirmed settlement runs, optionally for one month",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or <year> <month>, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var period *roster.Period
			if len(args) == 2 {
				year, month, err := parsePeriodArgs(args)
				if err != nil {
					return err
				}
				period = &roster.Period{Year: year, Month: month}
			}
			app.Logger.Debug("settlementRuns command", zap.Bool("filtered", period != nil))

			runs, err := services.ListSettlementRuns(app.Ctx, app.Database, app.Logger, period)
			if err != nil {
				return err
			}

			if period != nil {
				fmt.Printf("\nSettlement runs for %s\n\n", period.MonthKey())
			} else {
				fmt.Printf("\nSettlement runs\n\n")
			}
			if len(runs) == 0 {
				fmt.Println("No confirmed settlements.")
				return nil
			}

			fmt.Printf("%-22s %-8s %12s %6s  %s\n", "Confirmed", "Month", "Base salary", "Staff", "Run ID")
			fmt.Println(strings.Repeat("-", 90))
			for _, r := range runs {
				fmt.Printf("%-22s %-8s %12s %6d  %s%s%s\n",
					r.ConfirmedAt, r.MonthKey, r.BaseSalary, r.EmployeeCount, colorDim, r.ID, colorReset)
			}
			fmt.Println()

			return nil
		},
	}

	return cmd
}
