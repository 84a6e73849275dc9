package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/coverage"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/services"
)

// SimulateCoverageCmd creates the simulateCoverage command
func SimulateCoverageCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulateCoverage <year> <month>",
		Short: "Compare a month's D/E/N staffing against bed count and patient ratios",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parsePeriodArgs(args)
			if err != nil {
				return err
			}

			var demand coverage.Demand
			demand.Beds, _ = cmd.Flags().GetInt("beds")
			demand.RatioD, _ = cmd.Flags().GetInt("ratio-d")
			demand.RatioE, _ = cmd.Flags().GetInt("ratio-e")
			demand.RatioN, _ = cmd.Flags().GetInt("ratio-n")
			demand.BanNight, _ = cmd.Flags().GetBool("ban-night")
			demand = services.DemandFromConfig(app.Cfg, demand)

			app.Logger.Debug("simulateCoverage command",
				zap.Int("year", year),
				zap.Int("month", month),
				zap.Int("beds", demand.Beds))

			result, err := services.SimulateCoverage(app.Ctx, app.Database, app.Cfg, app.Logger, year, month, demand)
			if err != nil {
				return err
			}

			req := result.Requirements
			fmt.Printf("\nCoverage simulation for %04d-%02d\n\n", year, month)
			fmt.Printf("Beds: %d   Staff: %d\n", demand.Beds, result.StaffCount)
			fmt.Printf("Minimum per day:  D %d  E %d  N %d  (total %d)\n", req.D, req.E, req.N, req.PerDay())
			fmt.Printf("Optimal per day:  D %d  E %d  N %d\n\n", req.OptimalD, req.OptimalE, req.OptimalN)

			fmt.Printf("%4s %4s %4s %4s %5s\n", "Day", "D", "E", "N", "Gap")
			for _, day := range result.Days {
				fmt.Printf("%4d", day.Day)
				for _, shift := range roster.ClinicalShifts {
					staffed := day.Staffed[shift]
					if staffed < req.For(shift) {
						fmt.Printf(" %s%4d%s", colorRed, staffed, colorReset)
					} else {
						fmt.Printf(" %4d", staffed)
					}
				}
				if day.Gap > 0 {
					fmt.Printf(" %s%5d%s\n", colorRed, day.Gap, colorReset)
				} else {
					fmt.Printf(" %s%5s%s\n", colorDim, "-", colorReset)
				}
			}

			fmt.Printf("\nShifts short:          %d\n", result.GapShifts)
			fmt.Printf("Seven-day violations:  %d\n", result.Violations)
			fmt.Printf("Extra overtime cost:   %s\n\n", result.ExtraOTCost.StringFixed(0))

			return nil
		},
	}

	cmd.Flags().Int("beds", 0, "Number of occupied beds (defaults to coverage.beds in config)")
	cmd.Flags().Int("ratio-d", 0, "Patients per nurse on day shift")
	cmd.Flags().Int("ratio-e", 0, "Patients per nurse on evening shift")
	cmd.Flags().Int("ratio-n", 0, "Patients per nurse on night shift")
	cmd.Flags().Bool("ban-night", false, "Do not staff night shifts")

	return cmd
}
