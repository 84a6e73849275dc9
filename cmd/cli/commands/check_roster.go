package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/analysis"
	"github.com/jakechorley/ward-roster/pkg/core/services"
)

// CheckRosterCmd creates the checkRoster command
func CheckRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkRoster <year> <month>",
		Short: "Check a month's roster for labour-law, skill-mix, risk and health issues",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parsePeriodArgs(args)
			if err != nil {
				return err
			}

			app.Logger.Debug("checkRoster command", zap.Int("year", year), zap.Int("month", month))

			report, err := services.CheckRoster(app.Ctx, app.Database, app.Cfg, app.Logger, year, month)
			if err != nil {
				return err
			}

			printViolations(report)
			printRisks(report)
			printHealth(report)

			return nil
		},
	}

	return cmd
}

func printViolations(report *analysis.Report) {
	fmt.Printf("\nRoster check for %s\n\n", report.Period.MonthKey())

	if len(report.Violations) == 0 {
		fmt.Printf("%s✓ No compliance violations%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Printf("%s✗ %d compliance violations%s\n\n", colorRed, len(report.Violations), colorReset)

	ids := make([]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		ids = append(ids, v.EmployeeID)
	}
	idWidth := columnWidth(10, ids...)

	fmt.Printf("%-*s %-12s %-18s %s\n", idWidth, "Employee", "Day", "Rule", "Detail")
	fmt.Println(strings.Repeat("-", idWidth+12+18+30))
	for _, v := range report.Violations {
		fmt.Printf("%-*s %-12s %-18s %s\n", idWidth, v.EmployeeID, v.DayLabel(), v.Kind, v.Message)
	}
	fmt.Println()
}

func printRisks(report *analysis.Report) {
	if len(report.Risks) == 0 {
		fmt.Printf("%s✓ No fatigue or fairness risks%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Printf("%s⚠️  %d employees at risk%s\n", colorYellow, len(report.Risks), colorReset)
	for _, r := range report.Risks {
		fmt.Printf("  %s (%s)\n", r.Name, r.EmployeeID)
		for _, tag := range r.Tags {
			fmt.Printf("    - %s: %s\n", tag.Label, tag.Description)
		}
	}
	fmt.Println()
}

func printHealth(report *analysis.Report) {
	fmt.Printf("Health scores (average %d, median %d)\n", report.HealthSummary.Avg, report.HealthSummary.Median)

	ids := make([]string, 0, len(report.HealthScores))
	for id := range report.HealthScores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	idWidth := columnWidth(10, ids...)

	for _, id := range ids {
		result := report.HealthScores[id]
		color := healthColor(result.Score, colorGreen, colorYellow, colorRed)
		fmt.Printf("  %-*s %s%4d%s", idWidth, id, color, result.Score, colorReset)
		if len(result.Deductions) > 0 {
			fmt.Printf("  %s%s%s", colorDim, strings.Join(result.Deductions, "; "), colorReset)
		}
		fmt.Println()
	}
	fmt.Println()
}
