package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/services"
)

// ImportSheetsCmd creates the importSheets command
func ImportSheetsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importSheets <year> <month>",
		Short: "Import staff, a month's roster and the holiday calendar from Google Sheets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parsePeriodArgs(args)
			if err != nil {
				return err
			}

			app.Logger.Debug("importSheets command", zap.Int("year", year), zap.Int("month", month))

			sheets, err := app.Sheets()
			if err != nil {
				return err
			}
			holidays, err := app.HolidaySheet()
			if err != nil {
				return err
			}

			result, err := services.ImportSheets(app.Ctx, app.Database, sheets, holidays, app.Cfg, app.Logger, year, month)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Import for %s completed!\n\n", result.Period.MonthKey())
			fmt.Printf("Staff:        %d\n", result.Staff)
			fmt.Printf("Roster cells: %d\n", result.Cells)
			fmt.Printf("Holidays:     %d\n\n", result.Holidays)

			if len(result.UnknownSlots) > 0 {
				fmt.Printf("⚠️  Roster rows with no matching staff record: %s\n\n", strings.Join(result.UnknownSlots, ", "))
			}

			return nil
		},
	}
}
