package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/services"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
)

// PreviewSettlementCmd creates the previewSettlement command
func PreviewSettlementCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "previewSettlement <year> <month>",
		Short: "Show a month's pay breakdown and the balance changes confirming it would make",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parsePeriodArgs(args)
			if err != nil {
				return err
			}

			app.Logger.Debug("previewSettlement command", zap.Int("year", year), zap.Int("month", month))

			preview, err := services.PreviewSettlement(app.Ctx, app.Database, app.Cfg, app.Logger, year, month)
			if err != nil {
				return err
			}

			fmt.Printf("\nSettlement preview for %s (not confirmed)\n\n", preview.Period.MonthKey())
			printSettlementRows(preview.Rows, preview.Updates)
			return nil
		},
	}
}

// ConfirmSettlementCmd creates the confirmSettlement command
func ConfirmSettlementCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirmSettlement <year> <month>",
		Short: "Commit a month's settlement to the overtime and night-shift balances",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parsePeriodArgs(args)
			if err != nil {
				return err
			}
			notify, _ := cmd.Flags().GetBool("notify")
			publish, _ := cmd.Flags().GetBool("publish")
			archive, _ := cmd.Flags().GetBool("archive")

			app.Logger.Debug("confirmSettlement command",
				zap.Int("year", year),
				zap.Int("month", month),
				zap.Bool("notify", notify),
				zap.Bool("publish", publish),
				zap.Bool("archive", archive))

			var opts services.ConfirmOptions
			if notify {
				gmail, err := app.Gmail()
				if err != nil {
					return err
				}
				opts.Notifier = gmail
			}
			if publish {
				sheets, err := app.Sheets()
				if err != nil {
					return err
				}
				opts.Publisher = sheets
			}
			if archive {
				store, err := app.SettlementArchive()
				if err != nil {
					return err
				}
				opts.Archive = store
			}

			result, err := services.ConfirmSettlement(app.Ctx, app.Database, app.Cfg, app.Logger, year, month, opts)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Settlement confirmed!\n\n")
			fmt.Printf("Run ID:      %s\n", result.Run.ID)
			fmt.Printf("Month:       %s\n", result.Run.MonthKey)
			fmt.Printf("Base salary: %s\n\n", result.Run.BaseSalary)
			printSettlementRows(result.Rows, result.Updates)

			if archive {
				printStepOutcome("Archived export rows", result.ArchiveErr)
			}
			if publish {
				printStepOutcome("Published settlement sheet", result.PublishErr)
			}
			if notify {
				fmt.Printf("Sent %d settlement notices\n", result.Notified)
				for _, f := range result.NotificationFailures {
					fmt.Printf("  ✗ %s (%s): %v\n", f.EmployeeID, f.Email, f.Err)
				}
				if len(result.SkippedNoEmail) > 0 {
					fmt.Printf("  %sNo email address: %s%s\n", colorDim, strings.Join(result.SkippedNoEmail, ", "), colorReset)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().Bool("notify", false, "Email each employee their new balances")
	cmd.Flags().Bool("publish", false, "Write the settlement to a tab in the settlement sheet")
	cmd.Flags().Bool("archive", false, "Append the settlement to the export archive in the settlement sheet")

	return cmd
}

func printStepOutcome(step string, err error) {
	if err != nil {
		fmt.Printf("⚠️  %s failed: %v\n", step, err)
		return
	}
	fmt.Printf("✓ %s\n", step)
}

func printSettlementRows(rows []settlement.Row, updates []settlement.BalanceUpdate) {
	if len(rows) == 0 {
		fmt.Println("No assigned roster rows for this month.")
		fmt.Println()
		return
	}

	byID := make(map[string]settlement.BalanceUpdate, len(updates))
	for _, u := range updates {
		byID[u.EmployeeID] = u
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	nameWidth := columnWidth(12, names...)

	fmt.Printf("%-*s %5s %4s %6s %10s %10s %10s %7s %7s\n",
		nameWidth, "Name", "Work", "OT", "Night", "OT pay", "Deduction", "Final", "ΔOT", "ΔNight")
	fmt.Println(strings.Repeat("-", nameWidth+68))

	for _, r := range rows {
		otDelta, nightDelta := "", ""
		if u, ok := byID[r.EmployeeID]; ok {
			otDelta, nightDelta = signed(u.OTDelta), signed(u.NightDelta)
		}
		fmt.Printf("%-*s %5d %4d %6d %10s %10s %10s %7s %7s\n",
			nameWidth, r.Name,
			r.WorkDays, r.OTDays, r.NightShifts,
			r.OTPay.StringFixed(0), r.Deduction.StringFixed(0), r.FinalPay.StringFixed(0),
			otDelta, nightDelta)
	}
	fmt.Println()
}
