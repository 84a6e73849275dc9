package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/pkg/core/services"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
)

// BalancesCmd creates the balances command
func BalancesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Rank active staff by accumulated overtime or night-shift balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			by, _ := cmd.Flags().GetString("by")
			top, _ := cmd.Flags().GetInt("top")

			app.Logger.Debug("balances command", zap.String("by", by), zap.Int("top", top))

			kind := settlement.BalanceKind(by)
			ranked, err := services.ListBalances(app.Ctx, app.Database, app.Logger, kind, top)
			if err != nil {
				return err
			}

			label := "Overtime"
			if kind == settlement.BalanceNight {
				label = "Night shift"
			}
			fmt.Printf("\n%s balances\n\n", label)

			if len(ranked) == 0 {
				fmt.Println("No active staff.")
				return nil
			}

			names := make([]string, 0, len(ranked))
			for _, e := range ranked {
				names = append(names, e.Name)
			}
			nameWidth := columnWidth(12, names...)

			fmt.Printf("%4s  %-10s %-*s %8s %8s\n", "#", "ID", nameWidth, "Name", "OT", "Night")
			fmt.Println(strings.Repeat("-", nameWidth+36))
			for i, e := range ranked {
				fmt.Printf("%4d  %-10s %-*s %8d %8d\n", i+1, e.ID, nameWidth, e.Name, e.AccumulatedOT, e.NightShiftBalance)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("by", string(settlement.BalanceOT), "Balance to rank by (ot or night)")
	cmd.Flags().Int("top", 0, "Show only the top N employees (0 for everyone)")

	return cmd
}
