package sheetsclient

import (
	"fmt"
	"slices"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
)

var settlementHeader = []interface{}{
	"Employee ID",
	"Name",
	"Work days",
	"Standard days",
	"Holiday work days",
	"OT days",
	"OT pay",
	"Personal leave",
	"Sick leave",
	"Deduction",
	"Night shifts",
	"Final pay",
}

// SettlementTabTitle returns the tab a month's settlement is published to, e.g. "Settlement 2024-07"
func SettlementTabTitle(period roster.Period) string {
	return "Settlement " + period.MonthKey()
}

// PublishSettlement writes a month's settlement to its own tab.
// If the tab doesn't exist it is created; if it does, its contents are replaced.
func (c *Client) PublishSettlement(spreadsheetID string, period roster.Period, rows []settlement.Row) error {
	tabTitle := SettlementTabTitle(period)

	titles, err := c.ListSheets(spreadsheetID)
	if err != nil {
		return err
	}

	if slices.Contains(titles, tabTitle) {
		if err := c.ClearValues(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else {
		if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	if err := c.UpdateValues(spreadsheetID, fmt.Sprintf("%s!A1", tabTitle), settlementValues(rows)); err != nil {
		return fmt.Errorf("failed to write settlement: %w", err)
	}
	return nil
}

// settlementValues renders the header and one row per employee. Money is written as plain decimal strings.
func settlementValues(rows []settlement.Row) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, settlementHeader)
	for _, r := range rows {
		values = append(values, []interface{}{
			r.EmployeeID,
			r.Name,
			r.WorkDays,
			r.StandardDays,
			r.HolidayWorkDays,
			r.OTDays,
			r.OTPay.String(),
			r.PersonalLeaveDays,
			r.SickLeaveDays,
			r.Deduction.String(),
			r.NightShifts,
			r.FinalPay.String(),
		})
	}
	return values
}
