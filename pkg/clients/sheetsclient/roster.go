package sheetsclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// slotColumn is the header of the column holding row keys (employee ids or D001-style placeholders)
const slotColumn = "Staff"

// timeSeparator splits a cell's code from a custom time, e.g. "D@07:00-15:00"
const timeSeparator = "@"

// RosterTabTitle returns the tab holding a month's roster, e.g. "2024-07"
func RosterTabTitle(period roster.Period) string {
	return period.MonthKey()
}

// ReadRoster reads a month's roster from its tab.
// The header row is "Staff" followed by day numbers; blank cells are OFF.
func (c *Client) ReadRoster(spreadsheetID string, period roster.Period) (*roster.Roster, error) {
	values, err := c.GetValues(spreadsheetID, RosterTabTitle(period))
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	r, err := parseRosterSheet(values, period)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", period, err)
	}
	return r, nil
}

// parseRosterSheet converts raw tab values into a roster
func parseRosterSheet(raw [][]interface{}, period roster.Period) (*roster.Roster, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	header := raw[0]
	slotCol := findColumnIndex(header, slotColumn)
	if slotCol == -1 {
		return nil, fmt.Errorf("missing required field in header: %s", slotColumn)
	}

	days := period.DaysInMonth()
	dayCols := make(map[int]int)
	for i, cell := range header {
		if i == slotCol {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(cellText(cell)))
		if err != nil || day < 1 || day > days {
			continue
		}
		dayCols[i] = day
	}
	if len(dayCols) == 0 {
		return nil, fmt.Errorf("no day columns found in header")
	}

	rows := make(map[string]map[string]any)
	for i := 1; i < len(raw); i++ {
		row := raw[i]
		if slotCol >= len(row) {
			continue
		}
		label := strings.TrimSpace(cellText(row[slotCol]))
		if label == "" {
			continue
		}
		// D001 and D0001 name the same placeholder slot
		key := roster.ParseSlot(label).String()
		if _, dup := rows[key]; dup {
			return nil, fmt.Errorf("duplicate roster row %q (slot %s) in row %d", label, key, i+1)
		}

		cells := make(map[string]any)
		for col, day := range dayCols {
			if col >= len(row) {
				continue
			}
			cells[strconv.Itoa(day)] = parseRosterCell(cellText(row[col]))
		}
		rows[key] = cells
	}

	return roster.NewRoster(rows), nil
}

// parseRosterCell splits "CODE" or "CODE@TIME" into a cell
func parseRosterCell(text string) roster.ShiftCell {
	code, time, _ := strings.Cut(strings.TrimSpace(text), timeSeparator)
	cell := roster.NormalizeCell(code)
	cell.Time = strings.TrimSpace(time)
	return cell
}
