package sheetsclient

import (
	"fmt"
	"strings"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// Required column names in the staff sheet
var staffFields = []string{
	"ID",
	"Name",
	"Level",
}

// Optional column names; missing columns read as empty
var optionalStaffFields = []string{
	"Email",
	"Leader",
	"Active",
	"Hour rule",
}

// ListStaff retrieves and parses the staff list from a spreadsheet tab.
// Balances are not part of the sheet; they stay at zero here.
func (c *Client) ListStaff(spreadsheetID, tab string) ([]roster.Employee, error) {
	values, err := c.GetValues(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	staff, err := parseStaff(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse staff: %w", err)
	}

	return staff, nil
}

// parseStaff converts raw spreadsheet data into employees
func parseStaff(raw [][]interface{}) ([]roster.Employee, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	headerRow := raw[0]
	fieldIndexes := make(map[string]int)
	for _, field := range staffFields {
		index := findColumnIndex(headerRow, field)
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}
	for _, field := range optionalStaffFields {
		if index := findColumnIndex(headerRow, field); index != -1 {
			fieldIndexes[field] = index
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(cellText(row[index]))
	}

	staff := make([]roster.Employee, 0, len(raw)-1)
	seen := make(map[string]bool)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField("ID", row)
		// Skip empty rows
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate staff id %q in row %d", id, i+1)
		}
		seen[id] = true

		level, err := roster.ParseLevel(getField("Level", row))
		if err != nil {
			return nil, fmt.Errorf("invalid level for staff in row %d: %w", i+1, err)
		}
		rule, err := roster.ParseHourRule(getField("Hour rule", row))
		if err != nil {
			return nil, fmt.Errorf("invalid hour rule for staff in row %d: %w", i+1, err)
		}

		active := true
		if val := getField("Active", row); val != "" {
			active = parseFlag(val)
		}

		staff = append(staff, roster.Employee{
			ID:       id,
			Name:     getField("Name", row),
			Email:    getField("Email", row),
			Level:    level,
			IsLeader: parseFlag(getField("Leader", row)),
			IsActive: active,
			HourRule: rule,
		})
	}

	return staff, nil
}

// parseFlag reads the checkbox and yes/no spellings used in the staff sheet
func parseFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "yes", "y", "1", "x":
		return true
	}
	return false
}

// cellText renders a cell value as the Sheets API returned it
func cellText(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

// findColumnIndex finds the index of a column by its header name
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && strings.TrimSpace(str) == columnName {
			return i
		}
	}
	return -1
}
