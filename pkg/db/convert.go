package db

import (
	"fmt"
	"sort"
	"time"

	"github.com/jakechorley/ward-roster/pkg/core/health"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
)

// ToRosterEmployees converts stored employees and their settlement history into domain employees
func ToRosterEmployees(employees []Employee, history []SettlementHistory) ([]roster.Employee, error) {
	byEmployee := make(map[string]map[string]roster.SettlementRecord)
	for _, h := range history {
		records, ok := byEmployee[h.EmployeeID]
		if !ok {
			records = make(map[string]roster.SettlementRecord)
			byEmployee[h.EmployeeID] = records
		}
		records[h.MonthKey] = roster.SettlementRecord{OT: h.OT, Night: h.Night}
	}

	result := make([]roster.Employee, 0, len(employees))
	for _, e := range employees {
		level, err := roster.ParseLevel(e.Level)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", e.ID, err)
		}
		rule, err := roster.ParseHourRule(e.HourRule)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", e.ID, err)
		}
		result = append(result, roster.Employee{
			ID:                e.ID,
			Name:              e.Name,
			Email:             e.Email,
			Level:             level,
			IsLeader:          e.IsLeader,
			IsActive:          e.IsActive,
			HourRule:          rule,
			AccumulatedOT:     e.AccumulatedOT,
			NightShiftBalance: e.NightShiftBalance,
			SettlementHistory: byEmployee[e.ID],
		})
	}
	return result, nil
}

// FromRosterEmployee converts a domain employee to its stored form, dropping history
func FromRosterEmployee(e roster.Employee) Employee {
	return Employee{
		ID:                e.ID,
		Name:              e.Name,
		Email:             e.Email,
		Level:             string(e.Level),
		IsLeader:          e.IsLeader,
		IsActive:          e.IsActive,
		HourRule:          string(e.HourRule),
		AccumulatedOT:     e.AccumulatedOT,
		NightShiftBalance: e.NightShiftBalance,
	}
}

// ToRoster builds a roster from stored cells
func ToRoster(cells []RosterCell) *roster.Roster {
	raw := make(map[string]map[string]any)
	for _, c := range cells {
		row, ok := raw[c.Slot]
		if !ok {
			row = make(map[string]any)
			raw[c.Slot] = row
		}
		row[fmt.Sprint(c.Day)] = roster.ShiftCell{Code: roster.ShiftCode(c.Code), Time: c.Time}
	}
	return roster.NewRoster(raw)
}

// FromRoster flattens a roster into stored cells for a period.
// Only explicitly set cells within the month are kept.
func FromRoster(period roster.Period, r *roster.Roster) []RosterCell {
	if r == nil {
		return nil
	}

	days := period.DaysInMonth()
	var cells []RosterCell
	for _, row := range r.Rows {
		dayKeys := make([]int, 0, len(row.Cells))
		for day := range row.Cells {
			if day >= 1 && day <= days {
				dayKeys = append(dayKeys, day)
			}
		}
		sort.Ints(dayKeys)

		for _, day := range dayKeys {
			cell := row.Cells[day]
			cells = append(cells, RosterCell{
				Year:  period.Year,
				Month: period.Month,
				Slot:  row.Slot.String(),
				Day:   day,
				Code:  string(cell.Code),
				Time:  cell.Time,
			})
		}
	}
	return cells
}

// HolidaySet builds the holiday lookup from stored holidays
func HolidaySet(holidays []PublicHoliday) roster.HolidaySet {
	set := roster.NewHolidaySet()
	for _, h := range holidays {
		set.Add(h.Date)
	}
	return set
}

// ToTrend converts stored summaries into a trend ordered oldest first
func ToTrend(summaries []HealthSummary) health.Trend {
	trend := make(health.Trend, 0, len(summaries))
	for _, s := range summaries {
		trend = append(trend, health.MonthlySummary{Year: s.Year, Month: s.Month, Avg: s.Avg, Median: s.Median})
	}
	sort.SliceStable(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Month < trend[j].Month
	})
	return trend
}

// FromTrend converts a trend into stored summaries
func FromTrend(trend health.Trend) []HealthSummary {
	summaries := make([]HealthSummary, 0, len(trend))
	for _, s := range trend {
		summaries = append(summaries, HealthSummary{Year: s.Year, Month: s.Month, Avg: s.Avg, Median: s.Median})
	}
	return summaries
}

// NewSettlementRun creates the run record for a confirmation
func NewSettlementRun(id string, period roster.Period, baseSalary string, employeeCount int, confirmedAt time.Time) SettlementRun {
	return SettlementRun{
		ID:            id,
		MonthKey:      period.MonthKey(),
		BaseSalary:    baseSalary,
		EmployeeCount: employeeCount,
		ConfirmedAt:   confirmedAt.UTC().Format(time.RFC3339),
	}
}

// ExportRows builds the audit export for a confirmed run.
// Rows without a balance update (unknown employees) get zero deltas.
func ExportRows(run SettlementRun, rows []settlement.Row, updates []settlement.BalanceUpdate) []SettlementExport {
	byID := make(map[string]settlement.BalanceUpdate, len(updates))
	for _, u := range updates {
		byID[u.EmployeeID] = u
	}

	exports := make([]SettlementExport, 0, len(rows))
	for _, r := range rows {
		u := byID[r.EmployeeID]
		exports = append(exports, SettlementExport{
			RunID:       run.ID,
			MonthKey:    run.MonthKey,
			EmployeeID:  r.EmployeeID,
			Name:        r.Name,
			WorkDays:    r.WorkDays,
			OTDays:      r.OTDays,
			NightShifts: r.NightShifts,
			OTPay:       r.OTPay.String(),
			Deduction:   r.Deduction.String(),
			FinalPay:    r.FinalPay.String(),
			OTDelta:     u.OTDelta,
			NightDelta:  u.NightDelta,
		})
	}
	return exports
}
