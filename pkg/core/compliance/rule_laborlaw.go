package compliance

import (
	"fmt"
	"time"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

const (
	maxDailyHours       = 8
	maxWeeklyHours      = 40
	maxConsecutiveDays  = 6
	minMonthlyOffDays   = 8
	standardMonthHours  = 176
	maxMonthlyOvertime  = 46
	monthlyHoursCeiling = standardMonthHours + maxMonthlyOvertime
)

// LaborLawRule enforces statutory working-time limits per employee.
//
// Per day:
//   - daily hours above 8
//   - running weekly hours above 40 (the week resets every Monday)
//   - more than 6 consecutive working days
//   - an E->D, N->D or N->E transition from the previous working day
//
// Per month:
//   - fewer than 8 rest days (OFF, RG, RC)
//   - more than 222 total hours (176 standard plus 46 overtime, not adjusted for month length)
//
// Placeholder rows and IDs missing from the employee list are skipped.
type LaborLawRule struct{}

// NewLaborLawRule creates a new LaborLawRule
func NewLaborLawRule() *LaborLawRule {
	return &LaborLawRule{}
}

func (r *LaborLawRule) Name() string {
	return "LaborLaw"
}

func (r *LaborLawRule) Check(s *Snapshot) []Violation {
	var violations []Violation
	if s.Roster == nil {
		return violations
	}

	employees := roster.Index(s.Employees)
	catalog := s.catalog()
	days := s.Period.DaysInMonth()

	for _, row := range s.Roster.Assigned() {
		id := row.Slot.EmployeeID()
		if _, ok := employees[id]; !ok {
			continue
		}

		var (
			weeklyHours  int
			monthlyHours int
			consecutive  int
			offDays      int
			lastWorked   roster.ShiftCode
		)

		for day := 1; day <= days; day++ {
			code := row.Cell(day).Code
			hours := catalog.Hours(code)
			monthlyHours += hours

			if hours > maxDailyHours {
				violations = append(violations, Violation{
					EmployeeID: id, Day: day, Kind: KindDailyHours,
					Message: fmt.Sprintf("daily hours exceeded: %d hours (limit %d)", hours, maxDailyHours),
				})
			}

			if s.Period.Weekday(day) == time.Monday {
				weeklyHours = 0
			}
			weeklyHours += hours
			if weeklyHours > maxWeeklyHours {
				violations = append(violations, Violation{
					EmployeeID: id, Day: day, Kind: KindWeeklyHours,
					Message: fmt.Sprintf("weekly hours exceeded: %d hours so far this week (limit %d)", weeklyHours, maxWeeklyHours),
				})
			}

			if code.IsRestDay() {
				offDays++
			}

			if hours == 0 {
				consecutive = 0
				lastWorked = ""
				continue
			}

			consecutive++
			if consecutive > maxConsecutiveDays {
				violations = append(violations, Violation{
					EmployeeID: id, Day: day, Kind: KindConsecutiveDays,
					Message: fmt.Sprintf("seven-day rule broken: %d consecutive working days", consecutive),
				})
			}

			if lastWorked != "" && IsForbiddenTransition(lastWorked, code) {
				violations = append(violations, Violation{
					EmployeeID: id, Day: day, Kind: KindShiftInterval,
					Message: fmt.Sprintf("insufficient rest between shifts: %s followed by %s (under 11 hours)", lastWorked, code),
				})
			}
			lastWorked = code
		}

		if offDays < minMonthlyOffDays {
			violations = append(violations, Violation{
				EmployeeID: id, Day: WholeMonth, Kind: KindInsufficientOff,
				Message: fmt.Sprintf("insufficient rest days: %d scheduled this month (minimum %d)", offDays, minMonthlyOffDays),
			})
		}

		if monthlyHours > monthlyHoursCeiling {
			violations = append(violations, Violation{
				EmployeeID: id, Day: WholeMonth, Kind: KindMonthlyOT,
				Message: fmt.Sprintf("monthly overtime exceeded: %d total hours (ceiling %d)", monthlyHours, monthlyHoursCeiling),
			})
		}
	}

	return violations
}

// IsForbiddenTransition returns true when going from prev to next leaves less than 11 hours of rest
func IsForbiddenTransition(prev, next roster.ShiftCode) bool {
	switch {
	case prev == roster.ShiftEvening && next == roster.ShiftDay:
		return true
	case prev == roster.ShiftNight && next == roster.ShiftDay:
		return true
	case prev == roster.ShiftNight && next == roster.ShiftEvening:
		return true
	}
	return false
}
