package compliance

import (
	"fmt"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// SkillMixRule ensures every staffed clinical shift (D, E, N) has at least one senior.
// A senior is a leader or an employee at level N2 or above.
// Placeholder rows and IDs missing from the employee list do not count as staff.
type SkillMixRule struct{}

// NewSkillMixRule creates a new SkillMixRule
func NewSkillMixRule() *SkillMixRule {
	return &SkillMixRule{}
}

func (r *SkillMixRule) Name() string {
	return "SkillMix"
}

func (r *SkillMixRule) Check(s *Snapshot) []Violation {
	var violations []Violation
	if s.Roster == nil {
		return violations
	}

	employees := roster.Index(s.Employees)
	rows := s.Roster.Assigned()
	days := s.Period.DaysInMonth()

	for day := 1; day <= days; day++ {
		for _, shift := range roster.ClinicalShifts {
			staffed := 0
			hasSenior := false

			for _, row := range rows {
				if row.Cell(day).Code != shift {
					continue
				}
				employee, ok := employees[row.Slot.EmployeeID()]
				if !ok {
					continue
				}
				staffed++
				if employee.IsSenior() {
					hasSenior = true
					break
				}
			}

			if staffed > 0 && !hasSenior {
				violations = append(violations, Violation{
					EmployeeID: WardID, Day: day, Kind: KindSkillMix,
					Message: fmt.Sprintf("[%s] staffed entirely by junior staff (N0/N1) with no senior (N2+) or leader on shift", shift),
				})
			}
		}
	}

	return violations
}
