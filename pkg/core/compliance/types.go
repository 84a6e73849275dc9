package compliance

import (
	"strconv"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// Kind classifies a violation
type Kind string

const (
	KindDailyHours      Kind = "DAILY_HOURS"
	KindWeeklyHours     Kind = "WEEKLY_HOURS"
	KindConsecutiveDays Kind = "CONSECUTIVE_DAYS"
	KindShiftInterval   Kind = "SHIFT_INTERVAL"
	KindInsufficientOff Kind = "INSUFFICIENT_OFF"
	KindMonthlyOT       Kind = "MONTHLY_OT"
	KindSkillMix        Kind = "SKILL_MIX"
)

// WardID is the EmployeeID used for violations that belong to the whole ward
const WardID = "ward"

// WholeMonth is the Day value of month-level violations
const WholeMonth = 0

// Violation represents a broken rule for an employee (or the ward) on a day
type Violation struct {
	EmployeeID string
	Day        int
	Kind       Kind
	Message    string
}

// DayLabel renders the day, or "whole month" for month-level violations
func (v Violation) DayLabel() string {
	if v.Day == WholeMonth {
		return "whole month"
	}
	return strconv.Itoa(v.Day)
}

// Snapshot is the immutable input every rule reads from
type Snapshot struct {
	Roster    *roster.Roster
	Employees []roster.Employee
	Period    roster.Period
	// Catalog may be nil, in which case the built-in shift codes are used
	Catalog *roster.Catalog
}

func (s *Snapshot) catalog() *roster.Catalog {
	if s.Catalog == nil {
		return defaultCatalog
	}
	return s.Catalog
}

var defaultCatalog = roster.NewCatalog()

// Rule checks a finished roster against one family of constraints
type Rule interface {
	// Name returns a human-readable identifier for this rule
	Name() string

	// Check returns every violation of this rule (empty if none)
	Check(s *Snapshot) []Violation
}
