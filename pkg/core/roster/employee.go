package roster

import "fmt"

// Level is an employee's clinical seniority, N0 (newest) to N4
type Level string

const (
	LevelN0 Level = "N0"
	LevelN1 Level = "N1"
	LevelN2 Level = "N2"
	LevelN3 Level = "N3"
	LevelN4 Level = "N4"
)

// HourRule is the working-time regime an employee is contracted under
type HourRule string

const (
	HourRuleStandard HourRule = "Standard"
	HourRuleBiWeekly HourRule = "BiWeekly"
)

// SettlementRecord is the last committed settlement figures for one month
type SettlementRecord struct {
	OT    int `json:"ot"`
	Night int `json:"night"`
}

// Employee is a member of ward staff
type Employee struct {
	ID                string
	Name              string
	Email             string
	Level             Level
	IsLeader          bool
	IsActive          bool
	HourRule          HourRule
	AccumulatedOT     int
	NightShiftBalance int
	// Keyed by month key (YYYY-MM)
	SettlementHistory map[string]SettlementRecord
}

// IsSenior returns true for leaders and N2 and above
func (e Employee) IsSenior() bool {
	if e.IsLeader {
		return true
	}
	switch e.Level {
	case LevelN2, LevelN3, LevelN4:
		return true
	}
	return false
}

// Record returns the stored settlement for a month, defaulting to zero
func (e Employee) Record(monthKey string) SettlementRecord {
	if e.SettlementHistory == nil {
		return SettlementRecord{}
	}
	return e.SettlementHistory[monthKey]
}

// Index maps employees by ID
func Index(employees []Employee) map[string]Employee {
	byID := make(map[string]Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	return byID
}

// ParseLevel validates a seniority level string
func ParseLevel(raw string) (Level, error) {
	switch l := Level(raw); l {
	case LevelN0, LevelN1, LevelN2, LevelN3, LevelN4:
		return l, nil
	}
	return "", fmt.Errorf("unknown level %q", raw)
}

// ParseHourRule validates an hour rule string, defaulting empty to Standard
func ParseHourRule(raw string) (HourRule, error) {
	switch r := HourRule(raw); r {
	case "":
		return HourRuleStandard, nil
	case HourRuleStandard, HourRuleBiWeekly:
		return r, nil
	}
	return "", fmt.Errorf("unknown hour rule %q", raw)
}
