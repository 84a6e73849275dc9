package settlement

import (
	"maps"
	"sort"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// BalanceUpdate is the change a confirmed settlement makes to one employee's balances
type BalanceUpdate struct {
	EmployeeID       string
	MonthKey         string
	Previous         roster.SettlementRecord
	NewRecord        roster.SettlementRecord
	OTDelta          int
	NightDelta       int
	NewAccumulatedOT int
	NewNightBalance  int
}

// IsZero returns true when applying the update changes no balance
func (u BalanceUpdate) IsZero() bool {
	return u.OTDelta == 0 && u.NightDelta == 0
}

// ComputeLedger works out the balance change for every employee with a settlement row.
// Deltas are taken against the record already stored for monthKey (zero if none), so
// confirming the same figures twice changes nothing and an edited roster adds only the
// net change. Employees without a row are left out.
func ComputeLedger(monthKey string, employees []roster.Employee, rows []Row) []BalanceUpdate {
	byID := make(map[string]Row, len(rows))
	for _, r := range rows {
		byID[r.EmployeeID] = r
	}

	var updates []BalanceUpdate
	for _, e := range employees {
		row, ok := byID[e.ID]
		if !ok {
			continue
		}
		updates = append(updates, Delta(e, monthKey, row))
	}
	return updates
}

// Delta computes one employee's update from their settlement row
func Delta(e roster.Employee, monthKey string, row Row) BalanceUpdate {
	previous := e.Record(monthKey)
	next := roster.SettlementRecord{OT: row.OTDays, Night: row.NightShifts}

	otDelta := next.OT - previous.OT
	nightDelta := next.Night - previous.Night

	return BalanceUpdate{
		EmployeeID:       e.ID,
		MonthKey:         monthKey,
		Previous:         previous,
		NewRecord:        next,
		OTDelta:          otDelta,
		NightDelta:       nightDelta,
		NewAccumulatedOT: e.AccumulatedOT + otDelta,
		NewNightBalance:  e.NightShiftBalance + nightDelta,
	}
}

// Apply returns a copy of the employee with the update's balances and history record.
// The original employee's history map is not modified.
func Apply(e roster.Employee, u BalanceUpdate) roster.Employee {
	history := make(map[string]roster.SettlementRecord, len(e.SettlementHistory)+1)
	maps.Copy(history, e.SettlementHistory)
	history[u.MonthKey] = u.NewRecord

	e.SettlementHistory = history
	e.AccumulatedOT += u.OTDelta
	e.NightShiftBalance += u.NightDelta
	return e
}

// BalanceKind selects which running balance to rank by
type BalanceKind string

const (
	BalanceOT    BalanceKind = "ot"
	BalanceNight BalanceKind = "night"
)

// TopBalances returns up to n employees with the highest balance of the given kind,
// ties broken by ID. n <= 0 returns everyone.
func TopBalances(employees []roster.Employee, kind BalanceKind, n int) []roster.Employee {
	balance := func(e roster.Employee) int {
		if kind == BalanceNight {
			return e.NightShiftBalance
		}
		return e.AccumulatedOT
	}

	sorted := make([]roster.Employee, len(employees))
	copy(sorted, employees)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi, bj := balance(sorted[i]), balance(sorted[j])
		if bi != bj {
			return bi > bj
		}
		return sorted[i].ID < sorted[j].ID
	})

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
