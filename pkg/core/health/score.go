package health

import (
	"fmt"
	"time"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// Starting score before deductions
const perfectScore = 100

// Deduction reasons
const (
	ReasonShortRest        = "short rest interval"
	ReasonReversedNightEve = "rotation reversed N->E"
	ReasonReversedEveDay   = "rotation reversed E->D"
	ReasonChaoticRotation  = "mixed/chaotic rotation"
	ReasonLongNightRun     = "night run too long"
	ReasonSixDayFatigue    = "six-day fatigue"
	ReasonIsolatedDayOff   = "isolated day off"
	ReasonNoNightRecovery  = "no recovery rest after night"
	ReasonNoWeekendOff     = "no full weekend off"
)

const (
	chaosWindow     = 7
	longNightRun    = 4
	longWorkRun     = 6
	penaltyShort    = 20
	penaltyReversed = 10
	penaltyChaos    = 15
	penaltyMinor    = 5
	penaltyRecovery = 15
)

// Options tunes how scores are reported
type Options struct {
	// ClampAtZero reports negative scores as 0. Deductions are always listed in full.
	ClampAtZero bool
	// Catalog may be nil, in which case the built-in shift codes are used
	Catalog *roster.Catalog
}

// DefaultOptions clamps at zero with the built-in catalog
func DefaultOptions() Options {
	return Options{ClampAtZero: true}
}

// Result is an employee's health score for a month with the reason for each deduction
type Result struct {
	Score      int
	Deductions []string
}

type scorer struct {
	result Result
}

func (s *scorer) deduct(points int, reason string) {
	s.result.Score -= points
	s.result.Deductions = append(s.result.Deductions, fmt.Sprintf("[-%d] %s", points, reason))
}

// Score rates one employee's month of shifts, starting at 100 and deducting for
// fatiguing or disruptive patterns. codes[0] is day 1 of the period.
func Score(codes []roster.ShiftCode, period roster.Period, opts Options) Result {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = roster.NewCatalog()
	}
	isWork := catalog.IsScheduledWork
	isOff := func(c roster.ShiftCode) bool { return c.IsOff() }

	s := &scorer{result: Result{Score: perfectScore, Deductions: []string{}}}
	n := len(codes)

	for i := 0; i+1 < n; i++ {
		if isShortRest(codes[i], codes[i+1]) {
			s.deduct(penaltyShort, ReasonShortRest)
		}
	}

	// Rotation should run clockwise (D -> E -> N) across work days, skipping days off
	var lastWork roster.ShiftCode
	for _, code := range codes {
		if !isWork(code) {
			continue
		}
		if lastWork == roster.ShiftNight && code == roster.ShiftEvening {
			s.deduct(penaltyReversed, ReasonReversedNightEve)
		}
		if lastWork == roster.ShiftEvening && code == roster.ShiftDay {
			s.deduct(penaltyReversed, ReasonReversedEveDay)
		}
		lastWork = code
	}

	for i := 0; i+chaosWindow <= n; i++ {
		if hasAllClinicalShifts(codes[i : i+chaosWindow]) {
			s.deduct(penaltyChaos, ReasonChaoticRotation)
			// Skip past this window so it is only penalised once
			i += chaosWindow - 1
		}
	}

	nightRun, workRun := 0, 0
	for i := 0; i <= n; i++ {
		var code roster.ShiftCode
		if i < n {
			code = codes[i]
		}

		if i < n && code == roster.ShiftNight {
			nightRun++
		} else {
			if nightRun >= longNightRun {
				s.deduct(penaltyMinor, ReasonLongNightRun)
			}
			nightRun = 0
		}

		if i < n && isWork(code) {
			workRun++
		} else {
			if workRun >= longWorkRun {
				s.deduct(penaltyMinor, ReasonSixDayFatigue)
			}
			workRun = 0
		}
	}

	for i := 1; i+1 < n; i++ {
		if isWork(codes[i-1]) && isOff(codes[i]) && isWork(codes[i+1]) {
			s.deduct(penaltyMinor, ReasonIsolatedDayOff)
			if codes[i-1] == roster.ShiftNight {
				s.deduct(penaltyRecovery, ReasonNoNightRecovery)
			}
		}
	}

	if !hasFullWeekendOff(codes, period, isOff) {
		s.deduct(penaltyMinor, ReasonNoWeekendOff)
	}

	if opts.ClampAtZero && s.result.Score < 0 {
		s.result.Score = 0
	}
	return s.result
}

func isShortRest(prev, next roster.ShiftCode) bool {
	switch prev {
	case roster.ShiftEvening:
		return next == roster.ShiftDay
	case roster.ShiftNight:
		return next == roster.ShiftDay || next == roster.ShiftEvening
	}
	return false
}

func hasAllClinicalShifts(window []roster.ShiftCode) bool {
	seen := make(map[roster.ShiftCode]bool, len(roster.ClinicalShifts))
	for _, code := range window {
		seen[code] = true
	}
	for _, shift := range roster.ClinicalShifts {
		if !seen[shift] {
			return false
		}
	}
	return true
}

// hasFullWeekendOff looks for a Saturday that is off together with the following day
func hasFullWeekendOff(codes []roster.ShiftCode, period roster.Period, isOff func(roster.ShiftCode) bool) bool {
	for day := 1; day < len(codes); day++ {
		if period.Weekday(day) != time.Saturday {
			continue
		}
		if isOff(codes[day-1]) && isOff(codes[day]) {
			return true
		}
	}
	return false
}

// ScoreRoster scores every assigned row of the roster, keyed by employee ID
func ScoreRoster(r *roster.Roster, period roster.Period, opts Options) map[string]Result {
	scores := make(map[string]Result)
	if r == nil {
		return scores
	}
	for _, row := range r.Assigned() {
		scores[row.Slot.EmployeeID()] = Score(row.Codes(period), period, opts)
	}
	return scores
}
