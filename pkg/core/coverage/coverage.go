package coverage

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
)

// ErrInvalidRatio is returned when a patients-per-nurse ratio is not positive
var ErrInvalidRatio = errors.New("patient ratio must be greater than zero")

const (
	// Optimal staffing is 40% above the minimum
	optimalFactor      = 1.4
	hourlyWageDivisor  = 240
	maxConsecutiveDays = 6
	monthlyRestDays    = 8
)

// Demand describes the ward being staffed
type Demand struct {
	Beds     int
	RatioD   int
	RatioE   int
	RatioN   int
	BanNight bool
}

// Validate checks the ratios
func (d Demand) Validate() error {
	if d.Beds < 0 {
		return fmt.Errorf("bed count must not be negative: %d", d.Beds)
	}
	if d.RatioD <= 0 || d.RatioE <= 0 || (!d.BanNight && d.RatioN <= 0) {
		return ErrInvalidRatio
	}
	return nil
}

// Requirements is the daily headcount each clinical shift needs
type Requirements struct {
	D        int
	E        int
	N        int
	OptimalD int
	OptimalE int
	OptimalN int
}

// PerDay returns the total minimum headcount per day
func (r Requirements) PerDay() int {
	return r.D + r.E + r.N
}

// For returns the minimum headcount for a clinical shift
func (r Requirements) For(code roster.ShiftCode) int {
	switch code {
	case roster.ShiftDay:
		return r.D
	case roster.ShiftEvening:
		return r.E
	case roster.ShiftNight:
		return r.N
	}
	return 0
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func optimal(n int) int {
	return int(decimal.NewFromInt(int64(n)).Mul(decimal.NewFromFloat(optimalFactor)).Ceil().IntPart())
}

// Required converts beds and ratios into daily headcount, ceil(beds / ratio)
func Required(d Demand) (Requirements, error) {
	if err := d.Validate(); err != nil {
		return Requirements{}, err
	}
	req := Requirements{
		D: ceilDiv(d.Beds, d.RatioD),
		E: ceilDiv(d.Beds, d.RatioE),
	}
	if !d.BanNight {
		req.N = ceilDiv(d.Beds, d.RatioN)
	}
	req.OptimalD = optimal(req.D)
	req.OptimalE = optimal(req.E)
	req.OptimalN = optimal(req.N)
	return req, nil
}

// DayCoverage is the staffed headcount and shortfall for one day
type DayCoverage struct {
	Day     int
	Staffed map[roster.ShiftCode]int
	Gap     int
}

// Result summarises how well a roster covers the ward's demand
type Result struct {
	StaffCount   int
	Requirements Requirements
	Days         []DayCoverage
	// Total shifts short across the month
	GapShifts int
	// Working days beyond the sixth of any consecutive run
	Violations  int
	ExtraOTCost decimal.Decimal
}

// Simulate compares a roster's clinical staffing against demand and estimates the
// overtime cost of the days each employee works beyond the standard month.
// Only assigned rows are counted.
func Simulate(r *roster.Roster, period roster.Period, demand Demand, baseSalary decimal.Decimal) (Result, error) {
	req, err := Required(demand)
	if err != nil {
		return Result{}, err
	}
	if !baseSalary.IsPositive() {
		return Result{}, settlement.ErrInvalidBaseSalary
	}

	rows := r.Assigned()
	days := period.DaysInMonth()
	result := Result{
		StaffCount:   len(rows),
		Requirements: req,
		Days:         make([]DayCoverage, 0, days),
		ExtraOTCost:  decimal.Zero,
	}

	for day := 1; day <= days; day++ {
		dc := DayCoverage{Day: day, Staffed: make(map[roster.ShiftCode]int, len(roster.ClinicalShifts))}
		for _, row := range rows {
			code := row.Cell(day).Code
			if isClinical(code) {
				dc.Staffed[code]++
			}
		}
		for _, shift := range roster.ClinicalShifts {
			dc.Gap += max(0, req.For(shift)-dc.Staffed[shift])
		}
		result.GapShifts += dc.Gap
		result.Days = append(result.Days, dc)
	}

	hourly := baseSalary.Div(decimal.NewFromInt(hourlyWageDivisor)).Round(0)
	otPayPerDay := settlement.OTPayPerDay(hourly)
	standardDays := days - monthlyRestDays

	for _, row := range rows {
		workDays, consecutive := 0, 0
		for day := 1; day <= days; day++ {
			if !isClinical(row.Cell(day).Code) {
				consecutive = 0
				continue
			}
			workDays++
			consecutive++
			if consecutive > maxConsecutiveDays {
				result.Violations++
			}
		}
		if workDays > standardDays {
			extra := decimal.NewFromInt(int64(workDays - standardDays)).Mul(otPayPerDay)
			result.ExtraOTCost = result.ExtraOTCost.Add(extra)
		}
	}

	return result, nil
}

func isClinical(code roster.ShiftCode) bool {
	for _, shift := range roster.ClinicalShifts {
		if code == shift {
			return true
		}
	}
	return false
}
