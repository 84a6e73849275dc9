package settlement

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// ErrInvalidBaseSalary is returned when the configured base salary is not positive
var ErrInvalidBaseSalary = errors.New("base salary must be greater than zero")

// UnknownName is reported for roster rows whose employee is not on the staff list
const UnknownName = "Unknown"

const (
	// Rest days every month is assumed to contain
	monthlyRestDays = 8
	daysPerMonth    = 30
	hoursPerDay     = 8
)

var (
	// First two overtime hours are paid at 1.34x, the next six at 1.67x
	firstTierRate  = decimal.RequireFromString("1.34")
	firstTierHours = decimal.NewFromInt(2)
	nextTierRate   = decimal.RequireFromString("1.67")
	nextTierHours  = decimal.NewFromInt(6)
	sickLeaveRate  = decimal.RequireFromString("0.5")
)

// Input is everything the calculator reads
type Input struct {
	Roster     *roster.Roster
	Employees  []roster.Employee
	BaseSalary decimal.Decimal
	Holidays   roster.HolidaySet
	Period     roster.Period
	// Catalog may be nil, in which case the built-in shift codes are used
	Catalog *roster.Catalog
}

// Row is one employee's pay breakdown for the month
type Row struct {
	EmployeeID        string
	Name              string
	BaseSalary        decimal.Decimal
	DailyWage         decimal.Decimal
	HourlyWage        decimal.Decimal
	WorkDays          int // includes explicit overtime days
	StandardDays      int
	HolidayWorkDays   int
	HolidayPay        decimal.Decimal
	OverStandardDays  int
	ExplicitOTDays    int
	OTDays            int
	OTPayPerDay       decimal.Decimal
	RestDayOTPay      decimal.Decimal
	OTPay             decimal.Decimal // rest-day overtime plus holiday pay
	PersonalLeaveDays int
	SickLeaveDays     int
	Deduction         decimal.Decimal
	NightShifts       int
	FinalPay          decimal.Decimal
}

// Wages are rounded to whole currency units, half away from zero
func roundUnits(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// DailyWage returns round(base / 30)
func DailyWage(base decimal.Decimal) decimal.Decimal {
	return roundUnits(base.Div(decimal.NewFromInt(daysPerMonth)))
}

// HourlyWage returns round(dailyWage / 8)
func HourlyWage(dailyWage decimal.Decimal) decimal.Decimal {
	return roundUnits(dailyWage.Div(decimal.NewFromInt(hoursPerDay)))
}

// OTPayPerDay returns the pay for one full rest-day overtime shift at the given hourly wage
func OTPayPerDay(hourlyWage decimal.Decimal) decimal.Decimal {
	first := hourlyWage.Mul(firstTierRate).Mul(firstTierHours)
	next := hourlyWage.Mul(nextTierRate).Mul(nextTierHours)
	return roundUnits(first.Add(next))
}

// StandardDays is the number of days in the period expected to be worked
func StandardDays(period roster.Period) int {
	return period.DaysInMonth() - monthlyRestDays
}

// Calculate produces one pay row per assigned roster row. An empty roster gives an empty result.
func Calculate(in Input) ([]Row, error) {
	if !in.BaseSalary.IsPositive() {
		return nil, ErrInvalidBaseSalary
	}
	if in.Roster == nil {
		return []Row{}, nil
	}
	catalog := in.Catalog
	if catalog == nil {
		catalog = roster.NewCatalog()
	}

	dailyWage := DailyWage(in.BaseSalary)
	hourlyWage := HourlyWage(dailyWage)
	otPayPerDay := OTPayPerDay(hourlyWage)
	standardDays := StandardDays(in.Period)
	days := in.Period.DaysInMonth()
	employees := roster.Index(in.Employees)

	rows := []Row{}
	for _, r := range in.Roster.Assigned() {
		id := r.Slot.EmployeeID()
		row := Row{
			EmployeeID:   id,
			Name:         UnknownName,
			BaseSalary:   in.BaseSalary,
			DailyWage:    dailyWage,
			HourlyWage:   hourlyWage,
			StandardDays: standardDays,
			OTPayPerDay:  otPayPerDay,
		}
		if e, ok := employees[id]; ok && e.Name != "" {
			row.Name = e.Name
		}

		workDays := 0
		for day := 1; day <= days; day++ {
			code := r.Cell(day).Code
			switch {
			case code.IsOvertimeMarker():
				row.ExplicitOTDays++
			case catalog.Hours(code) > 0:
				workDays++
				if in.Holidays.Contains(in.Period, day) {
					row.HolidayWorkDays++
				}
				if code == roster.ShiftNight {
					row.NightShifts++
				}
			case code == roster.LeavePersonal:
				row.PersonalLeaveDays++
			case code == roster.LeaveSick:
				row.SickLeaveDays++
			}
		}

		row.WorkDays = workDays + row.ExplicitOTDays
		row.HolidayPay = decimal.NewFromInt(int64(row.HolidayWorkDays)).Mul(hourlyWage).Mul(decimal.NewFromInt(hoursPerDay))
		row.OverStandardDays = max(0, (workDays-row.HolidayWorkDays)-standardDays)
		row.OTDays = row.OverStandardDays + row.ExplicitOTDays
		row.RestDayOTPay = decimal.NewFromInt(int64(row.OTDays)).Mul(otPayPerDay)
		row.OTPay = row.RestDayOTPay.Add(row.HolidayPay)

		personal := decimal.NewFromInt(int64(row.PersonalLeaveDays)).Mul(dailyWage)
		sick := decimal.NewFromInt(int64(row.SickLeaveDays)).Mul(dailyWage).Mul(sickLeaveRate)
		row.Deduction = roundUnits(personal.Add(sick))

		row.FinalPay = in.BaseSalary.Add(row.OTPay).Sub(row.Deduction)
		rows = append(rows, row)
	}

	return rows, nil
}
