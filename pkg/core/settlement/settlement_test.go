package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// July 2024 has 31 days, so 23 standard days
var july2024 = roster.Period{Year: 2024, Month: 7}

var base = decimal.NewFromInt(40000)

func fullMonth(code roster.ShiftCode) []roster.ShiftCode {
	codes := make([]roster.ShiftCode, july2024.DaysInMonth())
	for i := range codes {
		codes[i] = code
	}
	return codes
}

func withCodes(rows map[string][]roster.ShiftCode) *roster.Roster {
	r := &roster.Roster{}
	for id, codes := range rows {
		r.SetCodes(roster.ParseSlot(id), codes...)
	}
	return r
}

func TestWageRounding(t *testing.T) {
	daily := DailyWage(base)
	hourly := HourlyWage(daily)

	assert.Equal(t, "1333", daily.String())
	assert.Equal(t, "167", hourly.String())
	assert.Equal(t, "2121", OTPayPerDay(hourly).String())
	assert.Equal(t, 23, StandardDays(july2024))
}

func TestCalculate_FullBreakdown(t *testing.T) {
	codes := fullMonth(roster.ShiftDay)
	codes[4] = roster.ShiftOff
	codes[5] = roster.ShiftOff
	codes[6] = "N(OT)"
	codes[7] = roster.LeavePersonal
	codes[8] = roster.LeaveSick
	codes[11] = roster.ShiftNight
	codes[12] = roster.ShiftNight

	in := Input{
		Roster:     withCodes(map[string][]roster.ShiftCode{"e1": codes}),
		Employees:  []roster.Employee{{ID: "e1", Name: "Amy"}},
		BaseSalary: base,
		Holidays:   roster.NewHolidaySet("20240710"),
		Period:     july2024,
	}

	rows, err := Calculate(in)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "e1", row.EmployeeID)
	assert.Equal(t, "Amy", row.Name)
	assert.Equal(t, 27, row.WorkDays)
	assert.Equal(t, 23, row.StandardDays)
	assert.Equal(t, 1, row.HolidayWorkDays)
	assert.Equal(t, "1336", row.HolidayPay.String())
	assert.Equal(t, 2, row.OverStandardDays)
	assert.Equal(t, 1, row.ExplicitOTDays)
	assert.Equal(t, 3, row.OTDays)
	assert.Equal(t, "6363", row.RestDayOTPay.String())
	assert.Equal(t, "7699", row.OTPay.String())
	assert.Equal(t, 1, row.PersonalLeaveDays)
	assert.Equal(t, 1, row.SickLeaveDays)
	assert.Equal(t, "2000", row.Deduction.String())
	assert.Equal(t, 2, row.NightShifts)
	assert.Equal(t, "45699", row.FinalPay.String())
}

func TestCalculate_UnderStandardHasNoOvertime(t *testing.T) {
	codes := fullMonth(roster.ShiftOff)
	for i := 0; i < 20; i++ {
		codes[i] = roster.ShiftEvening
	}

	rows, err := Calculate(Input{
		Roster:     withCodes(map[string][]roster.ShiftCode{"e1": codes}),
		BaseSalary: base,
		Period:     july2024,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 0, rows[0].OTDays)
	assert.True(t, rows[0].OTPay.IsZero())
	assert.True(t, rows[0].FinalPay.Equal(base))
	assert.Equal(t, UnknownName, rows[0].Name)
}

func TestCalculate_SkipsPlaceholders(t *testing.T) {
	rows, err := Calculate(Input{
		Roster:     withCodes(map[string][]roster.ShiftCode{"D001": fullMonth(roster.ShiftNight)}),
		BaseSalary: base,
		Period:     july2024,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCalculate_EmptyRoster(t *testing.T) {
	rows, err := Calculate(Input{BaseSalary: base, Period: july2024})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestCalculate_InvalidBaseSalary(t *testing.T) {
	for _, salary := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := Calculate(Input{BaseSalary: salary, Period: july2024})
		assert.ErrorIs(t, err, ErrInvalidBaseSalary)
	}
}

func TestCalculate_CustomShiftWithHoursIsWork(t *testing.T) {
	catalog := roster.NewCatalog()
	catalog.Register(roster.ShiftDefinition{Code: "TRAIN", Hours: 8})
	catalog.Register(roster.ShiftDefinition{Code: "MEET"})

	codes := fullMonth(roster.ShiftOff)
	codes[0] = "TRAIN"
	codes[1] = "MEET"

	rows, err := Calculate(Input{
		Roster:     withCodes(map[string][]roster.ShiftCode{"e1": codes}),
		BaseSalary: base,
		Period:     july2024,
		Catalog:    catalog,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].WorkDays)
}

func settle(t *testing.T, employees []roster.Employee, nights int) []BalanceUpdate {
	t.Helper()
	codes := fullMonth(roster.ShiftOff)
	for i := 0; i < nights; i++ {
		codes[i*2] = roster.ShiftNight
	}
	rows, err := Calculate(Input{
		Roster:     withCodes(map[string][]roster.ShiftCode{"e1": codes}),
		Employees:  employees,
		BaseSalary: base,
		Period:     july2024,
	})
	require.NoError(t, err)
	return ComputeLedger(july2024.MonthKey(), employees, rows)
}

func TestLedger_FirstRunDefaultsToZero(t *testing.T) {
	employees := []roster.Employee{{ID: "e1", AccumulatedOT: 4, NightShiftBalance: 10}}

	updates := settle(t, employees, 3)

	require.Len(t, updates, 1)
	u := updates[0]
	assert.Equal(t, roster.SettlementRecord{}, u.Previous)
	assert.Equal(t, roster.SettlementRecord{OT: 0, Night: 3}, u.NewRecord)
	assert.Equal(t, 3, u.NightDelta)
	assert.Equal(t, 13, u.NewNightBalance)
	assert.Equal(t, 4, u.NewAccumulatedOT)
}

func TestLedger_Idempotent(t *testing.T) {
	employees := []roster.Employee{{ID: "e1", NightShiftBalance: 10}}

	first := settle(t, employees, 3)
	employees[0] = Apply(employees[0], first[0])
	assert.Equal(t, 13, employees[0].NightShiftBalance)

	second := settle(t, employees, 3)
	require.Len(t, second, 1)
	assert.True(t, second[0].IsZero())

	employees[0] = Apply(employees[0], second[0])
	assert.Equal(t, 13, employees[0].NightShiftBalance)
	assert.Equal(t, 0, employees[0].AccumulatedOT)
}

func TestLedger_AppliesOnlyNetChange(t *testing.T) {
	employees := []roster.Employee{{ID: "e1"}}

	first := settle(t, employees, 3)
	employees[0] = Apply(employees[0], first[0])

	second := settle(t, employees, 5)
	require.Len(t, second, 1)
	assert.Equal(t, 2, second[0].NightDelta)

	employees[0] = Apply(employees[0], second[0])
	assert.Equal(t, 5, employees[0].NightShiftBalance)
	assert.Equal(t, roster.SettlementRecord{Night: 5}, employees[0].SettlementHistory[july2024.MonthKey()])
}

func TestLedger_PreservesManualAdjustments(t *testing.T) {
	employees := []roster.Employee{{ID: "e1"}}

	first := settle(t, employees, 3)
	employees[0] = Apply(employees[0], first[0])
	// Balance edited outside of settlement
	employees[0].NightShiftBalance = 100

	second := settle(t, employees, 3)
	employees[0] = Apply(employees[0], second[0])

	assert.Equal(t, 100, employees[0].NightShiftBalance)
}

func TestLedger_SkipsEmployeesWithoutRows(t *testing.T) {
	employees := []roster.Employee{{ID: "e1"}, {ID: "e2", NightShiftBalance: 7}}

	updates := settle(t, employees, 2)

	require.Len(t, updates, 1)
	assert.Equal(t, "e1", updates[0].EmployeeID)
}

func TestApply_DoesNotMutateHistory(t *testing.T) {
	original := roster.Employee{
		ID:                "e1",
		SettlementHistory: map[string]roster.SettlementRecord{"2024-06": {OT: 1, Night: 1}},
	}
	u := BalanceUpdate{MonthKey: "2024-07", NewRecord: roster.SettlementRecord{OT: 2, Night: 3}, OTDelta: 2, NightDelta: 3}

	updated := Apply(original, u)

	assert.Len(t, original.SettlementHistory, 1)
	assert.Len(t, updated.SettlementHistory, 2)
	assert.Equal(t, 2, updated.AccumulatedOT)
	assert.Equal(t, 3, updated.NightShiftBalance)
}

func TestTopBalances(t *testing.T) {
	employees := []roster.Employee{
		{ID: "c", AccumulatedOT: 5, NightShiftBalance: 1},
		{ID: "a", AccumulatedOT: 9, NightShiftBalance: 4},
		{ID: "b", AccumulatedOT: 5, NightShiftBalance: 8},
		{ID: "d", AccumulatedOT: 1, NightShiftBalance: 2},
	}

	top := TopBalances(employees, BalanceOT, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{top[0].ID, top[1].ID, top[2].ID})

	night := TopBalances(employees, BalanceNight, 0)
	require.Len(t, night, 4)
	assert.Equal(t, "b", night[0].ID)
	assert.Equal(t, "c", night[3].ID)

	assert.Equal(t, "c", employees[0].ID, "input order untouched")
}
