package db

// Employee represents a database employee record
type Employee struct {
	ID                string `ssql_header:"id" ssql_type:"text"`
	Name              string `ssql_header:"name" ssql_type:"text"`
	Email             string `ssql_header:"email" ssql_type:"text"`
	Level             string `ssql_header:"level" ssql_type:"text"`
	IsLeader          bool   `ssql_header:"is_leader" ssql_type:"bool"`
	IsActive          bool   `ssql_header:"is_active" ssql_type:"bool"`
	HourRule          string `ssql_header:"hour_rule" ssql_type:"text"`
	AccumulatedOT     int    `ssql_header:"accumulated_ot" ssql_type:"int"`
	NightShiftBalance int    `ssql_header:"night_shift_balance" ssql_type:"int"`
}

// SettlementHistory represents the last committed settlement figures for an employee and month
type SettlementHistory struct {
	EmployeeID string `ssql_header:"employee_id" ssql_type:"text"`
	MonthKey   string `ssql_header:"month_key" ssql_type:"text"`
	OT         int    `ssql_header:"ot" ssql_type:"int"`
	Night      int    `ssql_header:"night" ssql_type:"int"`
}

// RosterCell represents one day of one roster row
type RosterCell struct {
	Year  int    `ssql_header:"year" ssql_type:"int"`
	Month int    `ssql_header:"month" ssql_type:"int"`
	Slot  string `ssql_header:"slot" ssql_type:"text"`
	Day   int    `ssql_header:"day" ssql_type:"int"`
	Code  string `ssql_header:"code" ssql_type:"text"`
	Time  string `ssql_header:"time" ssql_type:"text"`
}

// PublicHoliday represents a public holiday, Date formatted YYYYMMDD
type PublicHoliday struct {
	Date string `ssql_header:"date" ssql_type:"text"`
	Name string `ssql_header:"name" ssql_type:"text"`
}

// HealthSummary represents one month of the rolling health trend
type HealthSummary struct {
	Year   int `ssql_header:"year" ssql_type:"int"`
	Month  int `ssql_header:"month" ssql_type:"int"`
	Avg    int `ssql_header:"avg" ssql_type:"int"`
	Median int `ssql_header:"median" ssql_type:"int"`
}

// SettlementRun represents one confirmed settlement
type SettlementRun struct {
	ID            string `ssql_header:"id" ssql_type:"uuid"`
	MonthKey      string `ssql_header:"month_key" ssql_type:"text"`
	BaseSalary    string `ssql_header:"base_salary" ssql_type:"decimal"`
	EmployeeCount int    `ssql_header:"employee_count" ssql_type:"int"`
	ConfirmedAt   string `ssql_header:"confirmed_at" ssql_type:"datetime"`
}

// SettlementExport represents one employee's line in the settlement audit export
type SettlementExport struct {
	RunID       string `ssql_header:"run_id" ssql_type:"uuid"`
	MonthKey    string `ssql_header:"month_key" ssql_type:"text"`
	EmployeeID  string `ssql_header:"employee_id" ssql_type:"text"`
	Name        string `ssql_header:"name" ssql_type:"text"`
	WorkDays    int    `ssql_header:"work_days" ssql_type:"int"`
	OTDays      int    `ssql_header:"ot_days" ssql_type:"int"`
	NightShifts int    `ssql_header:"night_shifts" ssql_type:"int"`
	OTPay       string `ssql_header:"ot_pay" ssql_type:"decimal"`
	Deduction   string `ssql_header:"deduction" ssql_type:"decimal"`
	FinalPay    string `ssql_header:"final_pay" ssql_type:"decimal"`
	OTDelta     int    `ssql_header:"ot_delta" ssql_type:"int"`
	NightDelta  int    `ssql_header:"night_delta" ssql_type:"int"`
}
