package roster

import (
	"strings"
	"sync"
)

// ShiftCode identifies what an employee is doing on a given day
type ShiftCode string

// Built-in shift codes
const (
	ShiftDay     ShiftCode = "D"
	ShiftEvening ShiftCode = "E"
	ShiftNight   ShiftCode = "N"
	ShiftSupport ShiftCode = "支援"

	ShiftOff        ShiftCode = "OFF"
	ShiftRegularOff ShiftCode = "RG" // statutory rest day
	ShiftRestDay    ShiftCode = "RC" // regular day off

	LeavePersonal ShiftCode = "事假"
	LeaveSick     ShiftCode = "病假"
	LeaveAnnual   ShiftCode = "特休"
)

// overtimeMarker is appended to a working code to flag an explicit overtime day, e.g. "D(OT)"
const overtimeMarker = "(OT)"

// StandardShiftHours is the paid length of every built-in working shift
const StandardShiftHours = 8

// ClinicalShifts are the shifts checked for skill mix, in display order
var ClinicalShifts = []ShiftCode{ShiftDay, ShiftEvening, ShiftNight}

// IsOvertimeMarker returns true for codes carrying the "(OT)" suffix
func (c ShiftCode) IsOvertimeMarker() bool {
	return strings.Contains(string(c), overtimeMarker)
}

// Base strips the overtime marker, so "N(OT)" becomes "N"
func (c ShiftCode) Base() ShiftCode {
	return ShiftCode(strings.TrimSpace(strings.Replace(string(c), overtimeMarker, "", 1)))
}

// IsRestDay returns true for the codes that count toward the monthly off-day quota
func (c ShiftCode) IsRestDay() bool {
	return c == ShiftOff || c == ShiftRegularOff || c == ShiftRestDay
}

// IsOff returns true for rest days and leave days
func (c ShiftCode) IsOff() bool {
	if c.IsRestDay() {
		return true
	}
	return c == LeavePersonal || c == LeaveSick || c == LeaveAnnual
}

// ShiftDefinition describes how a shift code is displayed and paid
type ShiftDefinition struct {
	Code  ShiftCode
	Label string
	Color string
	Time  string
	Hours int
}

// Catalog is the registry of known shift codes.
// Codes registered at runtime are non-working unless they are given hours.
type Catalog struct {
	mu     sync.RWMutex
	shifts map[ShiftCode]ShiftDefinition
}

// NewCatalog creates a catalog holding the built-in shift codes
func NewCatalog() *Catalog {
	c := &Catalog{shifts: make(map[ShiftCode]ShiftDefinition)}
	for _, def := range defaultShifts {
		c.shifts[def.Code] = def
	}
	return c
}

var defaultShifts = []ShiftDefinition{
	{Code: ShiftDay, Label: "Day", Color: "#FFD93D", Time: "08:00-16:00", Hours: StandardShiftHours},
	{Code: ShiftEvening, Label: "Evening", Color: "#FF6B9D", Time: "16:00-24:00", Hours: StandardShiftHours},
	{Code: ShiftNight, Label: "Night", Color: "#4D96FF", Time: "00:00-08:00", Hours: StandardShiftHours},
	{Code: ShiftSupport, Label: "Support", Color: "#D4AC0D", Time: "09:00-18:00", Hours: StandardShiftHours},
	{Code: ShiftRegularOff, Label: "Statutory rest", Color: "#2ecc71"},
	{Code: ShiftRestDay, Label: "Rest day", Color: "#d5f5e3"},
	{Code: ShiftOff, Label: "Off", Color: "#E8E8E8"},
	{Code: LeavePersonal, Label: "Personal leave", Color: "#95a5a6"},
	{Code: LeaveSick, Label: "Sick leave", Color: "#bdc3c7"},
	{Code: LeaveAnnual, Label: "Annual leave", Color: "#9af33b"},
}

// Register adds or replaces a shift definition
func (c *Catalog) Register(def ShiftDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if def.Hours < 0 {
		def.Hours = 0
	}
	c.shifts[def.Code] = def
}

// Lookup returns the definition for a code, if registered
func (c *Catalog) Lookup(code ShiftCode) (ShiftDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.shifts[code]
	return def, ok
}

// Hours returns the working hours for a code. Unknown codes count as 0.
func (c *Catalog) Hours(code ShiftCode) int {
	def, ok := c.Lookup(code)
	if !ok {
		return 0
	}
	return def.Hours
}

// IsScheduledWork returns true if the employee is at work on this code,
// counting overtime-marked codes as work
func (c *Catalog) IsScheduledWork(code ShiftCode) bool {
	return c.Hours(code) > 0 || code.IsOvertimeMarker()
}
