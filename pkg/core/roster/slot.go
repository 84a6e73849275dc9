package roster

import (
	"fmt"
	"regexp"
	"strconv"
)

type slotKind int

const (
	slotUnassigned slotKind = iota
	slotAssigned
)

// Slot identifies one roster row: either a real employee or an unclaimed pattern
type Slot struct {
	kind       slotKind
	employeeID string
	index      int
}

// Assigned returns a slot bound to an employee
func Assigned(employeeID string) Slot {
	return Slot{kind: slotAssigned, employeeID: employeeID}
}

// Unassigned returns a placeholder slot for an unclaimed shift pattern
func Unassigned(index int) Slot {
	return Slot{kind: slotUnassigned, index: index}
}

// IsAssigned returns true if the slot has a real occupant
func (s Slot) IsAssigned() bool {
	return s.kind == slotAssigned
}

// EmployeeID returns the occupant's ID, or "" for placeholders
func (s Slot) EmployeeID() string {
	return s.employeeID
}

// Index returns the placeholder index, or 0 for assigned slots
func (s Slot) Index() int {
	return s.index
}

// String renders the slot in the host's storage form ("D001" for placeholders)
func (s Slot) String() string {
	if s.IsAssigned() {
		return s.employeeID
	}
	return fmt.Sprintf("%s%03d", placeholderPrefix, s.index)
}

const placeholderPrefix = "D"

var placeholderPattern = regexp.MustCompile(`^D(\d{3,})$`)

// ParseSlot converts a stored row key into a Slot.
// The host stores unclaimed patterns under reserved keys "D001", "D002", ...
func ParseSlot(raw string) Slot {
	if m := placeholderPattern.FindStringSubmatch(raw); m != nil {
		index, err := strconv.Atoi(m[1])
		if err == nil {
			return Unassigned(index)
		}
	}
	return Assigned(raw)
}
