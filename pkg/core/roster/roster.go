package roster

import (
	"sort"
	"strconv"
)

// Row is one slot's month of shift cells, keyed by day (1-based)
type Row struct {
	Slot  Slot
	Cells map[int]ShiftCell
}

// Cell returns the cell for a day, defaulting to OFF
func (r Row) Cell(day int) ShiftCell {
	cell, ok := r.Cells[day]
	if !ok {
		return OffCell
	}
	return cell
}

// Codes returns the row's shift codes for days 1..DaysInMonth.
// Cells beyond the end of the month are ignored.
func (r Row) Codes(p Period) []ShiftCode {
	days := p.DaysInMonth()
	codes := make([]ShiftCode, days)
	for day := 1; day <= days; day++ {
		codes[day-1] = r.Cell(day).Code
	}
	return codes
}

// Roster is a month's shift assignments, one row per slot
type Roster struct {
	Rows []Row
}

// NewRoster builds a roster from the host's raw map form (row key -> day -> cell).
// Row keys are parsed with ParseSlot; day keys that are not positive integers are dropped.
// Rows are ordered by key so analyzer output is deterministic.
func NewRoster(raw map[string]map[string]any) *Roster {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := &Roster{Rows: make([]Row, 0, len(keys))}
	for _, key := range keys {
		row := Row{Slot: ParseSlot(key), Cells: make(map[int]ShiftCell)}
		for dayKey, cell := range raw[key] {
			day, err := strconv.Atoi(dayKey)
			if err != nil || day < 1 {
				continue
			}
			row.Cells[day] = NormalizeCell(cell)
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

// SetCell writes a cell, creating the row if needed
func (r *Roster) SetCell(slot Slot, day int, cell ShiftCell) {
	for i := range r.Rows {
		if r.Rows[i].Slot == slot {
			r.Rows[i].Cells[day] = cell
			return
		}
	}
	r.Rows = append(r.Rows, Row{Slot: slot, Cells: map[int]ShiftCell{day: cell}})
}

// SetCodes writes a sequence of codes for a slot starting at day 1
func (r *Roster) SetCodes(slot Slot, codes ...ShiftCode) {
	for i, code := range codes {
		r.SetCell(slot, i+1, ShiftCell{Code: code})
	}
}

// Assigned returns the rows that have a real occupant
func (r *Roster) Assigned() []Row {
	if r == nil {
		return nil
	}
	rows := make([]Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.Slot.IsAssigned() {
			rows = append(rows, row)
		}
	}
	return rows
}
