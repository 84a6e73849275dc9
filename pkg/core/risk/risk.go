package risk

import (
	"fmt"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// Tag labels
const (
	LabelConsecutiveWork = "consecutive-work"
	LabelNightHeavy      = "night-heavy"
	LabelHolidayHeavy    = "holiday-heavy"
)

// How far above the team average a count must be before it is flagged
const fairnessMargin = 2.0

// Tag is one risk finding for an employee
type Tag struct {
	Label       string
	Description string
}

// Risk groups the tags raised for one employee
type Risk struct {
	EmployeeID string
	Name       string
	Tags       []Tag
}

// Input is everything the scorer reads
type Input struct {
	Roster    *roster.Roster
	Employees []roster.Employee
	Holidays  roster.HolidaySet
	Period    roster.Period
	// Catalog may be nil, in which case the built-in shift codes are used
	Catalog *roster.Catalog
}

type workload struct {
	id             string
	nights         int
	holidayWork    int
	maxConsecutive int
}

// Score flags employees whose workload is fatiguing or unfair relative to the team.
// Only assigned rows are counted. Employees with no tags are omitted.
func Score(in Input) []Risk {
	if in.Roster == nil {
		return nil
	}
	catalog := in.Catalog
	if catalog == nil {
		catalog = roster.NewCatalog()
	}

	rows := in.Roster.Assigned()
	if len(rows) == 0 {
		return nil
	}

	days := in.Period.DaysInMonth()
	stats := make([]workload, 0, len(rows))
	var totalNights, totalHolidayWork int

	for _, row := range rows {
		w := workload{id: row.Slot.EmployeeID()}
		consecutive := 0

		for day := 1; day <= days; day++ {
			code := row.Cell(day).Code
			isWork := catalog.IsScheduledWork(code)

			if code == roster.ShiftNight {
				w.nights++
			}
			if isWork && (in.Period.IsWeekend(day) || in.Holidays.Contains(in.Period, day)) {
				w.holidayWork++
			}

			if isWork {
				consecutive++
				w.maxConsecutive = max(w.maxConsecutive, consecutive)
			} else {
				consecutive = 0
			}
		}

		totalNights += w.nights
		totalHolidayWork += w.holidayWork
		stats = append(stats, w)
	}

	avgNights := float64(totalNights) / float64(len(stats))
	avgHolidayWork := float64(totalHolidayWork) / float64(len(stats))
	employees := roster.Index(in.Employees)

	var risks []Risk
	for _, w := range stats {
		var tags []Tag

		if w.maxConsecutive == 5 || w.maxConsecutive == 6 {
			tags = append(tags, Tag{
				Label:       LabelConsecutiveWork,
				Description: fmt.Sprintf("%d consecutive working days, approaching the statutory fatigue limit", w.maxConsecutive),
			})
		}

		if float64(w.nights) > avgNights+fairnessMargin {
			tags = append(tags, Tag{
				Label:       LabelNightHeavy,
				Description: fmt.Sprintf("%d night shifts, well above the team average of %.1f", w.nights, avgNights),
			})
		}

		if float64(w.holidayWork) > avgHolidayWork+fairnessMargin {
			tags = append(tags, Tag{
				Label:       LabelHolidayHeavy,
				Description: fmt.Sprintf("%d weekend or public holiday shifts, above the team average of %.1f", w.holidayWork, avgHolidayWork),
			})
		}

		if len(tags) == 0 {
			continue
		}

		name := w.id
		if e, ok := employees[w.id]; ok && e.Name != "" {
			name = e.Name
		}
		risks = append(risks, Risk{EmployeeID: w.id, Name: name, Tags: tags})
	}

	return risks
}
