package stats

import (
	"math"
	"sort"
	"time"

	"miticaje.com/miticaje/clock/model"
	"miticaje.com/miticaje/utils"
)

// TotalHours reduces an unordered set of punches to worked hours, summed
// across all employees present in the slice. The scan tolerates invalid
// sequences: a clock-out without a clock-in is a no-op, a second clock-in
// overwrites the first (the earlier open interval is discarded), and an entry
// still open at the end of the scan contributes nothing.
func TotalHours(records []model.PunchEvent) float64 {
	byEmployee := utils.GroupBy(records, func(r model.PunchEvent) string { return r.EmployeeID })

	var total float64
	for _, employeeRecords := range byEmployee {
		total += employeeHours(employeeRecords)
	}

	// Round once at the end, not per interval.
	return math.Round(total*100) / 100
}

func employeeHours(records []model.PunchEvent) float64 {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	var hours float64
	var openEntry *time.Time
	var pauseStart *time.Time

	for _, r := range records {
		ts := r.Timestamp
		switch r.Action {
		case model.ClockIn:
			openEntry = &ts
		case model.ClockOut:
			if openEntry != nil {
				hours += ts.Sub(*openEntry).Hours()
				openEntry = nil
			}
		case model.BreakStart:
			if openEntry != nil {
				hours += ts.Sub(*openEntry).Hours()
				openEntry = nil
				pauseStart = &ts
			}
		case model.BreakEnd:
			if pauseStart != nil {
				openEntry = &ts
				pauseStart = nil
			}
		}
	}

	return hours
}
