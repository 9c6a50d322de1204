package stats

import (
	"sort"
	"time"

	"miticaje.com/miticaje/clock/model"
	"miticaje.com/miticaje/utils"
)

// Filter narrows the punch history a statistics query runs over.
type Filter struct {
	EmployeeID   string
	WorkCenterID string
	Action       model.ActionType
	From         time.Time
	To           time.Time
}

// Match reports whether a punch falls inside the filter window.
func (f Filter) Match(r model.PunchEvent) bool {
	if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
		return false
	}
	if f.WorkCenterID != "" && r.WorkCenterID != f.WorkCenterID {
		return false
	}
	if f.Action != "" && r.Action != f.Action {
		return false
	}
	if !f.From.IsZero() && r.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Timestamp.After(f.To) {
		return false
	}
	return true
}

// Overall is the aggregate figure across every employee in the window.
type Overall struct {
	TotalHours      float64 `json:"totalHours"`
	TotalRecords    int     `json:"totalRecords"`
	ActiveEmployees int     `json:"activeEmployees"`
}

// EmployeeStats is the per-employee reduction. Recomputed per query, never
// cached.
type EmployeeStats struct {
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	TotalHours   float64 `json:"totalHours"`
	TotalRecords int     `json:"totalRecords"`
}

// ComputeOverall reduces the filtered punch history to totals.
func ComputeOverall(records []model.PunchEvent, filter Filter) Overall {
	filtered := utils.Filter(records, filter.Match)

	employees := make(map[string]struct{})
	for _, r := range filtered {
		employees[r.EmployeeID] = struct{}{}
	}

	return Overall{
		TotalHours:      TotalHours(filtered),
		TotalRecords:    len(filtered),
		ActiveEmployees: len(employees),
	}
}

// ComputePerEmployee reduces the filtered history per employee. names maps
// employee ids to display names; unknown ids keep the raw id.
func ComputePerEmployee(records []model.PunchEvent, filter Filter, names map[string]string) []EmployeeStats {
	filtered := utils.Filter(records, filter.Match)
	byEmployee := utils.GroupBy(filtered, func(r model.PunchEvent) string { return r.EmployeeID })

	result := make([]EmployeeStats, 0, len(byEmployee))
	for employeeID, employeeRecords := range byEmployee {
		name := names[employeeID]
		if name == "" {
			name = employeeID
		}
		result = append(result, EmployeeStats{
			EmployeeID:   employeeID,
			EmployeeName: name,
			TotalHours:   TotalHours(employeeRecords),
			TotalRecords: len(employeeRecords),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TotalHours > result[j].TotalHours
	})
	return result
}
