package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miticaje.com/miticaje/clock/model"
)

func TestFilterMatch(t *testing.T) {
	base := model.PunchEvent{
		EmployeeID:   "emp1",
		WorkCenterID: "wc1",
		Action:       model.ClockIn,
		Timestamp:    time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{name: "Empty filter matches everything", filter: Filter{}, expected: true},
		{name: "Employee match", filter: Filter{EmployeeID: "emp1"}, expected: true},
		{name: "Employee mismatch", filter: Filter{EmployeeID: "emp2"}, expected: false},
		{name: "Work center mismatch", filter: Filter{WorkCenterID: "wc2"}, expected: false},
		{name: "Action match", filter: Filter{Action: model.ClockIn}, expected: true},
		{name: "Action mismatch", filter: Filter{Action: model.ClockOut}, expected: false},
		{
			name:     "Inside time window",
			filter:   Filter{From: base.Timestamp.Add(-time.Hour), To: base.Timestamp.Add(time.Hour)},
			expected: true,
		},
		{
			name:     "Before window",
			filter:   Filter{From: base.Timestamp.Add(time.Minute)},
			expected: false,
		},
		{
			name:     "After window",
			filter:   Filter{To: base.Timestamp.Add(-time.Minute)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Match(base))
		})
	}
}

func TestComputeOverall(t *testing.T) {
	records := []model.PunchEvent{
		punch("emp1", model.ClockIn, 9, 0),
		punch("emp1", model.ClockOut, 17, 0),
		punch("emp2", model.ClockIn, 10, 0),
		punch("emp2", model.ClockOut, 14, 0),
	}

	overall := ComputeOverall(records, Filter{})
	assert.Equal(t, 12.0, overall.TotalHours)
	assert.Equal(t, 4, overall.TotalRecords)
	assert.Equal(t, 2, overall.ActiveEmployees)

	one := ComputeOverall(records, Filter{EmployeeID: "emp2"})
	assert.Equal(t, 4.0, one.TotalHours)
	assert.Equal(t, 2, one.TotalRecords)
	assert.Equal(t, 1, one.ActiveEmployees)
}

func TestComputePerEmployee(t *testing.T) {
	records := []model.PunchEvent{
		punch("emp1", model.ClockIn, 9, 0),
		punch("emp1", model.ClockOut, 17, 0),
		punch("emp2", model.ClockIn, 10, 0),
		punch("emp2", model.ClockOut, 14, 0),
	}
	names := map[string]string{"emp1": "Ana García"}

	result := ComputePerEmployee(records, Filter{}, names)
	require.Len(t, result, 2)

	// Sorted by hours, most first.
	assert.Equal(t, "emp1", result[0].EmployeeID)
	assert.Equal(t, "Ana García", result[0].EmployeeName)
	assert.Equal(t, 8.0, result[0].TotalHours)
	assert.Equal(t, 2, result[0].TotalRecords)

	// Unknown ids keep the raw id as the name.
	assert.Equal(t, "emp2", result[1].EmployeeID)
	assert.Equal(t, "emp2", result[1].EmployeeName)
	assert.Equal(t, 4.0, result[1].TotalHours)
}

func TestComputePerEmployeeEmptyHistory(t *testing.T) {
	result := ComputePerEmployee(nil, Filter{}, nil)
	assert.Empty(t, result)
}
