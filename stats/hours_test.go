package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"miticaje.com/miticaje/clock/model"
)

func punch(employeeID string, action model.ActionType, hour, minute int) model.PunchEvent {
	return model.PunchEvent{
		EmployeeID: employeeID,
		Action:     action,
		Timestamp:  time.Date(2024, 3, 11, hour, minute, 0, 0, time.UTC),
	}
}

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name     string
		records  []model.PunchEvent
		expected float64
	}{
		{
			name: "Full day with break",
			records: []model.PunchEvent{
				punch("emp1", model.ClockIn, 9, 0),
				punch("emp1", model.BreakStart, 13, 0),
				punch("emp1", model.BreakEnd, 14, 0),
				punch("emp1", model.ClockOut, 18, 0),
			},
			expected: 8.0,
		},
		{
			name: "Clock out without clock in",
			records: []model.PunchEvent{
				punch("emp1", model.ClockOut, 9, 0),
			},
			expected: 0,
		},
		{
			name: "Double clock in keeps the most recent entry",
			records: []model.PunchEvent{
				punch("emp1", model.ClockIn, 9, 0),
				punch("emp1", model.ClockIn, 10, 0),
				punch("emp1", model.ClockOut, 12, 0),
			},
			expected: 2.0,
		},
		{
			name: "Unclosed shift contributes nothing",
			records: []model.PunchEvent{
				punch("emp1", model.ClockIn, 9, 0),
			},
			expected: 0,
		},
		{
			name: "Break end without break start is ignored",
			records: []model.PunchEvent{
				punch("emp1", model.BreakEnd, 9, 0),
				punch("emp1", model.ClockOut, 10, 0),
			},
			expected: 0,
		},
		{
			name: "Break start without open entry is ignored",
			records: []model.PunchEvent{
				punch("emp1", model.BreakStart, 9, 0),
				punch("emp1", model.BreakEnd, 10, 0),
				punch("emp1", model.ClockOut, 11, 0),
			},
			expected: 0,
		},
		{
			name: "Unsorted input is sorted before the scan",
			records: []model.PunchEvent{
				punch("emp1", model.ClockOut, 17, 0),
				punch("emp1", model.ClockIn, 9, 0),
			},
			expected: 8.0,
		},
		{
			name: "Multiple employees are summed",
			records: []model.PunchEvent{
				punch("emp1", model.ClockIn, 9, 0),
				punch("emp1", model.ClockOut, 12, 0),
				punch("emp2", model.ClockIn, 10, 0),
				punch("emp2", model.ClockOut, 14, 0),
			},
			expected: 7.0,
		},
		{
			name:     "No records",
			records:  nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TotalHours(tt.records))
		})
	}
}

func TestTotalHoursRoundsOnceAtTheEnd(t *testing.T) {
	// Three intervals of 20 minutes each. Per-interval rounding would give
	// 0.33*3 = 0.99; a single final rounding gives 1.0.
	records := []model.PunchEvent{
		punch("emp1", model.ClockIn, 9, 0),
		punch("emp1", model.ClockOut, 9, 20),
		punch("emp1", model.ClockIn, 10, 0),
		punch("emp1", model.ClockOut, 10, 20),
		punch("emp1", model.ClockIn, 11, 0),
		punch("emp1", model.ClockOut, 11, 20),
	}

	assert.Equal(t, 1.0, TotalHours(records))
}

func TestTotalHoursBreakResume(t *testing.T) {
	// 9-13 worked, 13-14 break, 14-18 worked: break hour is excluded.
	records := []model.PunchEvent{
		punch("emp1", model.ClockIn, 9, 0),
		punch("emp1", model.BreakStart, 13, 0),
		punch("emp1", model.BreakEnd, 14, 0),
		punch("emp1", model.ClockOut, 18, 0),
	}

	assert.Equal(t, 8.0, TotalHours(records))
}
