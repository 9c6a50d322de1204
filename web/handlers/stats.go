package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"miticaje.com/miticaje/clock/model"
	"miticaje.com/miticaje/core"
	"miticaje.com/miticaje/stats"
	"miticaje.com/miticaje/web/common"
)

func parseStatsFilter(c *gin.Context) (stats.Filter, bool) {
	filter := stats.Filter{
		EmployeeID:   c.Query("employeeId"),
		WorkCenterID: c.Query("workCenterId"),
		Action:       model.ActionType(c.Query("actionType")),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid 'from' timestamp"))
			return filter, false
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid 'to' timestamp"))
			return filter, false
		}
		filter.To = t
	}
	return filter, true
}

func loadPunches(db *gorm.DB, filter stats.Filter) ([]model.PunchEvent, error) {
	query := db.Model(&core.TimeRecord{})
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.WorkCenterID != "" {
		query = query.Where("work_center_id = ?", filter.WorkCenterID)
	}
	if filter.Action != "" {
		query = query.Where("action_type = ?", string(filter.Action))
	}
	if !filter.From.IsZero() {
		query = query.Where("timestamp >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("timestamp <= ?", filter.To)
	}

	var records []core.TimeRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	punches := make([]model.PunchEvent, 0, len(records))
	for _, r := range records {
		p := model.PunchEvent{
			ID:         r.ID,
			EmployeeID: r.EmployeeID,
			Action:     model.ActionType(r.ActionType),
			Timestamp:  r.Timestamp,
		}
		if r.WorkCenterID != nil {
			p.WorkCenterID = *r.WorkCenterID
		}
		punches = append(punches, p)
	}
	return punches, nil
}

// OverallStatsHandler reduces the punch history in the filter window to
// {totalHours, totalRecords, activeEmployees}. Recomputed per request.
func OverallStatsHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := parseStatsFilter(c)
		if !ok {
			return
		}

		var overall stats.Overall
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			punches, err := loadPunches(db, filter)
			if err != nil {
				return err
			}
			overall = stats.ComputeOverall(punches, filter)
			return nil
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(overall))
	}
}

// EmployeeStatsHandler reduces the punch history per employee.
func EmployeeStatsHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := parseStatsFilter(c)
		if !ok {
			return
		}

		var result []stats.EmployeeStats
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			punches, err := loadPunches(db, filter)
			if err != nil {
				return err
			}

			var employees []core.Employee
			if err := db.Find(&employees).Error; err != nil {
				return err
			}
			names := make(map[string]string, len(employees))
			for _, e := range employees {
				names[e.ID] = e.Name
			}

			result = stats.ComputePerEmployee(punches, filter, names)
			return nil
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(result))
	}
}
