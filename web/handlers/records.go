package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"miticaje.com/miticaje/core"
	"miticaje.com/miticaje/web/common"
)

// CreateRecordHandler persists a punch. Ids from offline queues are ignored;
// the store assigns its own. No deduplication happens here, so a client
// resubmitting after a lost response creates a second row.
func CreateRecordHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto TimeRecordDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		if dto.Location != nil && dto.LocationError != "" {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("location and locationError are mutually exclusive"))
			return
		}

		record := core.TimeRecord{
			ID:         uuid.NewString(),
			EmployeeID: dto.EmployeeID,
			ActionType: dto.ActionType,
			Timestamp:  dto.Timestamp,
		}
		if dto.Location != nil {
			record.Latitude = &dto.Location.Latitude
			record.Longitude = &dto.Location.Longitude
			record.Accuracy = &dto.Location.Accuracy
			if dto.Location.Address != "" {
				record.Address = &dto.Location.Address
			}
			if !dto.Location.CapturedAt.IsZero() {
				record.LocationCapturedAt = &dto.Location.CapturedAt
			}
		}
		if dto.LocationError != "" {
			record.LocationError = &dto.LocationError
		}
		if dto.WorkCenterID != "" {
			record.WorkCenterID = &dto.WorkCenterID
		}

		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			return db.Create(&record).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(toRecordDTO(record)))
	}
}

// SearchRecordsHandler returns the punch history matching the filter.
func SearchRecordsHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter RecordFilterDTO
		if err := c.ShouldBindJSON(&filter); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		var records []core.TimeRecord
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			query := db.Model(&core.TimeRecord{}).Order("timestamp")
			if filter.EmployeeID != "" {
				query = query.Where("employee_id = ?", filter.EmployeeID)
			}
			if filter.WorkCenterID != "" {
				query = query.Where("work_center_id = ?", filter.WorkCenterID)
			}
			if filter.ActionType != "" {
				query = query.Where("action_type = ?", filter.ActionType)
			}
			if filter.From != nil {
				query = query.Where("timestamp >= ?", *filter.From)
			}
			if filter.To != nil {
				query = query.Where("timestamp <= ?", *filter.To)
			}
			return query.Find(&records).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		dtos := make([]TimeRecordDTO, 0, len(records))
		for _, r := range records {
			dtos = append(dtos, toRecordDTO(r))
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(dtos))
	}
}

// UpdateRecordHandler applies an admin edit. A justification is mandatory at
// this boundary; storage itself does not enforce it.
func UpdateRecordHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var dto UpdateRecordDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}
		if strings.TrimSpace(dto.Justification) == "" {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Field 'justification' is required"))
			return
		}

		var record core.TimeRecord
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			if err := db.First(&record, "id = ?", id).Error; err != nil {
				return err
			}

			now := time.Now()
			updates := map[string]interface{}{
				"edited_by_admin":     true,
				"admin_justification": dto.Justification,
				"admin_editor_id":     dto.EditorID,
				"edited_at":           now,
			}
			if dto.ActionType != nil {
				updates["action_type"] = *dto.ActionType
			}
			if dto.Timestamp != nil {
				updates["timestamp"] = *dto.Timestamp
			}
			if dto.WorkCenterID != nil {
				updates["work_center_id"] = *dto.WorkCenterID
			}

			if err := db.Model(&record).Updates(updates).Error; err != nil {
				return err
			}
			return db.First(&record, "id = ?", id).Error
		}); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, common.NewErrorResponse("record not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(toRecordDTO(record)))
	}
}
