package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"miticaje.com/miticaje/core"
	"miticaje.com/miticaje/utils"
	"miticaje.com/miticaje/web/common"
)

type EmployeeDTO struct {
	ID           string `json:"id,omitempty"`
	InternalID   string `json:"internalId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email,omitempty" binding:"omitempty,email"`
	WorkCenterID string `json:"workCenterId,omitempty"`
	Active       bool   `json:"active"`
}

func toEmployeeDTO(e core.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         e.ID,
		InternalID: e.InternalID,
		Name:       e.Name,
		Active:     e.Active,
	}
	if e.Email != nil {
		dto.Email = *e.Email
	}
	if e.WorkCenterID != nil {
		dto.WorkCenterID = *e.WorkCenterID
	}
	return dto
}

func ListEmployeesHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var employees []core.Employee
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			return db.Order("name").Find(&employees).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(utils.Map(employees, toEmployeeDTO)))
	}
}

func CreateEmployeeHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto EmployeeDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		employee := core.Employee{
			ID:         uuid.NewString(),
			InternalID: dto.InternalID,
			Name:       dto.Name,
			Active:     dto.Active,
		}
		if dto.Email != "" {
			employee.Email = &dto.Email
		}
		if dto.WorkCenterID != "" {
			employee.WorkCenterID = &dto.WorkCenterID
		}

		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			return db.Create(&employee).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(toEmployeeDTO(employee)))
	}
}

func UpdateEmployeeHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var dto EmployeeDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		var employee core.Employee
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			existing, err := core.FindEmployeeByID(db, id)
			if err != nil {
				return err
			}
			if existing == nil {
				return gorm.ErrRecordNotFound
			}
			employee = *existing

			updates := map[string]interface{}{
				"internal_id": dto.InternalID,
				"name":        dto.Name,
				"active":      dto.Active,
			}
			if dto.Email != "" {
				updates["email"] = dto.Email
			}
			if dto.WorkCenterID != "" {
				updates["work_center_id"] = dto.WorkCenterID
			}

			if err := db.Model(&employee).Updates(updates).Error; err != nil {
				return err
			}
			return db.First(&employee, "id = ?", id).Error
		}); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, common.NewErrorResponse("employee not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(toEmployeeDTO(employee)))
	}
}
