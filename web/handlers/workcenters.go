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

type WorkCenterDTO struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name" binding:"required"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
}

func toWorkCenterDTO(w core.WorkCenter) WorkCenterDTO {
	dto := WorkCenterDTO{
		ID:   w.ID,
		Name: w.Name,
	}
	if w.City != nil {
		dto.City = *w.City
	}
	if w.Address != nil {
		dto.Address = *w.Address
	}
	return dto
}

func ListWorkCentersHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var centers []core.WorkCenter
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			return db.Order("name").Find(&centers).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(utils.Map(centers, toWorkCenterDTO)))
	}
}

func CreateWorkCenterHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto WorkCenterDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		center := core.WorkCenter{
			ID:   uuid.NewString(),
			Name: dto.Name,
		}
		if dto.City != "" {
			center.City = &dto.City
		}
		if dto.Address != "" {
			center.Address = &dto.Address
		}

		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			return db.Create(&center).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(toWorkCenterDTO(center)))
	}
}

func UpdateWorkCenterHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var dto WorkCenterDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		var center core.WorkCenter
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			if err := db.First(&center, "id = ?", id).Error; err != nil {
				return err
			}

			updates := map[string]interface{}{"name": dto.Name}
			if dto.City != "" {
				updates["city"] = dto.City
			}
			if dto.Address != "" {
				updates["address"] = dto.Address
			}

			if err := db.Model(&center).Updates(updates).Error; err != nil {
				return err
			}
			return db.First(&center, "id = ?", id).Error
		}); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, common.NewErrorResponse("work center not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(toWorkCenterDTO(center)))
	}
}
