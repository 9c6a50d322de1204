package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"miticaje.com/miticaje/core"
	"miticaje.com/miticaje/web/common"
)

type SettingDTO struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

func ListSettingsHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings []core.AppSetting
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			return db.Order("`key`").Find(&settings).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		dtos := make([]SettingDTO, 0, len(settings))
		for _, s := range settings {
			dtos = append(dtos, SettingDTO{Key: s.Key, Value: s.Value})
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(dtos))
	}
}

func UpsertSettingHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto SettingDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		setting := core.AppSetting{Key: dto.Key, Value: dto.Value}
		if err := dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
			return db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				UpdateAll: true,
			}).Create(&setting).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(dto))
	}
}
