package main

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"miticaje.com/miticaje/core"
	"miticaje.com/miticaje/web/handlers"
	"miticaje.com/miticaje/web/middlewares"
)

func main() {
	godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	dsn := os.Getenv("DSN")
	logger.WithField("dsn", dsn != "").Info("starting record store")

	dm, err := core.New(dsn, 10)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Exec(context.Background(), func(db *gorm.DB) error {
		return db.AutoMigrate(
			&core.TimeRecord{},
			&core.Employee{},
			&core.WorkCenter{},
			&core.AppSetting{},
		)
	}); err != nil {
		log.Fatal(err)
	}

	base64Secret := os.Getenv("MITICAJE_SIGNING_SECRET")
	jwtSecret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		protected.POST("/records", handlers.CreateRecordHandler(dm))
		protected.POST("/records/search", handlers.SearchRecordsHandler(dm))
		protected.PUT("/records/:id", middlewares.RequireAdmin(), handlers.UpdateRecordHandler(dm))

		protected.GET("/employees", handlers.ListEmployeesHandler(dm))
		protected.POST("/employees", middlewares.RequireAdmin(), handlers.CreateEmployeeHandler(dm))
		protected.PUT("/employees/:id", middlewares.RequireAdmin(), handlers.UpdateEmployeeHandler(dm))

		protected.GET("/work-centers", handlers.ListWorkCentersHandler(dm))
		protected.POST("/work-centers", middlewares.RequireAdmin(), handlers.CreateWorkCenterHandler(dm))
		protected.PUT("/work-centers/:id", middlewares.RequireAdmin(), handlers.UpdateWorkCenterHandler(dm))

		protected.GET("/settings", handlers.ListSettingsHandler(dm))
		protected.PUT("/settings", middlewares.RequireAdmin(), handlers.UpsertSettingHandler(dm))

		protected.GET("/stats", handlers.OverallStatsHandler(dm))
		protected.GET("/stats/employees", handlers.EmployeeStatsHandler(dm))
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8090"
	}
	r.Run(addr)
}
