package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"miticaje.com/miticaje/clock"
	"miticaje.com/miticaje/clock/model"
	"miticaje.com/miticaje/clock/queue"
	"miticaje.com/miticaje/geo"
	v1 "miticaje.com/miticaje/miticaje/v1"
	"miticaje.com/miticaje/web/common"
)

// The kiosk daemon runs on the clock terminal itself. It owns the local
// durable queue, talks to the record store when it can, and serves a small
// local API the terminal UI calls.
func main() {
	godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	baseURL := os.Getenv("MITICAJE_URL")
	token := os.Getenv("MITICAJE_TOKEN")
	if baseURL == "" || token == "" {
		log.Fatal("MITICAJE_URL and MITICAJE_TOKEN are required")
	}

	queuePath := os.Getenv("QUEUE_PATH")
	if queuePath == "" {
		queuePath = "miticaje-queue.db"
	}

	q, err := queue.Setup(queuePath, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer q.Close()

	profiles := geo.DefaultProfiles()
	if path := os.Getenv("GEO_PROFILES"); path != "" {
		profiles, err = geo.LoadProfiles(path)
		if err != nil {
			log.Fatal(err)
		}
	}

	deviceClass := geo.DeviceClass(os.Getenv("DEVICE_CLASS"))
	if deviceClass == "" {
		deviceClass = geo.Handheld
	}

	client := v1.NewMiticajeClient(baseURL, token)
	remote := clock.NewAPIRemoteStore(client)
	monitor := clock.NewPingMonitor(client, 10*time.Second)

	var capturer *geo.Capturer
	if provider := platformProvider(); provider != nil {
		capturer = geo.NewCapturer(provider, geo.NewNominatimGeocoder(), profiles, logger)
	}

	tc := clock.New(clock.Config{
		Queue:       q,
		Remote:      remote,
		Monitor:     monitor,
		Capturer:    capturer,
		DeviceClass: deviceClass,
		Logger:      logger,
		EmployeeNames: func(ctx context.Context) map[string]string {
			employees, err := client.Employees.List(ctx)
			if err != nil {
				logger.WithField("err", err.Error()).Warn("failed to list employees for stats")
				return nil
			}
			names := make(map[string]string, len(employees))
			for _, e := range employees {
				names[e.ID] = e.Name
			}
			return names
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go monitor.Start(ctx)
	tc.Start(ctx)

	r := gin.Default()

	r.POST("/punch", func(c *gin.Context) {
		var body struct {
			EmployeeID   string `json:"employeeId" binding:"required"`
			ActionType   string `json:"actionType" binding:"required,oneof=clock_in clock_out break_start break_end"`
			WorkCenterID string `json:"workCenterId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		result, err := tc.SubmitPunch(c.Request.Context(), body.EmployeeID, model.ActionType(body.ActionType), body.WorkCenterID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse("could not record punch, try again"))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(result))
	})

	r.GET("/sync/status", func(c *gin.Context) {
		status, err := tc.SyncStatus(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(status))
	})

	r.POST("/sync", func(c *gin.Context) {
		go tc.TriggerSync(ctx)
		c.JSON(http.StatusAccepted, common.NewSuccessResponse(gin.H{"triggered": true}))
	})

	addr := os.Getenv("KIOSK_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8091"
	}
	r.Run(addr)
}
