// File: bookify/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"bookify/config"
	"bookify/cron"
	"bookify/database"
	appointmentRepo "bookify/database/repository/appointment"
	resourceRepo "bookify/database/repository/resource"
	schedulingRepo "bookify/database/repository/scheduling"
	slotRepo "bookify/database/repository/slot"
	"bookify/handlers"
	"bookify/middleware"
	"bookify/routes"
	"bookify/services/scheduling"
	"bookify/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo()
	appointments := appointmentRepo.NewMongoAppointmentRepo()
	resources := resourceRepo.NewMongoResourceRepo()
	tx := schedulingRepo.NewMongoSchedulingRepo()

	if err := slots.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure slot indexes: %v", err)
	}
	if err := appointments.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	if err := resources.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure resource indexes: %v", err)
	}

	// workflow queue client.
	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	defer taskClient.Close()

	// services.
	engine := &scheduling.Engine{
		Slots:                slots,
		Appointments:         appointments,
		Resources:            resources,
		Tx:                   tx,
		Locks:                &scheduling.RedisCreationLocker{Client: utils.GetCacheClient()},
		Workflow:             &scheduling.AsynqWorkflowSink{Client: taskClient},
		FatiguePointsPerHour: config.AppConfig.FatiguePointsPerHour,
		FatigueCeilingPoints: config.AppConfig.FatigueCeilingPoints,
		MaxSuggestions:       config.AppConfig.MaxSuggestions,
	}

	schedulingHandler := handlers.NewSchedulingHandler(engine)
	routes.RegisterSchedulingRoutes(router, schedulingHandler)

	// background workflow consumer.
	cron.InitWorkflowWorker()

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
}
