package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/wellkit/session-service/config"
	"github.com/wellkit/session-service/internal/consumer"
	"github.com/wellkit/session-service/internal/handler"
	"github.com/wellkit/session-service/internal/middleware"
	"github.com/wellkit/session-service/internal/repository"
	"github.com/wellkit/session-service/internal/service"
	"github.com/wellkit/session-service/pkg/database"
	"github.com/wellkit/session-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ publisher: domain events for collaborating services
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	assessRepo := repository.NewAssessmentRepository(db)

	// Services
	scheduleSvc := service.NewScheduleService(eventRepo)
	registrationSvc := service.NewRegistrationService(regRepo, eventRepo, assessRepo, publisher)
	attendanceSvc := service.NewAttendanceService(regRepo, assessRepo, publisher)
	wellnessSvc := service.NewWellnessService(assessRepo, publisher)

	// RabbitMQ consumer: sync event records from the catalog service
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ consumer: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}
	consumer.NewEventConsumer(scheduleSvc).Start(msgs)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "session-service"})
	})

	handler.NewEventHandler(scheduleSvc).RegisterRoutes(e)
	handler.NewRegistrationHandler(registrationSvc).RegisterRoutes(e)
	handler.NewCheckInHandler(attendanceSvc).RegisterRoutes(e)
	handler.NewAssessmentHandler(wellnessSvc).RegisterRoutes(e)

	log.Printf("Session Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
