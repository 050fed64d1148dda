package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/postgres/notificationrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/transitionrepo"
	"dispatch/internal/adapters/out/rabbit"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/eventbus"
	"dispatch/internal/metrics"

	httpin "dispatch/internal/adapters/in/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDatabase(configs, logger)
	graph := mustLoadGraph(gormDB, logger)

	// optional external mirror; the in-process bus works without it
	var mirror ports.EventPublisher
	if configs.RabbitURL != "" {
		client, err := rabbit.Connect(context.Background(), configs.RabbitURL, logger)
		if err != nil {
			logger.Error("rabbit connect failed, mirror disabled", "error", err)
		} else {
			defer client.Close()
			publisher, err := rabbit.NewEventPublisher(client)
			if err != nil {
				logger.Error("rabbit publisher init failed, mirror disabled", "error", err)
			} else {
				mirror = publisher
			}
		}
	}

	bus := eventbus.NewBus(mirror, logger)
	root := cmd.NewCompositionRoot(configs, gormDB, graph, bus, logger)

	// fan-out consumes every committed event
	projector := root.CreateFanoutProjector()
	fanoutCtx, stopFanout := context.WithCancel(context.Background())
	defer stopFanout()
	fanoutSub := bus.Subscribe(eventbus.TopicAllOrders)
	defer fanoutSub.Close()
	go projector.Run(fanoutCtx, fanoutSub.Events())

	jobManager := root.CreateJobManager(projector)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(root, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
		RabbitURL:  os.Getenv("RABBIT_URL"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDatabase(configs cmd.Config, logger *slog.Logger) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&notificationrepo.NotificationDTO{},
		&transitionrepo.TransitionDTO{},
	); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	return gormDB
}

// mustLoadGraph seeds the transition table with the compiled-in defaults when it is
// empty, then builds the immutable status graph the process validates against.
func mustLoadGraph(gormDB *gorm.DB, logger *slog.Logger) *order.Graph {
	ctx := context.Background()
	repo := transitionrepo.NewGormTransitionRepository(gormDB)

	if err := repo.Seed(ctx, order.DefaultTransitions()); err != nil {
		logger.Error("failed to seed status transitions", "error", err)
		os.Exit(1)
	}

	transitions, err := repo.LoadTransitions(ctx)
	if err != nil {
		logger.Error("failed to load status transitions", "error", err)
		os.Exit(1)
	}

	graph, err := order.NewGraph(transitions)
	if err != nil {
		logger.Error("stored status transitions are invalid", "error", err)
		os.Exit(1)
	}

	return graph
}

func startWebServer(root cmd.CompositionRoot, port string, logger *slog.Logger) {
	metrics.Register()

	e := echo.New()
	e.HideBanner = true
	e.Use(httpin.MetricsMiddleware())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	server := root.CreateHTTPServer()
	server.RegisterRoutes(e, httpin.NewHeaderIdentityProvider())

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
