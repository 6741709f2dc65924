package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/repositories"
	"taskboard/internal/services"
	"taskboard/pkg/events"
	"taskboard/pkg/mailer"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SQLITE_PATH", "taskboard.db")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ALGORITHM", "HS256")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 24)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASS", "")
	viper.SetDefault("FROM_EMAIL", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// --- Database ---
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Project{},
		&models.PasswordResetOTP{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Mailer ---
	mail := mailer.NewSMTPMailer(mailer.Config{
		Host:     viper.GetString("SMTP_HOST"),
		Port:     viper.GetInt("SMTP_PORT"),
		Username: viper.GetString("SMTP_USER"),
		Password: viper.GetString("SMTP_PASS"),
		From:     viper.GetString("FROM_EMAIL"),
	})

	// --- RabbitMQ (optional) ---
	var mqClient *events.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: failed to initialize RabbitMQ client, events disabled: %v", err)
		} else {
			defer mqClient.Close()
		}
	}

	// --- App ---
	app, err := newApp(db, mail, mqClient, jwtSecret,
		viper.GetString("JWT_ALGORITHM"), viper.GetInt("JWT_EXPIRATION_HOURS"))
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	// --- Auth event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for auth events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received auth event (tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeAuthEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase opens PostgreSQL when DATABASE_DSN is configured and
// falls back to a local SQLite file otherwise. TranslateError maps
// driver-specific unique violations onto gorm.ErrDuplicatedKey, which
// the user repository relies on.
func openDatabase() (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), gormCfg)
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), gormCfg)
}

// newApp wires repositories, services, handlers and routes into a
// Fiber app. Tests build the app the same way against an in-memory
// database.
func newApp(db *gorm.DB, mail mailer.Mailer, mqClient *events.Client, jwtSecret, jwtAlgorithm string, tokenTTLHours int) (*fiber.App, error) {
	// Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	taskRepo := repositories.NewGORMTaskRepository(db)
	projectRepo := repositories.NewGORMProjectRepository(db)
	otpRepo := repositories.NewGORMOTPRepository(db)

	// Services
	authService, err := services.NewAuthService(userRepo, otpRepo, mail, mqClient, jwtSecret, jwtAlgorithm, tokenTTLHours)
	if err != nil {
		return nil, err
	}
	taskService := services.NewTaskService(taskRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo)
	dashboardService := services.NewDashboardService(taskRepo, projectRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	projectHandler := handlers.NewProjectHandler(projectService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes: registration, login and the password-reset steps.
	authHandler.RegisterRoutes(apiV1)

	// Protected routes
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	taskHandler.RegisterRoutes(protectedRoutes)
	projectHandler.RegisterRoutes(protectedRoutes)
	dashboardHandler.RegisterRoutes(protectedRoutes)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		database := "connected"
		if sqlDB, dbErr := db.DB(); dbErr != nil || sqlDB.Ping() != nil {
			database = "disconnected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  database,
		})
	})

	return app, nil
}
