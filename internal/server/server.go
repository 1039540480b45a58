// Package server wires repositories, services and handlers into a Fiber app.
package server

import (
	"context"
	"time"

	"booktank/internal/config"
	"booktank/internal/handlers"
	"booktank/internal/middleware"
	"booktank/internal/repositories"
	"booktank/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// New builds the HTTP application. publisher may be nil, in which case domain
// events are dropped.
func New(cfg config.Config, db *gorm.DB, publisher services.EventPublisher) *fiber.App {
	uow := repositories.NewGORMUnitOfWork(db)

	authService := services.NewAuthService(uow, cfg)
	userService := services.NewUserService(uow)
	profileService := services.NewProfileService(uow)
	bookService := services.NewBookService(uow, publisher)
	reserveService := services.NewReserveService(uow, publisher)

	app := fiber.New(fiber.Config{
		AppName:      "booktank",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	if cfg.AppEnv != "test" {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if err := ping(c.UserContext(), db); err != nil {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
			"events": cfg.EventsEnabled(),
		})
	})

	authRequired := middleware.AuthRequired(authService)
	apiV1 := app.Group("/api/v1")

	handlers.NewAuthHandler(authService, userService).RegisterRoutes(apiV1, authRequired)
	handlers.NewUserHandler(userService).RegisterRoutes(apiV1, authRequired)
	handlers.NewBookHandler(bookService).RegisterRoutes(apiV1, authRequired)
	handlers.NewProfileHandler(profileService).RegisterRoutes(apiV1, authRequired)
	handlers.NewReserveHandler(reserveService).RegisterRoutes(apiV1, authRequired)

	return app
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
