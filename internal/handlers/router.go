package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"alfredoptarigan/ats-resume-expert/internal/config"
	"alfredoptarigan/ats-resume-expert/internal/services"
	"alfredoptarigan/ats-resume-expert/internal/views"
)

// NewApp wires middleware and routes around the page handler.
func NewApp(cfg *config.Config, pageHandler *PageHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ATS Resume Expert",
		BodyLimit:    cfg.Server.BodyLimit,
		Views:        views.NewEngine(),
		ErrorHandler: newErrorHandler(cfg.IsDevelopment()),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	api := app.Group("/api/v1", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	app.Get("/", pageHandler.HandleIndex)
	app.Post("/", pageHandler.HandleRerun)
	app.Post("/reset", pageHandler.HandleReset)

	return app
}

// internalErrorMessage replaces the text of server-side failures outside
// development. Client errors always carry their own message.
const internalErrorMessage = "Something went wrong while evaluating the resume. Please try again."

func newErrorHandler(showDetails bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		} else if errors.Is(err, services.ErrInvalidDocument) {
			code = fiber.StatusUnprocessableEntity
		}

		log.Printf("❌ [%v] %s %s failed: %v\n", c.Locals("requestid"), c.Method(), c.Path(), err)

		message := err.Error()
		if code >= fiber.StatusInternalServerError && !showDetails {
			message = internalErrorMessage
		}

		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(code).JSON(fiber.Map{
				"error": message,
				"code":  code,
			})
		}

		if renderErr := c.Status(code).Render("error", fiber.Map{
			"Code":  code,
			"Error": message,
		}); renderErr != nil {
			return c.Status(code).SendString(message)
		}
		return nil
	}
}
