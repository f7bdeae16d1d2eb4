package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares applies the base middleware chain in order.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
