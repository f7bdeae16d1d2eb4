// file: internals/route/index.go
package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"facetrack_backend/internals/configs"
	attendanceRoutes "facetrack_backend/internals/features/attendance/route"
	attendanceService "facetrack_backend/internals/features/attendance/service"
	calendarRoutes "facetrack_backend/internals/features/calendar/route"
	instituteRoutes "facetrack_backend/internals/features/institute/route"
	authMiddleware "facetrack_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	instituteRoutes.InstituteUserRoutes(public, db)
	calendarRoutes.CalendarUserRoutes(public, db)

	verifier := attendanceService.NewHTTPVerifier(configs.VerifierBaseURL, configs.VerifierAPIKey)
	attendanceRoutes.AttendanceUserRoutes(public, db, verifier)

	// ===================== ADMIN (per institute) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + institute scope)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	instituteRoutes.InstituteAdminRoutes(admin, db)
	calendarRoutes.CalendarAdminRoutes(admin, db)
}
