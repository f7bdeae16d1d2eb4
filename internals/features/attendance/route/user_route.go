// file: internals/features/attendance/route/user_route.go
package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attctl "facetrack_backend/internals/features/attendance/controller"
	"facetrack_backend/internals/features/attendance/service"
	"facetrack_backend/internals/middlewares"
)

// AttendanceUserRoutes registers the capture-and-mark surface.
func AttendanceUserRoutes(user fiber.Router, db *gorm.DB, verifier service.Verifier) {
	ctl := attctl.New(db, validator.New(), verifier)

	// Path:
	//   - POST /api/public/attendance/mark
	grp := user.Group("/attendance", middlewares.MarkAttendanceRateLimiter())
	grp.Post("/mark", ctl.Mark)
}
