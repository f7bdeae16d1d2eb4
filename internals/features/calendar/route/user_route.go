// file: internals/features/calendar/route/user_route.go
package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	calctl "facetrack_backend/internals/features/calendar/controller"
)

// CalendarUserRoutes registers the read-only calendar surface. Browsing
// stays public so a fetch failure on the admin side never hides the calendar.
func CalendarUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := calctl.New(db, validator.New())

	// Path:
	//   - GET /api/public/institutes/:institute_id/overrides
	//   - GET /api/public/institutes/by-name/:institute_name/today-status
	user.Get("/institutes/:institute_id/overrides", ctl.List)
	user.Get("/institutes/by-name/:institute_name/today-status", ctl.TodayStatus)
}
