// file: internals/features/calendar/route/admin_route.go
package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	calctl "facetrack_backend/internals/features/calendar/controller"
)

// CalendarAdminRoutes registers the mutating calendar surface
// (JWT + institute scope enforced in the controller).
func CalendarAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := calctl.New(db, validator.New())

	// Path:
	//   - POST   /api/a/institutes/:institute_id/overrides         (upsert)
	//   - DELETE /api/a/institutes/:institute_id/overrides/:date   (revert to default)
	grp := admin.Group("/institutes/:institute_id/overrides")
	grp.Post("/", ctl.Apply)
	grp.Delete("/:date", ctl.Remove)
}
