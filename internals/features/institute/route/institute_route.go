// file: internals/features/institute/route/institute_route.go
package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	instctl "facetrack_backend/internals/features/institute/controller"
)

// InstituteUserRoutes: public tenant lookup.
func InstituteUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := instctl.New(db, validator.New())

	// Path:
	//   - GET /api/public/institutes/by-name/:institute_name
	user.Get("/institutes/by-name/:institute_name", ctl.GetByName)
}

// InstituteAdminRoutes: provisioning (owner only).
func InstituteAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := instctl.New(db, validator.New())

	// Path:
	//   - POST /api/a/institutes
	admin.Post("/institutes", ctl.Create)
}
