// file: internals/features/institute/controller/institute_controller.go
package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "facetrack_backend/internals/helpers"
	helperAuth "facetrack_backend/internals/helpers/auth"

	d "facetrack_backend/internals/features/institute/dto"
	m "facetrack_backend/internals/features/institute/model"
)

/* =========================
   Controller & Constructor
   ========================= */

type InstituteController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *InstituteController {
	return &InstituteController{DB: db, Validate: v}
}

/* =========================
   Create  (OWNER only — institutes are provisioned, not self-served)
   Path: POST /institutes
   ========================= */

func (ctl *InstituteController) Create(c *fiber.Ctx) error {
	if !helperAuth.IsOwner(c) {
		return helper.JsonError(c, http.StatusForbidden, "owner only")
	}

	var req d.CreateInstituteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if ctl.Validate != nil {
		if err := ctl.Validate.Struct(req); err != nil {
			return helper.JsonError(c, http.StatusBadRequest, err.Error())
		}
	}

	model := req.ToModel()
	if model.InstituteName == "" {
		return helper.JsonError(c, http.StatusBadRequest, "institute_name is required")
	}

	if err := ctl.DB.WithContext(c.Context()).Create(model).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Institute created", d.FromModelInstitute(model))
}

/* =========================
   Get By Name  (PUBLIC)
   Path: GET /institutes/by-name/:institute_name
   ========================= */

func (ctl *InstituteController) GetByName(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("institute_name"))
	if decoded, err := url.PathUnescape(name); err == nil {
		name = strings.TrimSpace(decoded)
	}
	if name == "" {
		return helper.JsonError(c, http.StatusBadRequest, "institute_name is required")
	}

	var row m.Institute
	if err := ctl.DB.WithContext(c.Context()).
		Where("institute_name = ?", name).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "institute not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", d.FromModelInstitute(&row))
}
