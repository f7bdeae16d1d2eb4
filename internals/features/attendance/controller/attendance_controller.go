// file: internals/features/attendance/controller/attendance_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	helper "facetrack_backend/internals/helpers"

	d "facetrack_backend/internals/features/attendance/dto"
	m "facetrack_backend/internals/features/attendance/model"
	"facetrack_backend/internals/features/attendance/service"
	"facetrack_backend/internals/features/calendar/classify"
	calDto "facetrack_backend/internals/features/calendar/dto"
	calModel "facetrack_backend/internals/features/calendar/model"
	instModel "facetrack_backend/internals/features/institute/model"
)

/* =========================
   Controller & Constructor
   ========================= */

type AttendanceController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Verifier service.Verifier

	// Now is swappable so "today" can be pinned in tests.
	Now func() time.Time
}

func New(db *gorm.DB, v *validator.Validate, verifier service.Verifier) *AttendanceController {
	return &AttendanceController{DB: db, Validate: v, Verifier: verifier}
}

func (ctl *AttendanceController) today() time.Time {
	if ctl.Now != nil {
		return ctl.Now()
	}
	return time.Now()
}

/* =========================
   Mark  (PUBLIC — the kiosk posts captures without a session)
   Path: POST /attendance/mark  (multipart: institute_name, photo)

   The holiday gate runs here, before anything touches the verification
   collaborator. A classification fetch failure blocks the attempt: the gate
   fails closed, never open.
   ========================= */

func (ctl *AttendanceController) Mark(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("institute_name"))
	if decoded, err := url.QueryUnescape(name); err == nil {
		name = strings.TrimSpace(decoded)
	}
	if name == "" {
		return helper.JsonError(c, http.StatusBadRequest, "institute_name is required")
	}

	var inst instModel.Institute
	if err := ctl.DB.WithContext(c.Context()).
		Where("institute_name = ?", name).
		First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "institute not found")
		}
		return helper.JsonError(c, http.StatusServiceUnavailable, "holiday check unavailable; attendance blocked")
	}

	// ===== HOLIDAY GATE =====
	today := ctl.today()
	key := classify.DateKey(today)

	var overrides []calModel.DateOverride
	if err := ctl.DB.WithContext(c.Context()).
		Where("date_override_institute_id = ? AND date_override_date = ?", inst.InstituteID, key).
		Find(&overrides).Error; err != nil {
		// fail closed: an unknown holiday status is a blocked gate
		return helper.JsonError(c, http.StatusServiceUnavailable, "holiday check unavailable; attendance blocked")
	}

	cl := classify.Classify(today, calDto.ToClassifierOverrides(overrides))
	if cl.IsHoliday {
		return helper.JsonError(c, http.StatusForbidden,
			fmt.Sprintf("Today is a holiday (%s). Attendance marking is disabled.", cl.Reason))
	}
	// ===== END HOLIDAY GATE =====

	fh, err := c.FormFile("photo")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "photo is required")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "cannot read photo")
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, 10<<20))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "cannot read photo")
	}

	capture, err := service.NormalizeCapture(raw)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid photo: could not decode image")
	}

	res, err := ctl.Verifier.Verify(c.UserContext(), inst.InstituteID, capture)
	if err != nil {
		return helper.JsonError(c, http.StatusBadGateway, "verification service unavailable; try again")
	}
	if !res.Matched {
		return helper.JsonError(c, http.StatusNotFound, "Face not recognized! Please register first.")
	}

	// already marked today?
	var existing m.AttendanceRecord
	err = ctl.DB.WithContext(c.Context()).
		Where("attendance_institute_id = ? AND attendance_student_id = ? AND attendance_date = ?",
			inst.InstituteID, res.StudentID, key).
		First(&existing).Error
	switch {
	case err == nil:
		return helper.JsonOK(c,
			fmt.Sprintf("Attendance already marked for %s today", res.StudentName),
			d.FromModelAttendance(&existing))
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	status := "Present"
	if !res.DressCodeCompliant {
		status = "Present - Dress Code Violation"
	}

	details, _ := json.Marshal(fiber.Map{
		"confidence": res.Confidence,
		"dress_code": res.DressCodeDetails,
	})

	rec := &m.AttendanceRecord{
		AttendanceInstituteID:    inst.InstituteID,
		AttendanceStudentID:      res.StudentID,
		AttendanceDate:           key,
		AttendanceMarkedAt:       today,
		AttendanceStatus:         status,
		AttendanceFaceMatch:      true,
		AttendanceDressCodeMatch: res.DressCodeCompliant,
		AttendanceDetails:        datatypes.JSON(details),
	}
	if err := ctl.DB.WithContext(c.Context()).Create(rec).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c,
		fmt.Sprintf("Attendance marked successfully for %s!", res.StudentName),
		d.MarkAttendanceResult{
			Student:         res.StudentName,
			RollNumber:      res.RollNumber,
			Department:      res.Department,
			MatchConfidence: res.Confidence,
			Status:          status,
			DressCodeOK:     res.DressCodeCompliant,
		})
}
