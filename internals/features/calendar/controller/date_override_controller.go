// file: internals/features/calendar/controller/date_override_controller.go
package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	helper "facetrack_backend/internals/helpers"
	helperAuth "facetrack_backend/internals/helpers/auth"

	"facetrack_backend/internals/features/calendar/classify"
	d "facetrack_backend/internals/features/calendar/dto"
	m "facetrack_backend/internals/features/calendar/model"
	instModel "facetrack_backend/internals/features/institute/model"
)

/* =========================
   Controller & Constructor
   ========================= */

type DateOverrideController struct {
	DB       *gorm.DB
	Validate *validator.Validate

	// Now is swappable so "today" can be pinned in tests.
	Now func() time.Time
}

func New(db *gorm.DB, v *validator.Validate) *DateOverrideController {
	return &DateOverrideController{DB: db, Validate: v}
}

func (ctl *DateOverrideController) today() time.Time {
	if ctl.Now != nil {
		return ctl.Now()
	}
	return time.Now()
}

/* =========================
   Helpers
   ========================= */

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

// --- PG error mapping (pgx/libpq) ---
func mapPGError(err error) (int, string) {
	// pgx
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		switch pgxErr.Code {
		case "23503":
			return http.StatusBadRequest, "Reference not found (FK violation)."
		case "23505":
			return http.StatusConflict, "Duplicate data (unique violation)."
		default:
			return http.StatusInternalServerError, pgxErr.Message
		}
	}
	// lib/pq
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "23503":
			return http.StatusBadRequest, "Reference not found (FK violation)."
		case "23505":
			return http.StatusConflict, "Duplicate data (unique violation)."
		default:
			return http.StatusInternalServerError, pqErr.Error()
		}
	}
	return http.StatusInternalServerError, err.Error()
}

func writePGError(c *fiber.Ctx, err error) error {
	code, msg := mapPGError(err)
	return helper.JsonError(c, code, msg)
}

/* =========================
   Apply (upsert)  (OWNER or Admin of the institute)
   Path: POST /:institute_id/overrides
   Creates the override when the date has none, mutates in place otherwise.
   ========================= */

func (ctl *DateOverrideController) Apply(c *fiber.Ctx) error {
	instituteID, err := parseUUIDParam(c, "institute_id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	// owner bypass, otherwise must be admin of this institute
	if !helperAuth.IsOwner(c) {
		if er := helperAuth.EnsureAdminInstitute(c, instituteID); er != nil {
			return er
		}
	}

	var req d.ApplyDateOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if ctl.Validate != nil {
		if err := ctl.Validate.Struct(req); err != nil {
			return helper.JsonError(c, http.StatusBadRequest, err.Error())
		}
	}

	incoming, err := req.ToModel(instituteID)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var existing m.DateOverride
	err = ctl.DB.WithContext(c.Context()).
		Where("date_override_institute_id = ? AND date_override_date = ?", instituteID, incoming.DateOverrideDate).
		First(&existing).Error

	switch {
	case err == nil:
		// mutate in place (same key); last write wins
		existing.DateOverrideIsHoliday = incoming.DateOverrideIsHoliday
		if incoming.DateOverrideReason != nil {
			existing.DateOverrideReason = incoming.DateOverrideReason
		}
		if err := ctl.DB.WithContext(c.Context()).Save(&existing).Error; err != nil {
			return writePGError(c, err)
		}
		msg := fmt.Sprintf("Updated %s as %s", existing.DateOverrideDate, holidayWord(existing.DateOverrideIsHoliday))
		return helper.JsonUpdated(c, msg, d.FromModelDateOverride(&existing))

	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := ctl.DB.WithContext(c.Context()).Create(incoming).Error; err != nil {
			return writePGError(c, err)
		}
		msg := fmt.Sprintf("Marked %s as %s", incoming.DateOverrideDate, holidayWord(incoming.DateOverrideIsHoliday))
		return helper.JsonCreated(c, msg, d.FromModelDateOverride(incoming))

	default:
		return writePGError(c, err)
	}
}

func holidayWord(isHoliday bool) string {
	if isHoliday {
		return "holiday"
	}
	return "working day"
}

/* =========================
   Remove  (OWNER or Admin of the institute)
   Path: DELETE /:institute_id/overrides/:date
   Soft delete; the date reverts to the weekday default.
   ========================= */

func (ctl *DateOverrideController) Remove(c *fiber.Ctx) error {
	instituteID, err := parseUUIDParam(c, "institute_id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if !helperAuth.IsOwner(c) {
		if er := helperAuth.EnsureAdminInstitute(c, instituteID); er != nil {
			return er
		}
	}

	dateStr := strings.TrimSpace(c.Params("date"))
	t, ok := d.ParseDateYYYYMMDD(dateStr)
	if !ok {
		return helper.JsonError(c, http.StatusBadRequest, "invalid date (expected YYYY-MM-DD)")
	}
	key := classify.DateKey(t)

	var existing m.DateOverride
	if err := ctl.DB.WithContext(c.Context()).
		Where("date_override_institute_id = ? AND date_override_date = ?", instituteID, key).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "date override not found")
		}
		return writePGError(c, err)
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(&existing).Error; err != nil {
		return writePGError(c, err)
	}

	return helper.JsonDeleted(c, "Override removed; date reverts to the weekday default", fiber.Map{
		"date_override_id":   existing.DateOverrideID,
		"date_override_date": key,
	})
}

/* =========================
   List (index)  (PUBLIC — calendar browsing stays available read-only)
   Path: GET /:institute_id/overrides
   Query: ?date_from&date_to&limit&offset
   ========================= */

func (ctl *DateOverrideController) List(c *fiber.Ctx) error {
	instituteID, err := parseUUIDParam(c, "institute_id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var q d.ListDateOverridesQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	q.Normalize()
	if ctl.Validate != nil {
		if err := ctl.Validate.Struct(q); err != nil {
			return helper.JsonError(c, http.StatusBadRequest, err.Error())
		}
	}

	tx := ctl.DB.WithContext(c.Context()).Model(&m.DateOverride{}).
		Where("date_override_institute_id = ?", instituteID)

	if q.DateFrom != nil && strings.TrimSpace(*q.DateFrom) != "" {
		tx = tx.Where("date_override_date >= ?", strings.TrimSpace(*q.DateFrom))
	}
	if q.DateTo != nil && strings.TrimSpace(*q.DateTo) != "" {
		tx = tx.Where("date_override_date <= ?", strings.TrimSpace(*q.DateTo))
	}

	tx = tx.Order("date_override_date ASC")

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return writePGError(c, err)
	}

	var rows []m.DateOverride
	if err := tx.Limit(q.Limit).Offset(q.Offset).Find(&rows).Error; err != nil {
		return writePGError(c, err)
	}

	resp := d.DateOverrideListResponse{
		Data: make([]*d.DateOverrideResponse, 0, len(rows)),
	}
	resp.Pagination.Limit = q.Limit
	resp.Pagination.Offset = q.Offset
	resp.Pagination.Total = int(total)

	for i := range rows {
		resp.Data = append(resp.Data, d.FromModelDateOverride(&rows[i]))
	}

	return helper.JsonOK(c, "OK", resp)
}

/* =========================
   Today Status  (PUBLIC)
   Path: GET /institutes/by-name/:institute_name/today-status
   Resolves the institute, fetches its live overrides for today and runs the
   classifier — the same code path the calendar uses, on purpose.
   ========================= */

func (ctl *DateOverrideController) TodayStatus(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("institute_name"))
	if decoded, err := url.PathUnescape(name); err == nil {
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
			// Unknown tenant is an error, never an implicit working day.
			return helper.JsonError(c, http.StatusNotFound, "institute not found")
		}
		return writePGError(c, err)
	}

	today := ctl.today()
	key := classify.DateKey(today)

	var rows []m.DateOverride
	if err := ctl.DB.WithContext(c.Context()).
		Where("date_override_institute_id = ? AND date_override_date = ?", inst.InstituteID, key).
		Find(&rows).Error; err != nil {
		return writePGError(c, err)
	}

	cl := classify.Classify(today, d.ToClassifierOverrides(rows))

	return helper.JsonOK(c, "OK", d.TodayStatusResponse{
		Date:      key,
		IsHoliday: cl.IsHoliday,
		Reason:    cl.Reason,
		IsCustom:  cl.IsCustom,
		Tag:       cl.Tag(),
	})
}
