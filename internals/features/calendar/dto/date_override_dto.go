// file: internals/features/calendar/dto/date_override_dto.go
package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"facetrack_backend/internals/features/calendar/classify"
	m "facetrack_backend/internals/features/calendar/model"
)

/* =========================================================
   Helpers
   ========================================================= */

const dateLayout = "2006-01-02"

func ParseDateYYYYMMDD(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

/* =========================================================
   1) REQUESTS
   ========================================================= */

// Apply = upsert: creates the override for a date without one, mutates in
// place otherwise. Last write wins for concurrent applies on the same date.
type ApplyDateOverrideRequest struct {
	DateOverrideDate      string  `json:"date_override_date" validate:"required,datetime=2006-01-02"`
	DateOverrideIsHoliday *bool   `json:"date_override_is_holiday" validate:"required"`
	DateOverrideReason    *string `json:"date_override_reason" validate:"omitempty,max=10000"`
}

func (r *ApplyDateOverrideRequest) ToModel(instituteID uuid.UUID) (*m.DateOverride, error) {
	if instituteID == uuid.Nil {
		return nil, errors.New("institute id is required")
	}
	t, ok := ParseDateYYYYMMDD(r.DateOverrideDate)
	if !ok {
		return nil, errors.New("invalid date_override_date (expected YYYY-MM-DD)")
	}
	if r.DateOverrideIsHoliday == nil {
		return nil, errors.New("date_override_is_holiday is required")
	}
	return &m.DateOverride{
		DateOverrideInstituteID: instituteID,
		DateOverrideDate:        t.Format(dateLayout),
		DateOverrideIsHoliday:   *r.DateOverrideIsHoliday,
		DateOverrideReason:      trimPtr(r.DateOverrideReason),
	}, nil
}

/* =========================================================
   2) QUERY (list/filter)
   ========================================================= */

type ListDateOverridesQuery struct {
	// Optional date window — YYYY-MM-DD
	DateFrom *string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   *string `query:"date_to"   validate:"omitempty,datetime=2006-01-02"`

	// Pagination
	Limit  int `query:"limit"  validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

func (q *ListDateOverridesQuery) Normalize() {
	if q.Limit == 0 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

/* =========================================================
   3) RESPONSES
   ========================================================= */

type DateOverrideResponse struct {
	DateOverrideID          uuid.UUID `json:"date_override_id"`
	DateOverrideInstituteID uuid.UUID `json:"date_override_institute_id"`

	DateOverrideDate      string  `json:"date_override_date"` // YYYY-MM-DD
	DateOverrideIsHoliday bool    `json:"date_override_is_holiday"`
	DateOverrideReason    *string `json:"date_override_reason,omitempty"`

	DateOverrideCreatedAt time.Time `json:"date_override_created_at"`
	DateOverrideUpdatedAt time.Time `json:"date_override_updated_at"`
}

func FromModelDateOverride(o *m.DateOverride) *DateOverrideResponse {
	if o == nil {
		return nil
	}
	return &DateOverrideResponse{
		DateOverrideID:          o.DateOverrideID,
		DateOverrideInstituteID: o.DateOverrideInstituteID,
		DateOverrideDate:        o.DateOverrideDate,
		DateOverrideIsHoliday:   o.DateOverrideIsHoliday,
		DateOverrideReason:      o.DateOverrideReason,
		DateOverrideCreatedAt:   o.DateOverrideCreatedAt,
		DateOverrideUpdatedAt:   o.DateOverrideUpdatedAt,
	}
}

type DateOverrideListResponse struct {
	Data       []*DateOverrideResponse `json:"data"`
	Pagination struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
		Total  int `json:"total"`
	} `json:"pagination"`
}

// TodayStatusResponse is the resolved classification for "today", computed
// by the same classifier that feeds the calendar — never a separate shortcut.
type TodayStatusResponse struct {
	Date      string       `json:"date"` // YYYY-MM-DD
	IsHoliday bool         `json:"is_holiday"`
	Reason    string       `json:"reason,omitempty"`
	IsCustom  bool         `json:"is_custom"`
	Tag       classify.Tag `json:"tag"`
}

/* =========================================================
   4) Model ↔ classifier mapping
   ========================================================= */

func ToClassifierOverrides(rows []m.DateOverride) []classify.Override {
	out := make([]classify.Override, 0, len(rows))
	for i := range rows {
		out = append(out, classify.Override{
			Date:      rows[i].DateOverrideDate,
			IsHoliday: rows[i].DateOverrideIsHoliday,
			Reason:    rows[i].DateOverrideReason,
		})
	}
	return out
}
