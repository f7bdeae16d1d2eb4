// file: internals/features/calendar/model/date_override_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =====================
   MODEL
   ===================== */

type DateOverride struct {
	// PK
	DateOverrideID uuid.UUID `gorm:"type:uuid;primaryKey;column:date_override_id" json:"date_override_id"`

	// Tenant guard
	DateOverrideInstituteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_date_overrides_institute_date,where:date_override_deleted_at IS NULL;column:date_override_institute_id" json:"date_override_institute_id"`

	// Calendar date, YYYY-MM-DD. At most one live row per (institute, date).
	DateOverrideDate string `gorm:"type:date;not null;uniqueIndex:uq_date_overrides_institute_date,where:date_override_deleted_at IS NULL;column:date_override_date" json:"date_override_date"`

	// true = not a working day, regardless of weekday
	DateOverrideIsHoliday bool `gorm:"type:boolean;not null;column:date_override_is_holiday" json:"date_override_is_holiday"`

	// Optional free text. Empty is valid and distinct from "no override".
	DateOverrideReason *string `gorm:"type:text;column:date_override_reason" json:"date_override_reason,omitempty"`

	// Audit
	DateOverrideCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:date_override_created_at" json:"date_override_created_at"`
	DateOverrideUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:date_override_updated_at" json:"date_override_updated_at"`
	DateOverrideDeletedAt gorm.DeletedAt `gorm:"index;column:date_override_deleted_at" json:"date_override_deleted_at,omitempty"`
}

func (m *DateOverride) BeforeCreate(tx *gorm.DB) error {
	if m.DateOverrideID == uuid.Nil {
		m.DateOverrideID = uuid.New()
	}
	return nil
}

/* =====================
   TableName override
   ===================== */

func (DateOverride) TableName() string {
	return "date_overrides"
}
