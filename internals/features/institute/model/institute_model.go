// file: internals/features/institute/model/institute_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =====================
   MODEL
   ===================== */

type Institute struct {
	// PK
	InstituteID uuid.UUID `gorm:"type:uuid;primaryKey;column:institute_id" json:"institute_id"`

	// Display name; attendance callers identify the tenant by it
	InstituteName string `gorm:"type:varchar(200);not null;uniqueIndex:uq_institutes_name,where:institute_deleted_at IS NULL;column:institute_name" json:"institute_name"`

	// Audit
	InstituteCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:institute_created_at" json:"institute_created_at"`
	InstituteUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:institute_updated_at" json:"institute_updated_at"`
	InstituteDeletedAt gorm.DeletedAt `gorm:"index;column:institute_deleted_at" json:"institute_deleted_at,omitempty"`
}

func (m *Institute) BeforeCreate(tx *gorm.DB) error {
	if m.InstituteID == uuid.Nil {
		m.InstituteID = uuid.New()
	}
	return nil
}

/* =====================
   TableName override
   ===================== */

func (Institute) TableName() string {
	return "institutes"
}
