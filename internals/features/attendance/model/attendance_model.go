// file: internals/features/attendance/model/attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =====================
   MODEL
   ===================== */

type AttendanceRecord struct {
	// PK
	AttendanceID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_id" json:"attendance_id"`

	// Tenant guard
	AttendanceInstituteID uuid.UUID `gorm:"type:uuid;not null;column:attendance_institute_id" json:"attendance_institute_id"`

	// Student identity as resolved by the verification service
	AttendanceStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_student_date,where:attendance_deleted_at IS NULL;column:attendance_student_id" json:"attendance_student_id"`

	// One record per student per calendar day
	AttendanceDate     string    `gorm:"type:date;not null;uniqueIndex:uq_attendance_student_date,where:attendance_deleted_at IS NULL;column:attendance_date" json:"attendance_date"`
	AttendanceMarkedAt time.Time `gorm:"not null;column:attendance_marked_at" json:"attendance_marked_at"`

	AttendanceStatus         string `gorm:"type:varchar(80);not null;column:attendance_status" json:"attendance_status"`
	AttendanceFaceMatch      bool   `gorm:"type:boolean;not null;column:attendance_face_match" json:"attendance_face_match"`
	AttendanceDressCodeMatch bool   `gorm:"type:boolean;not null;column:attendance_dress_code_match" json:"attendance_dress_code_match"`

	// Raw verification outcome (confidence, dress-code detail) for audit
	AttendanceDetails datatypes.JSON `gorm:"column:attendance_details" json:"attendance_details,omitempty"`

	// Audit
	AttendanceCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:attendance_created_at" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:attendance_updated_at" json:"attendance_updated_at"`
	AttendanceDeletedAt gorm.DeletedAt `gorm:"index;column:attendance_deleted_at" json:"attendance_deleted_at,omitempty"`
}

func (m *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}

/* =====================
   TableName override
   ===================== */

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
