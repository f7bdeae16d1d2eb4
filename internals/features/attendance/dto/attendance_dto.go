// file: internals/features/attendance/dto/attendance_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "facetrack_backend/internals/features/attendance/model"
)

/* =========================================================
   RESPONSES
   ========================================================= */

type AttendanceResponse struct {
	AttendanceID          uuid.UUID `json:"attendance_id"`
	AttendanceInstituteID uuid.UUID `json:"attendance_institute_id"`
	AttendanceStudentID   uuid.UUID `json:"attendance_student_id"`

	AttendanceDate     string    `json:"attendance_date"` // YYYY-MM-DD
	AttendanceMarkedAt time.Time `json:"attendance_marked_at"`

	AttendanceStatus         string `json:"attendance_status"`
	AttendanceFaceMatch      bool   `json:"attendance_face_match"`
	AttendanceDressCodeMatch bool   `json:"attendance_dress_code_match"`
}

func FromModelAttendance(a *m.AttendanceRecord) *AttendanceResponse {
	if a == nil {
		return nil
	}
	return &AttendanceResponse{
		AttendanceID:             a.AttendanceID,
		AttendanceInstituteID:    a.AttendanceInstituteID,
		AttendanceStudentID:      a.AttendanceStudentID,
		AttendanceDate:           a.AttendanceDate,
		AttendanceMarkedAt:       a.AttendanceMarkedAt,
		AttendanceStatus:         a.AttendanceStatus,
		AttendanceFaceMatch:      a.AttendanceFaceMatch,
		AttendanceDressCodeMatch: a.AttendanceDressCodeMatch,
	}
}

// MarkAttendanceResult is the success payload for a marking attempt.
type MarkAttendanceResult struct {
	Student         string  `json:"student"`
	RollNumber      string  `json:"roll_number"`
	Department      string  `json:"department"`
	MatchConfidence float64 `json:"match_confidence"`
	Status          string  `json:"status"`
	DressCodeOK     bool    `json:"dress_code_compliant"`
}
