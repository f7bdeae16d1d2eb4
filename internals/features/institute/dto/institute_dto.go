// file: internals/features/institute/dto/institute_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "facetrack_backend/internals/features/institute/model"
)

/* =========================================================
   REQUESTS
   ========================================================= */

type CreateInstituteRequest struct {
	InstituteName string `json:"institute_name" validate:"required,max=200"`
}

func (r *CreateInstituteRequest) ToModel() *m.Institute {
	return &m.Institute{
		InstituteName: strings.TrimSpace(r.InstituteName),
	}
}

/* =========================================================
   RESPONSES
   ========================================================= */

type InstituteResponse struct {
	InstituteID        uuid.UUID `json:"institute_id"`
	InstituteName      string    `json:"institute_name"`
	InstituteCreatedAt time.Time `json:"institute_created_at"`
}

func FromModelInstitute(i *m.Institute) *InstituteResponse {
	if i == nil {
		return nil
	}
	return &InstituteResponse{
		InstituteID:        i.InstituteID,
		InstituteName:      i.InstituteName,
		InstituteCreatedAt: i.InstituteCreatedAt,
	}
}
