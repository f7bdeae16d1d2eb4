package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	m "facetrack_backend/internals/features/attendance/model"
	"facetrack_backend/internals/features/attendance/service"
	calModel "facetrack_backend/internals/features/calendar/model"
	instModel "facetrack_backend/internals/features/institute/model"
)

/* =========================
   Harness
   ========================= */

// fakeVerifier stands in for the face-match collaborator.
type fakeVerifier struct {
	result *service.VerifyResult
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(ctx context.Context, instituteID uuid.UUID, capture []byte) (*service.VerifyResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func matchedStudent() *service.VerifyResult {
	return &service.VerifyResult{
		Matched:            true,
		StudentID:          uuid.New(),
		StudentName:        "Asha",
		RollNumber:         "42",
		Department:         "CSE",
		Confidence:         0.97,
		DressCodeCompliant: true,
	}
}

type markEnv struct {
	app      *fiber.App
	db       *gorm.DB
	ctl      *AttendanceController
	verifier *fakeVerifier
	instID   uuid.UUID
}

func newMarkEnv(t *testing.T) *markEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "attendance.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&instModel.Institute{}, &calModel.DateOverride{}, &m.AttendanceRecord{},
	))

	inst := &instModel.Institute{InstituteName: "Nalanda"}
	require.NoError(t, db.Create(inst).Error)

	fv := &fakeVerifier{result: matchedStudent()}
	ctl := New(db, validator.New(), fv)
	ctl.Now = func() time.Time {
		d, _ := time.Parse("2006-01-02", "2026-01-05") // Monday
		return d
	}

	app := fiber.New()
	app.Post("/api/public/attendance/mark", ctl.Mark)

	return &markEnv{app: app, db: db, ctl: ctl, verifier: fv, instID: inst.InstituteID}
}

// tinyPNG is a minimal decodable capture for the normalization path.
func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (e *markEnv) mark(t *testing.T, institute string, photo []byte) (int, string, json.RawMessage) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if institute != "" {
		require.NoError(t, mw.WriteField("institute_name", institute))
	}
	if photo != nil {
		part, err := mw.CreateFormFile("photo", "capture.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/public/attendance/mark", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env.Message, env.Data
}

func (e *markEnv) setOverride(t *testing.T, date string, isHoliday bool, reason string) {
	t.Helper()
	var r *string
	if reason != "" {
		r = &reason
	}
	require.NoError(t, e.db.Create(&calModel.DateOverride{
		DateOverrideInstituteID: e.instID,
		DateOverrideDate:        date,
		DateOverrideIsHoliday:   isHoliday,
		DateOverrideReason:      r,
	}).Error)
}

/* =========================
   Tests
   ========================= */

func TestMark_Success(t *testing.T) {
	env := newMarkEnv(t)

	code, msg, data := env.mark(t, "Nalanda", tinyPNG(t))
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Attendance marked successfully for Asha!", msg)

	var res struct {
		Student     string  `json:"student"`
		Status      string  `json:"status"`
		Confidence  float64 `json:"match_confidence"`
		DressCodeOK bool    `json:"dress_code_compliant"`
	}
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "Asha", res.Student)
	assert.Equal(t, "Present", res.Status)
	assert.InDelta(t, 0.97, res.Confidence, 1e-9)
	assert.True(t, res.DressCodeOK)

	var count int64
	require.NoError(t, env.db.Model(&m.AttendanceRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMark_HolidayGate_BlocksBeforeVerification(t *testing.T) {
	env := newMarkEnv(t)
	env.setOverride(t, "2026-01-05", true, "Sports Day")

	code, msg, _ := env.mark(t, "Nalanda", tinyPNG(t))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Today is a holiday (Sports Day). Attendance marking is disabled.", msg)
	assert.Equal(t, 0, env.verifier.calls, "the gate must refuse before the verifier is consulted")
}

func TestMark_WeekendDefault_Blocks(t *testing.T) {
	env := newMarkEnv(t)
	env.ctl.Now = func() time.Time {
		d, _ := time.Parse("2006-01-02", "2026-01-10") // Saturday
		return d
	}

	code, msg, _ := env.mark(t, "Nalanda", tinyPNG(t))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, msg, "Saturday")
}

func TestMark_WorkingOverrideOnWeekend_Passes(t *testing.T) {
	env := newMarkEnv(t)
	env.ctl.Now = func() time.Time {
		d, _ := time.Parse("2006-01-02", "2026-01-10")
		return d
	}
	env.setOverride(t, "2026-01-10", false, "Makeup classes")

	code, _, _ := env.mark(t, "Nalanda", tinyPNG(t))
	assert.Equal(t, http.StatusCreated, code)
}

func TestMark_GateFetchFailure_FailsClosed(t *testing.T) {
	env := newMarkEnv(t)
	// break the override store: the gate must block, not assume a working day
	require.NoError(t, env.db.Migrator().DropTable(&calModel.DateOverride{}))

	code, msg, _ := env.mark(t, "Nalanda", tinyPNG(t))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "holiday check unavailable; attendance blocked", msg)
	assert.Equal(t, 0, env.verifier.calls)
}

func TestMark_UnknownInstitute(t *testing.T) {
	env := newMarkEnv(t)

	code, _, _ := env.mark(t, "Ghost Academy", tinyPNG(t))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, 0, env.verifier.calls)
}

func TestMark_MissingInputs(t *testing.T) {
	env := newMarkEnv(t)

	code, msg, _ := env.mark(t, "", tinyPNG(t))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "institute_name is required", msg)

	code, msg, _ = env.mark(t, "Nalanda", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "photo is required", msg)

	code, msg, _ = env.mark(t, "Nalanda", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, msg, "could not decode image")
}

func TestMark_VerifierUnavailable(t *testing.T) {
	env := newMarkEnv(t)
	env.verifier.err = service.ErrVerifierUnavailable

	code, _, _ := env.mark(t, "Nalanda", tinyPNG(t))
	assert.Equal(t, http.StatusBadGateway, code)
}

func TestMark_FaceNotRecognized(t *testing.T) {
	env := newMarkEnv(t)
	env.verifier.result = &service.VerifyResult{Matched: false}

	code, msg, _ := env.mark(t, "Nalanda", tinyPNG(t))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Face not recognized! Please register first.", msg)
}

func TestMark_AlreadyMarkedToday(t *testing.T) {
	env := newMarkEnv(t)

	code, _, _ := env.mark(t, "Nalanda", tinyPNG(t))
	require.Equal(t, http.StatusCreated, code)

	code, msg, _ := env.mark(t, "Nalanda", tinyPNG(t))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Attendance already marked for Asha today", msg)

	var count int64
	require.NoError(t, env.db.Model(&m.AttendanceRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "dedupe must not insert a second row")
}

func TestMark_DressCodeViolation(t *testing.T) {
	env := newMarkEnv(t)
	env.verifier.result.DressCodeCompliant = false
	env.verifier.result.DressCodeDetails = json.RawMessage(`{"missing":["id card"]}`)

	code, _, data := env.mark(t, "Nalanda", tinyPNG(t))
	require.Equal(t, http.StatusCreated, code)

	var res struct {
		Status      string `json:"status"`
		DressCodeOK bool   `json:"dress_code_compliant"`
	}
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "Present - Dress Code Violation", res.Status)
	assert.False(t, res.DressCodeOK)
}
