// file: internals/clients/attendclient/storeclient.go
package attendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"facetrack_backend/internals/features/calendar/classify"
)

/* =========================
   Wire types
   ========================= */

// OverrideRecord is the client's view of one admin-authored override.
type OverrideRecord struct {
	ID          uuid.UUID
	InstituteID uuid.UUID
	Date        string // YYYY-MM-DD
	IsHoliday   bool
	Reason      *string
}

// TodayStatus is the server-resolved classification for "today".
type TodayStatus struct {
	Date      string
	IsHoliday bool
	Reason    string
	IsCustom  bool
}

// MarkResult is the outcome of a submitted attendance capture.
type MarkResult struct {
	Message         string
	Student         string
	RollNumber      string
	Department      string
	MatchConfidence float64
	Status          string
	DressCodeOK     bool
}

/* =========================
   Client
   ========================= */

// StoreClient is the institute-scoped CRUD surface over the calendar API.
// It owns request/response shaping and nothing else: no cache, no
// invalidation — staleness is the caller's problem, and callers refetch
// before trusting anything.
type StoreClient struct {
	BaseURL string
	Token   string // bearer token for the admin surface; empty = read-only
	HTTP    *http.Client
}

func NewStoreClient(baseURL, token string) *StoreClient {
	return &StoreClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (sc *StoreClient) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, sc.BaseURL+path, body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sc.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sc.Token)
	}

	client := sc.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: "malformed response payload"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

/* =========================
   Overrides
   ========================= */

type wireOverride struct {
	ID          uuid.UUID `json:"date_override_id"`
	InstituteID uuid.UUID `json:"date_override_institute_id"`
	Date        string    `json:"date_override_date"`
	IsHoliday   bool      `json:"date_override_is_holiday"`
	Reason      *string   `json:"date_override_reason"`
}

func fromWire(w wireOverride) OverrideRecord {
	return OverrideRecord{
		ID:          w.ID,
		InstituteID: w.InstituteID,
		Date:        w.Date,
		IsHoliday:   w.IsHoliday,
		Reason:      w.Reason,
	}
}

// overridePageSize matches the server's list cap.
const overridePageSize = 200

// FetchOverrides returns the complete live override set for one institute,
// paging until the server-reported total is exhausted — a large archive must
// never silently truncate the set. Callers must treat a failure as "no known
// overrides" for browsing, but NEVER for the gate.
func (sc *StoreClient) FetchOverrides(ctx context.Context, instituteID uuid.UUID) ([]OverrideRecord, error) {
	return sc.fetchOverrides(ctx, instituteID, "", "")
}

// FetchOverridesRange is FetchOverrides restricted to a date window
// (inclusive, YYYY-MM-DD). The gate uses a single-day window so the decision
// never depends on how many rows precede today.
func (sc *StoreClient) FetchOverridesRange(ctx context.Context, instituteID uuid.UUID, dateFrom, dateTo string) ([]OverrideRecord, error) {
	for _, d := range []string{dateFrom, dateTo} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
		}
	}
	return sc.fetchOverrides(ctx, instituteID, dateFrom, dateTo)
}

func (sc *StoreClient) fetchOverrides(ctx context.Context, instituteID uuid.UUID, dateFrom, dateTo string) ([]OverrideRecord, error) {
	if instituteID == uuid.Nil {
		return nil, &ValidationError{Field: "institute_id", Msg: "required"}
	}

	var out []OverrideRecord
	offset := 0
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(overridePageSize))
		if offset > 0 {
			q.Set("offset", strconv.Itoa(offset))
		}
		if dateFrom != "" {
			q.Set("date_from", dateFrom)
		}
		if dateTo != "" {
			q.Set("date_to", dateTo)
		}

		path := fmt.Sprintf("/api/public/institutes/%s/overrides?%s", instituteID, q.Encode())
		env, err := sc.do(ctx, "fetch overrides", http.MethodGet, path, nil, "")
		if err != nil {
			return nil, err
		}

		var payload struct {
			Data       []wireOverride `json:"data"`
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, &ServiceError{StatusCode: http.StatusOK, Message: "malformed override list"}
		}

		for _, w := range payload.Data {
			out = append(out, fromWire(w))
		}
		offset += len(payload.Data)
		if len(payload.Data) == 0 || offset >= payload.Pagination.Total {
			return out, nil
		}
	}
}

// ApplyOverride upserts the override for one date. Last write wins on
// concurrent applies; the caller is expected to refetch afterwards.
func (sc *StoreClient) ApplyOverride(ctx context.Context, instituteID uuid.UUID, date string, isHoliday bool, reason *string) (*OverrideRecord, error) {
	if instituteID == uuid.Nil {
		return nil, &ValidationError{Field: "institute_id", Msg: "required"}
	}
	if strings.TrimSpace(date) == "" {
		return nil, &ValidationError{Field: "date", Msg: "required"}
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}

	body, err := json.Marshal(map[string]any{
		"date_override_date":       date,
		"date_override_is_holiday": isHoliday,
		"date_override_reason":     reason,
	})
	if err != nil {
		return nil, &ValidationError{Field: "body", Msg: err.Error()}
	}

	path := fmt.Sprintf("/api/a/institutes/%s/overrides", instituteID)
	env, err := sc.do(ctx, "apply override", http.MethodPost, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	var w wireOverride
	if err := json.Unmarshal(env.Data, &w); err != nil {
		return nil, &ServiceError{StatusCode: http.StatusOK, Message: "malformed override payload"}
	}
	rec := fromWire(w)
	return &rec, nil
}

// RemoveOverride reverts one date to its weekday default.
func (sc *StoreClient) RemoveOverride(ctx context.Context, instituteID uuid.UUID, date string) error {
	if instituteID == uuid.Nil {
		return &ValidationError{Field: "institute_id", Msg: "required"}
	}
	if strings.TrimSpace(date) == "" {
		return &ValidationError{Field: "date", Msg: "required"}
	}

	path := fmt.Sprintf("/api/a/institutes/%s/overrides/%s", instituteID, url.PathEscape(date))
	_, err := sc.do(ctx, "remove override", http.MethodDelete, path, nil, "")
	return err
}

/* =========================
   Institute + today status
   ========================= */

// ResolveInstitute maps a display name to the tenant id.
func (sc *StoreClient) ResolveInstitute(ctx context.Context, name string) (uuid.UUID, error) {
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, &ValidationError{Field: "institute_name", Msg: "required"}
	}

	path := "/api/public/institutes/by-name/" + url.PathEscape(strings.TrimSpace(name))
	env, err := sc.do(ctx, "resolve institute", http.MethodGet, path, nil, "")
	if err != nil {
		return uuid.Nil, err
	}

	var payload struct {
		InstituteID uuid.UUID `json:"institute_id"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.InstituteID == uuid.Nil {
		return uuid.Nil, &ServiceError{StatusCode: http.StatusOK, Message: "malformed institute payload"}
	}
	return payload.InstituteID, nil
}

// FetchTodayStatus asks the server for today's classification. The server
// runs the same classifier over the same store, so this can never disagree
// with a local Classify over FetchOverrides.
func (sc *StoreClient) FetchTodayStatus(ctx context.Context, instituteName string) (*TodayStatus, error) {
	if strings.TrimSpace(instituteName) == "" {
		return nil, &ValidationError{Field: "institute_name", Msg: "required"}
	}

	path := "/api/public/institutes/by-name/" + url.PathEscape(strings.TrimSpace(instituteName)) + "/today-status"
	env, err := sc.do(ctx, "today status", http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Date      string `json:"date"`
		IsHoliday bool   `json:"is_holiday"`
		Reason    string `json:"reason"`
		IsCustom  bool   `json:"is_custom"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, &ServiceError{StatusCode: http.StatusOK, Message: "malformed today-status payload"}
	}
	return &TodayStatus{
		Date:      payload.Date,
		IsHoliday: payload.IsHoliday,
		Reason:    payload.Reason,
		IsCustom:  payload.IsCustom,
	}, nil
}

/* =========================
   Attendance submission
   ========================= */

// SubmitAttendance posts a verified capture for "today". Callers go through
// Gate.Submit, which refuses locally on a blocked or unchecked gate.
func (sc *StoreClient) SubmitAttendance(ctx context.Context, instituteName string, capture []byte) (*MarkResult, error) {
	if strings.TrimSpace(instituteName) == "" {
		return nil, &ValidationError{Field: "institute_name", Msg: "required"}
	}
	if len(capture) == 0 {
		return nil, &ValidationError{Field: "photo", Msg: "required"}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("institute_name", strings.TrimSpace(instituteName)); err != nil {
		return nil, &NetworkError{Op: "submit attendance", Err: err}
	}
	part, err := mw.CreateFormFile("photo", "capture.webp")
	if err != nil {
		return nil, &NetworkError{Op: "submit attendance", Err: err}
	}
	if _, err := part.Write(capture); err != nil {
		return nil, &NetworkError{Op: "submit attendance", Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &NetworkError{Op: "submit attendance", Err: err}
	}

	env, err := sc.do(ctx, "submit attendance", http.MethodPost, "/api/public/attendance/mark", &body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var payload struct {
		Student         string  `json:"student"`
		RollNumber      string  `json:"roll_number"`
		Department      string  `json:"department"`
		MatchConfidence float64 `json:"match_confidence"`
		Status          string  `json:"status"`
		DressCodeOK     bool    `json:"dress_code_compliant"`
	}
	// A duplicate-mark reply carries an attendance record instead; keep the
	// message and whatever fields match.
	_ = json.Unmarshal(env.Data, &payload)

	return &MarkResult{
		Message:         env.Message,
		Student:         payload.Student,
		RollNumber:      payload.RollNumber,
		Department:      payload.Department,
		MatchConfidence: payload.MatchConfidence,
		Status:          payload.Status,
		DressCodeOK:     payload.DressCodeOK,
	}, nil
}

/* =========================
   Classifier bridge
   ========================= */

// ToClassifierOverrides maps fetched records into the shared classifier's
// input type.
func ToClassifierOverrides(recs []OverrideRecord) []classify.Override {
	out := make([]classify.Override, 0, len(recs))
	for i := range recs {
		out = append(out, classify.Override{
			Date:      recs[i].Date,
			IsHoliday: recs[i].IsHoliday,
			Reason:    recs[i].Reason,
		})
	}
	return out
}
