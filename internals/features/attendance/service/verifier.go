// file: internals/features/attendance/service/verifier.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

/* =========================
   Collaborator contract
   ========================= */

// VerifyResult is the identity-verification outcome for one capture.
type VerifyResult struct {
	Matched            bool
	StudentID          uuid.UUID
	StudentName        string
	RollNumber         string
	Department         string
	Confidence         float64
	DressCodeCompliant bool
	DressCodeDetails   json.RawMessage
}

// Verifier is the external face-match + dress-code collaborator. The
// matching algorithms themselves live on the other side of this interface.
type Verifier interface {
	Verify(ctx context.Context, instituteID uuid.UUID, capture []byte) (*VerifyResult, error)
}

var ErrVerifierUnavailable = errors.New("verification service unavailable")

/* =========================
   HTTP implementation
   ========================= */

type HTTPVerifier struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPVerifier(baseURL, apiKey string) *HTTPVerifier {
	return &HTTPVerifier{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 20 * time.Second},
	}
}

type verifyEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Matched    bool    `json:"matched"`
		StudentID  string  `json:"student_id"`
		Student    string  `json:"student"`
		RollNumber string  `json:"roll_number"`
		Department string  `json:"department"`
		Confidence float64 `json:"confidence"`
		DressCode  struct {
			Compliant bool            `json:"compliant"`
			Details   json.RawMessage `json:"details"`
		} `json:"dress_code"`
	} `json:"data"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, instituteID uuid.UUID, capture []byte) (*VerifyResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("institute_id", instituteID.String()); err != nil {
		return nil, err
	}
	part, err := mw.CreateFormFile("photo", "capture.webp")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(capture); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.BaseURL+"/verify", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if v.APIKey != "" {
		req.Header.Set("X-API-Key", v.APIKey)
	}

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrVerifierUnavailable, resp.StatusCode)
	}

	var env verifyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed response", ErrVerifierUnavailable)
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrVerifierUnavailable, env.Message)
	}

	out := &VerifyResult{
		Matched:            env.Data.Matched,
		StudentName:        env.Data.Student,
		RollNumber:         env.Data.RollNumber,
		Department:         env.Data.Department,
		Confidence:         env.Data.Confidence,
		DressCodeCompliant: env.Data.DressCode.Compliant,
		DressCodeDetails:   env.Data.DressCode.Details,
	}
	if env.Data.StudentID != "" {
		id, err := uuid.Parse(env.Data.StudentID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad student_id in response", ErrVerifierUnavailable)
		}
		out.StudentID = id
	}
	return out, nil
}
