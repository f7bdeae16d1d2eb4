// file: internals/clients/attendclient/editor.go
package attendclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"facetrack_backend/internals/features/calendar/classify"
)

/* =========================
   States & statuses
   ========================= */

type EditorState int

const (
	StateIdle EditorState = iota
	StateEditing
	StateSubmitting
)

func (s EditorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// SelectedStatus is the admin's (uncommitted) choice for the selected date.
type SelectedStatus int

const (
	StatusUnset SelectedStatus = iota
	StatusWorking
	StatusHoliday
)

var (
	ErrReadOnly      = errors.New("editor: read-only (no admin identity for this institute)")
	ErrNotEditing    = errors.New("editor: no date selected")
	ErrBusy          = errors.New("editor: submit in flight")
	ErrStatusUnset   = errors.New("editor: select working or holiday before applying")
	ErrInvalidStatus = errors.New("editor: invalid status")
)

/* =========================
   Session
   ========================= */

// EditorSession is one admin's selection-and-commit workflow over the
// calendar. Single-threaded and cooperative: methods are not safe for
// concurrent use, matching the one-event-at-a-time surface it models.
type EditorSession struct {
	store       *StoreClient
	instituteID uuid.UUID
	admin       bool

	state     EditorState
	overrides []OverrideRecord

	selectedDate   string // YYYY-MM-DD, empty when Idle
	selectedStatus SelectedStatus
	reason         string

	lastMessage string
}

func NewEditorSession(store *StoreClient, instituteID uuid.UUID, isAdmin bool) *EditorSession {
	return &EditorSession{
		store:       store,
		instituteID: instituteID,
		admin:       isAdmin,
		state:       StateIdle,
	}
}

func (s *EditorSession) State() EditorState      { return s.state }
func (s *EditorSession) SelectedDate() string    { return s.selectedDate }
func (s *EditorSession) Status() SelectedStatus  { return s.selectedStatus }
func (s *EditorSession) Reason() string          { return s.reason }
func (s *EditorSession) LastMessage() string     { return s.lastMessage }
func (s *EditorSession) Overrides() []OverrideRecord {
	out := make([]OverrideRecord, len(s.overrides))
	copy(out, s.overrides)
	return out
}

// Refresh pulls the full override set. A fetch failure degrades the view to
// default-only classification (browsing stays available) and is reported to
// the caller.
func (s *EditorSession) Refresh(ctx context.Context) error {
	recs, err := s.store.FetchOverrides(ctx, s.instituteID)
	if err != nil {
		s.overrides = nil
		return err
	}
	s.overrides = recs
	return nil
}

// ClassifyDate resolves one date against the last fetched set. View-only;
// works in read-only sessions too.
func (s *EditorSession) ClassifyDate(date time.Time) classify.Classification {
	return classify.Classify(date, ToClassifierOverrides(s.overrides))
}

/* =========================
   Idle → Editing
   ========================= */

// Select starts editing a date. Selecting while already editing silently
// discards the unsaved draft (no partial writes); selecting while a submit
// is in flight is refused.
func (s *EditorSession) Select(date time.Time) error {
	if !s.admin {
		return ErrReadOnly
	}
	if s.state == StateSubmitting {
		return ErrBusy
	}

	key := classify.DateKey(date)
	cl := s.ClassifyDate(date)

	s.selectedDate = key
	s.reason = ""
	if cl.IsCustom {
		// initialize the draft from the existing override
		if cl.IsHoliday {
			s.selectedStatus = StatusHoliday
		} else {
			s.selectedStatus = StatusWorking
		}
		for i := range s.overrides {
			if s.overrides[i].Date == key && s.overrides[i].Reason != nil {
				s.reason = *s.overrides[i].Reason
			}
		}
	} else {
		// default-classified date: the admin has to choose explicitly
		s.selectedStatus = StatusUnset
	}

	s.state = StateEditing
	s.lastMessage = ""
	return nil
}

/* =========================
   Editing
   ========================= */

func (s *EditorSession) SetStatus(st SelectedStatus) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	switch st {
	case StatusUnset, StatusWorking, StatusHoliday:
		s.selectedStatus = st
		return nil
	default:
		return ErrInvalidStatus
	}
}

func (s *EditorSession) SetReason(reason string) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.reason = reason
	return nil
}

// Cancel discards the draft. No network call.
func (s *EditorSession) Cancel() {
	if s.state == StateSubmitting {
		return
	}
	s.clearSelection()
}

func (s *EditorSession) clearSelection() {
	s.state = StateIdle
	s.selectedDate = ""
	s.selectedStatus = StatusUnset
	s.reason = ""
}

/* =========================
   Editing → Submitting → Idle
   ========================= */

// Apply commits the draft: applyOverride, then — only after it completed —
// a full refetch. On failure the session returns to Editing with the draft
// intact so the admin can retry without re-entering anything.
func (s *EditorSession) Apply(ctx context.Context) (*OverrideRecord, error) {
	if !s.admin {
		return nil, ErrReadOnly
	}
	if s.state != StateEditing {
		return nil, ErrNotEditing
	}
	if s.selectedStatus == StatusUnset {
		return nil, ErrStatusUnset
	}

	s.state = StateSubmitting

	isHoliday := s.selectedStatus == StatusHoliday
	var reason *string
	if s.reason != "" {
		r := s.reason
		reason = &r
	}

	rec, err := s.store.ApplyOverride(ctx, s.instituteID, s.selectedDate, isHoliday, reason)
	if err != nil {
		// selection preserved for retry
		s.state = StateEditing
		return nil, err
	}

	// commit-then-refresh, never concurrently
	refreshErr := s.Refresh(ctx)

	s.clearSelection()
	s.lastMessage = fmt.Sprintf("Saved: %s is now a %s", rec.Date, statusWord(rec.IsHoliday))
	if refreshErr != nil {
		return rec, refreshErr
	}
	return rec, nil
}

func statusWord(isHoliday bool) string {
	if isHoliday {
		return "holiday"
	}
	return "working day"
}
