// file: internals/clients/attendclient/gate.go
package attendclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"facetrack_backend/internals/features/calendar/classify"
)

/* =========================
   States & decisions
   ========================= */

type GateState int

const (
	GateUnchecked GateState = iota
	GateOpen
	GateBlocked
)

func (s GateState) String() string {
	switch s {
	case GateOpen:
		return "open"
	case GateBlocked:
		return "blocked"
	default:
		return "unchecked"
	}
}

// GateDecision is ephemeral: recomputed on every check, never carried past
// a single submission or past an institute change.
type GateDecision struct {
	Permitted bool
	Reason    string // holiday reason when blocked, empty when open
	Date      string // YYYY-MM-DD the decision is for
}

var (
	ErrGateUnchecked = errors.New("gate: run Check before submitting")
	ErrGateStale     = errors.New("gate: decision already used; re-check before submitting")
)

// BlockedError reports a refused submission with the holiday reason.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("gate: today is a holiday (%s); submission refused", e.Reason)
}

/* =========================
   Gate
   ========================= */

// Gate decides, immediately before a capture is submitted, whether today is
// a working day for the institute. Every Check is a fresh fetch + the shared
// classifier — no caching, because overrides can change within the day and
// the gate is a safety check, not a display.
type Gate struct {
	store         *StoreClient
	instituteName string

	state    GateState
	decision *GateDecision
	consumed bool

	// Now is swappable so "today" can be pinned in tests.
	Now func() time.Time
}

func NewGate(store *StoreClient, instituteName string) *Gate {
	return &Gate{
		store:         store,
		instituteName: strings.TrimSpace(instituteName),
		state:         GateUnchecked,
	}
}

func (g *Gate) State() GateState        { return g.state }
func (g *Gate) Decision() *GateDecision { return g.decision }
func (g *Gate) InstituteName() string   { return g.instituteName }

func (g *Gate) today() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// SetInstitute switches tenants and invalidates any prior decision:
// different institute, different override set.
func (g *Gate) SetInstitute(name string) {
	name = strings.TrimSpace(name)
	if name == g.instituteName {
		return
	}
	g.instituteName = name
	g.reset()
}

func (g *Gate) reset() {
	g.state = GateUnchecked
	g.decision = nil
	g.consumed = false
}

// Check resolves the institute, fetches today's live override (a single-day
// window, so an institute's archive of past overrides can never push today's
// row out of a page) and classifies. Any fetch failure leaves the gate NOT
// open: the error is surfaced and the caller must retry the check before
// submitting. Fail closed.
func (g *Gate) Check(ctx context.Context) (*GateDecision, error) {
	if g.instituteName == "" {
		return nil, &ValidationError{Field: "institute_name", Msg: "required"}
	}

	g.reset()

	instituteID, err := g.store.ResolveInstitute(ctx, g.instituteName)
	if err != nil {
		return nil, err
	}

	today := g.today()
	key := classify.DateKey(today)

	recs, err := g.store.FetchOverridesRange(ctx, instituteID, key, key)
	if err != nil {
		// NOT "no overrides": an unknown set blocks the gate
		return nil, err
	}

	cl := classify.Classify(today, ToClassifierOverrides(recs))

	d := &GateDecision{
		Permitted: !cl.IsHoliday,
		Date:      key,
	}
	if cl.IsHoliday {
		d.Reason = cl.Reason
		g.state = GateBlocked
	} else {
		g.state = GateOpen
	}
	g.decision = d
	g.consumed = false
	return d, nil
}

// Submit sends the capture, but only through an open, unconsumed gate.
// A blocked gate refuses locally — it never leans on the remote verifier to
// reject. The first Submit consumes the decision whether or not it succeeds
// downstream; the next submission needs a fresh Check.
func (g *Gate) Submit(ctx context.Context, capture []byte) (*MarkResult, error) {
	switch g.state {
	case GateUnchecked:
		return nil, ErrGateUnchecked
	case GateBlocked:
		reason := ""
		if g.decision != nil {
			reason = g.decision.Reason
		}
		return nil, &BlockedError{Reason: reason}
	}
	if g.consumed {
		return nil, ErrGateStale
	}

	// one submission per check, even if it fails downstream
	g.consumed = true
	return g.store.SubmitAttendance(ctx, g.instituteName, capture)
}
