package attendclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"facetrack_backend/internals/features/calendar/classify"
)

// fakeCalendarAPI mimics the calendar backend's envelope and routes closely
// enough for the SDK: one institute, an in-memory override set, togglable
// failures. Routing is a hand-rolled switch; the by-name and by-id institute
// paths overlap too much for ServeMux patterns.
type fakeCalendarAPI struct {
	mu sync.Mutex

	instituteID   uuid.UUID
	instituteName string

	overrides map[string]wireOverride // keyed by date

	failFetch     bool
	failApplyOnce bool
	failMarkOnce  bool
	applyCalls    int
	markCalls     int

	lastAuth string

	srv *httptest.Server
}

func newFakeCalendarAPI(name string) *fakeCalendarAPI {
	f := &fakeCalendarAPI{
		instituteID:   uuid.New(),
		instituteName: name,
		overrides:     map[string]wireOverride{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.route))
	return f
}

func (f *fakeCalendarAPI) Close()      { f.srv.Close() }
func (f *fakeCalendarAPI) URL() string { return f.srv.URL }

func (f *fakeCalendarAPI) route(w http.ResponseWriter, r *http.Request) {
	// r.URL.Path arrives percent-decoded
	seg := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.Method == http.MethodGet && len(seg) == 5 &&
		seg[0] == "api" && seg[1] == "public" && seg[2] == "institutes" && seg[3] == "by-name":
		f.handleResolve(w, seg[4])

	case r.Method == http.MethodGet && len(seg) == 6 &&
		seg[0] == "api" && seg[1] == "public" && seg[2] == "institutes" && seg[3] == "by-name" && seg[5] == "today-status":
		f.handleTodayStatus(w, seg[4])

	case r.Method == http.MethodGet && len(seg) == 5 &&
		seg[0] == "api" && seg[1] == "public" && seg[2] == "institutes" && seg[4] == "overrides":
		f.handleList(w, r)

	case r.Method == http.MethodPost && len(seg) == 5 &&
		seg[0] == "api" && seg[1] == "a" && seg[2] == "institutes" && seg[4] == "overrides":
		f.handleApply(w, r)

	case r.Method == http.MethodDelete && len(seg) == 6 &&
		seg[0] == "api" && seg[1] == "a" && seg[2] == "institutes" && seg[4] == "overrides":
		f.handleRemove(w, r, seg[5])

	case r.Method == http.MethodPost && len(seg) == 4 &&
		seg[0] == "api" && seg[1] == "public" && seg[2] == "attendance" && seg[3] == "mark":
		f.handleMark(w, r)

	default:
		f.writeErr(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	}
}

func (f *fakeCalendarAPI) handleResolve(w http.ResponseWriter, name string) {
	if name != f.instituteName {
		f.writeErr(w, http.StatusNotFound, "institute not found")
		return
	}
	f.writeOK(w, http.StatusOK, "OK", map[string]any{
		"institute_id":   f.instituteID,
		"institute_name": f.instituteName,
	})
}

func (f *fakeCalendarAPI) handleTodayStatus(w http.ResponseWriter, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name != f.instituteName {
		f.writeErr(w, http.StatusNotFound, "institute not found")
		return
	}
	today := time.Now()
	ovs := make([]classify.Override, 0, len(f.overrides))
	for _, o := range f.overrides {
		ovs = append(ovs, classify.Override{Date: o.Date, IsHoliday: o.IsHoliday, Reason: o.Reason})
	}
	cl := classify.Classify(today, ovs)
	f.writeOK(w, http.StatusOK, "OK", map[string]any{
		"date":       classify.DateKey(today),
		"is_holiday": cl.IsHoliday,
		"reason":     cl.Reason,
		"is_custom":  cl.IsCustom,
	})
}

// handleList replays the real List semantics: optional date window, date ASC
// ordering, limit capped at 200, offset + total pagination.
func (f *fakeCalendarAPI) handleList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFetch {
		f.writeErr(w, http.StatusInternalServerError, "db down")
		return
	}

	q := r.URL.Query()
	limit := 100
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			f.writeErr(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	offset := 0
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			f.writeErr(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}
	from, to := q.Get("date_from"), q.Get("date_to")

	rows := make([]wireOverride, 0, len(f.overrides))
	for _, o := range f.overrides {
		if from != "" && o.Date < from {
			continue
		}
		if to != "" && o.Date > to {
			continue
		}
		rows = append(rows, o)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	total := len(rows)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := rows[offset:end]

	f.writeOK(w, http.StatusOK, "OK", map[string]any{
		"data": page,
		"pagination": map[string]int{
			"limit": limit, "offset": offset, "total": total,
		},
	})
}

func (f *fakeCalendarAPI) handleApply(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	f.lastAuth = r.Header.Get("Authorization")
	if f.failApplyOnce {
		f.failApplyOnce = false
		f.writeErr(w, http.StatusInternalServerError, "db down")
		return
	}
	var req struct {
		Date      string  `json:"date_override_date"`
		IsHoliday bool    `json:"date_override_is_holiday"`
		Reason    *string `json:"date_override_reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Date == "" {
		f.writeErr(w, http.StatusBadRequest, "bad request")
		return
	}
	row, existed := f.overrides[req.Date]
	if !existed {
		row = wireOverride{ID: uuid.New(), InstituteID: f.instituteID, Date: req.Date}
	}
	row.IsHoliday = req.IsHoliday
	if req.Reason != nil {
		row.Reason = req.Reason
	}
	f.overrides[req.Date] = row
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	f.writeOK(w, status, "saved", row)
}

func (f *fakeCalendarAPI) handleRemove(w http.ResponseWriter, r *http.Request, date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAuth = r.Header.Get("Authorization")
	if _, ok := f.overrides[date]; !ok {
		f.writeErr(w, http.StatusNotFound, "date override not found")
		return
	}
	delete(f.overrides, date)
	f.writeOK(w, http.StatusOK, "deleted", map[string]string{"date_override_date": date})
}

func (f *fakeCalendarAPI) handleMark(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	if f.failMarkOnce {
		f.failMarkOnce = false
		f.writeErr(w, http.StatusInternalServerError, "db down")
		return
	}
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		f.writeErr(w, http.StatusBadRequest, "bad multipart")
		return
	}
	if r.FormValue("institute_name") != f.instituteName {
		f.writeErr(w, http.StatusNotFound, "institute not found")
		return
	}
	if _, _, err := r.FormFile("photo"); err != nil {
		f.writeErr(w, http.StatusBadRequest, "photo is required")
		return
	}
	f.writeOK(w, http.StatusCreated, "Attendance marked successfully for Asha!", map[string]any{
		"student":              "Asha",
		"roll_number":          "42",
		"department":           "CSE",
		"match_confidence":     0.97,
		"status":               "Present",
		"dress_code_compliant": true,
	})
}

func (f *fakeCalendarAPI) setOverride(date string, isHoliday bool, reason *string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[date] = wireOverride{
		ID:          uuid.New(),
		InstituteID: f.instituteID,
		Date:        date,
		IsHoliday:   isHoliday,
		Reason:      reason,
	}
}

func (f *fakeCalendarAPI) writeOK(w http.ResponseWriter, status int, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": msg,
		"data":    data,
	})
}

func (f *fakeCalendarAPI) writeErr(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": msg,
	})
}
