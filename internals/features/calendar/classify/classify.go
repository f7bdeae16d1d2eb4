// file: internals/features/calendar/classify/classify.go
package classify

import "time"

/* =====================
   Input / output types
   ===================== */

// Override is the classifier's view of one date override. Both the GORM
// model and the client SDK map into it, so the same resolution runs on
// either side of the wire.
type Override struct {
	Date      string // YYYY-MM-DD
	IsHoliday bool
	Reason    *string
}

// Classification is the resolved answer for one date. Derived, never
// persisted.
type Classification struct {
	IsHoliday bool   `json:"is_holiday"`
	Reason    string `json:"reason,omitempty"`
	IsCustom  bool   `json:"is_custom"`
}

// Tag is the display bucket a calendar tile falls into. Exactly one per
// date, derivable from the Classification alone.
type Tag string

const (
	TagWeekend       Tag = "weekend"        // default holiday (Sat/Sun)
	TagHolidayCustom Tag = "holiday"        // admin marked a holiday
	TagWorking       Tag = "working"        // plain weekday
	TagWorkingCustom Tag = "custom_working" // admin converted a weekend/holiday
)

const dateLayout = "2006-01-02"

// DateKey renders t in the YYYY-MM-DD form overrides are keyed by.
func DateKey(t time.Time) string { return t.Format(dateLayout) }

/* =====================
   Resolution
   ===================== */

// Classify resolves one date against the override set of a single
// institute. Total over any date and any set (including empty): an explicit
// override always wins over the weekday default, in both directions.
func Classify(date time.Time, overrides []Override) Classification {
	wd := date.Weekday()
	isWeekendDefault := wd == time.Saturday || wd == time.Sunday

	key := DateKey(date)
	for i := range overrides {
		if overrides[i].Date != key {
			continue
		}
		reason := ""
		if overrides[i].Reason != nil {
			reason = *overrides[i].Reason
		}
		if reason == "" {
			if isWeekendDefault {
				reason = "Weekend"
			} else {
				reason = "Holiday"
			}
		}
		return Classification{
			IsHoliday: overrides[i].IsHoliday,
			Reason:    reason,
			IsCustom:  true,
		}
	}

	if isWeekendDefault {
		reason := "Saturday"
		if wd == time.Sunday {
			reason = "Sunday"
		}
		return Classification{IsHoliday: true, Reason: reason, IsCustom: false}
	}

	return Classification{IsHoliday: false, IsCustom: false}
}

// Tag maps the classification to its display bucket.
func (cl Classification) Tag() Tag {
	if cl.IsCustom {
		if cl.IsHoliday {
			return TagHolidayCustom
		}
		return TagWorkingCustom
	}
	if cl.IsHoliday {
		return TagWeekend
	}
	return TagWorking
}
