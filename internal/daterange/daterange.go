// Package daterange holds the date range applied to dashboard widgets and
// the inclusive calendar-date filter over time series records.
package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

const DateLayout = "2006-01-02"

// accepted record date layouts, tried in order
var recordLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Range is an inclusive [Start, End] pair of calendar dates.
type Range struct {
	Start string
	End   string
}

// New validates both bounds and rejects ranges whose start is after its end.
func New(start, end string) (Range, error) {
	s, err := parseDay(start)
	if err != nil {
		return Range{}, errs.NewValidationError(fmt.Sprintf("invalid startDate %q", start))
	}
	e, err := parseDay(end)
	if err != nil {
		return Range{}, errs.NewValidationError(fmt.Sprintf("invalid endDate %q", end))
	}
	if s.After(e) {
		return Range{}, errs.NewValidationError(fmt.Sprintf("startDate %s is after endDate %s", start, end))
	}
	return Range{Start: s.Format(DateLayout), End: e.Format(DateLayout)}, nil
}

// FromModel validates a wire-level date range.
func FromModel(dr models.DateRange) (Range, error) {
	return New(dr.StartDate, dr.EndDate)
}

func (r Range) Model() models.DateRange {
	return models.DateRange{StartDate: r.Start, EndDate: r.End}
}

func (r Range) String() string {
	return r.Start + ".." + r.End
}

// Contains reports whether date falls within the range. Unparsable dates
// and ranges are never contained.
func (r Range) Contains(date string) bool {
	d, err := parseDay(date)
	if err != nil {
		return false
	}
	s, err := parseDay(r.Start)
	if err != nil {
		return false
	}
	e, err := parseDay(r.End)
	if err != nil {
		return false
	}
	return !d.Before(s) && !d.After(e)
}

// Filter returns the records whose date falls within r. Records with a
// missing or malformed date are left out. The result is a fresh slice of
// copied records; the input is not modified.
func Filter(records []models.Record, r Range) []models.Record {
	out := make([]models.Record, 0, len(records))
	s, errS := parseDay(r.Start)
	e, errE := parseDay(r.End)
	if errS != nil || errE != nil {
		return out
	}
	for _, rec := range records {
		raw, ok := rec.Date()
		if !ok {
			continue
		}
		d, err := parseDay(raw)
		if err != nil {
			continue
		}
		if d.Before(s) || d.After(e) {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out
}

// parseDay parses a date or timestamp and truncates it to its calendar day
// as written, ignoring time of day and offset.
func parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range recordLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseDay exposes calendar-date parsing for callers that format dates.
func ParseDay(raw string) (time.Time, error) {
	return parseDay(raw)
}
