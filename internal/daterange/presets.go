package daterange

import (
	"time"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
)

// Preset names a rolling window ending today.
type Preset string

const (
	Last7Days  Preset = "last7days"
	Last30Days Preset = "last30days"
	Last60Days Preset = "last60days"
	Last90Days Preset = "last90days"
	Last1Year  Preset = "last1year"
)

// DefaultPreset is the window a new dashboard starts with.
const DefaultPreset = Last30Days

type PresetOption struct {
	Value Preset `json:"value"`
	Label string `json:"label"`
	Days  int    `json:"days"`
}

var presetOptions = []PresetOption{
	{Value: Last7Days, Label: "Last 7 days", Days: 7},
	{Value: Last30Days, Label: "Last 30 days", Days: 30},
	{Value: Last60Days, Label: "Last 60 days", Days: 60},
	{Value: Last90Days, Label: "Last 90 days", Days: 90},
	{Value: Last1Year, Label: "Last 1 year", Days: 365},
}

// Presets lists the selectable presets in display order.
func Presets() []PresetOption {
	out := make([]PresetOption, len(presetOptions))
	copy(out, presetOptions)
	return out
}

func ParsePreset(s string) (Preset, error) {
	for _, o := range presetOptions {
		if string(o.Value) == s {
			return o.Value, nil
		}
	}
	return "", errs.NewValidationError("unknown date range preset: " + s)
}

// FromPreset resolves p to {today - N days, today} in now's location.
func FromPreset(p Preset, now time.Time) (Range, error) {
	for _, o := range presetOptions {
		if o.Value == p {
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			return Range{
				Start: today.AddDate(0, 0, -o.Days).Format(DateLayout),
				End:   today.Format(DateLayout),
			}, nil
		}
	}
	return Range{}, errs.NewValidationError("unknown date range preset: " + string(p))
}
