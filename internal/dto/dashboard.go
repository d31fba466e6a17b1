package dto

import (
	"github.com/GregMSThompson/quality-dashboard/internal/composer"
	"github.com/GregMSThompson/quality-dashboard/internal/drilldown"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

// CreateDashboardRequest opens a dashboard session. Both fields are optional:
// Range wins over Preset, and with neither the default preset applies.
type CreateDashboardRequest struct {
	Preset string            `json:"preset,omitempty"`
	Range  *models.DateRange `json:"range,omitempty"`
}

type DashboardResponse struct {
	ID     string          `json:"id"`
	Status composer.Status `json:"status"`
}

// RangeRequest sets a date range either explicitly or from a preset.
type RangeRequest struct {
	Preset    string `json:"preset,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// RangeChangeResponse lists the widgets whose view changed and must be
// redrawn.
type RangeChangeResponse struct {
	Affected []string        `json:"affected"`
	Status   composer.Status `json:"status"`
}

type LayoutChangeRequest struct {
	Placements []models.WidgetPlacement `json:"placements"`
}

type LayoutChangeResponse struct {
	Dropped []string       `json:"dropped"`
	Layouts models.Layouts `json:"layouts"`
}

// ClickRequest carries the clicked data point; a missing point opens the
// aggregate view.
type ClickRequest struct {
	Point models.Record `json:"point,omitempty"`
}

type DrillDownResponse struct {
	models.DrillDownContext
	Summary *drilldown.Summary `json:"summary,omitempty"`
}

// FileResponse is a generated download.
type FileResponse struct {
	Filename    string
	ContentType string
	Body        []byte
}
