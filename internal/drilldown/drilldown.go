// Package drilldown resolves a click on a chart to the detail view of the
// records behind it.
package drilldown

import (
	"fmt"
	"time"

	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

// LongDate is the layout of dates shown in drill-down titles.
const LongDate = "January 2, 2006"

// variant is the fixed behavior of one drill-down category.
type variant struct {
	prefix  string
	records func(*models.DashboardData) []models.Record
	label   func(point models.Record, now time.Time) string
}

var variants = map[models.Category]variant{
	models.CategoryDeviation: {
		prefix:  "Deviation Details",
		records: func(d *models.DashboardData) []models.Record { return d.Deviations },
		label:   func(p models.Record, _ time.Time) string { return firstString(p, "Category", "name", "category") },
	},
	models.CategoryCAPA: {
		prefix:  "CAPA Analysis",
		records: func(d *models.DashboardData) []models.Record { return d.CAPA },
		label:   longDateLabel,
	},
	models.CategoryCompliance: {
		prefix:  "Compliance Metrics",
		records: func(d *models.DashboardData) []models.Record { return d.Compliance },
		label:   longDateLabel,
	},
	models.CategoryAudit: {
		prefix:  "Audit Findings",
		records: func(d *models.DashboardData) []models.Record { return d.AuditFindings },
		label:   func(p models.Record, _ time.Time) string { return firstString(p, "Details", "audit") },
	},
}

// ParseCategory accepts only the four drill-down categories.
func ParseCategory(s string) (models.Category, error) {
	c := models.Category(s)
	if _, ok := variants[c]; !ok {
		return "", errs.NewValidationError(fmt.Sprintf("unknown drill-down category %q", s))
	}
	return c, nil
}

// Categories lists the supported categories.
func Categories() []models.Category {
	return []models.Category{
		models.CategoryDeviation,
		models.CategoryCAPA,
		models.CategoryCompliance,
		models.CategoryAudit,
	}
}

// Resolve builds the detail view for a click. A nil point means the widget
// body was clicked rather than a series element: the view opens on the
// category's full dataset with no selected record.
func Resolve(category models.Category, point models.Record, data *models.DashboardData, now time.Time) (models.DrillDownContext, error) {
	v, ok := variants[category]
	if !ok {
		return models.DrillDownContext{}, errs.NewValidationError(fmt.Sprintf("unknown drill-down category %q", category))
	}
	var records []models.Record
	if data != nil {
		records = models.CloneRecords(v.records(data))
	} else {
		records = []models.Record{}
	}
	var selected models.Record
	if len(point) > 0 {
		selected = point.Clone()
	}
	return models.DrillDownContext{
		IsOpen:         true,
		Title:          v.prefix + " - " + v.label(selected, now),
		Category:       string(category),
		Records:        records,
		SelectedRecord: selected,
	}, nil
}

// firstString returns the first non-empty string among keys, or fallback.
func firstString(p models.Record, fallback string, keys ...string) string {
	for _, k := range keys {
		if s, ok := p.String(k); ok && s != "" {
			return s
		}
	}
	return fallback
}

// longDateLabel formats the point's date, falling back to now when the
// point has no usable date.
func longDateLabel(p models.Record, now time.Time) string {
	if raw, ok := p.Date(); ok {
		if d, err := daterange.ParseDay(raw); err == nil {
			return d.Format(LongDate)
		}
	}
	return now.Format(LongDate)
}
