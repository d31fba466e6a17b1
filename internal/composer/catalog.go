package composer

import (
	"fmt"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

const (
	chartPrimary   = "hsl(var(--chart-primary))"
	chartSecondary = "hsl(var(--chart-secondary))"
	chartAccent    = "hsl(var(--chart-accent))"
	chartSuccess   = "hsl(var(--chart-success))"
	chartWarning   = "hsl(var(--chart-warning))"
	chartDanger    = "hsl(var(--chart-danger))"
	chartInfo      = "hsl(var(--chart-info))"
)

// Widget ids of the quality dashboard.
const (
	WidgetDeviationTrends   = "deviation-trends"
	WidgetCAPAStatus        = "capa-status"
	WidgetComplianceMetrics = "compliance-metrics"
	WidgetDeviationCategory = "deviation-category"
	WidgetDeviationSeverity = "deviation-severity"
	WidgetSitePerformance   = "site-performance"
	WidgetAuditFindings     = "audit-findings"
)

// DefaultCatalog returns the widgets of the quality dashboard in display
// order. Each call returns fresh specs.
func DefaultCatalog() []models.ChartSpec {
	return []models.ChartSpec{
		{
			ID:           WidgetDeviationTrends,
			Title:        "Deviation Trends",
			Category:     models.CategoryDeviation,
			Kind:         models.ChartLine,
			Dataset:      models.DatasetDeviations,
			DataKeys:     []string{"total", "critical", "major"},
			DateFiltered: true,
			Colors:       []string{chartPrimary, chartDanger, chartWarning},
		},
		{
			ID:           WidgetCAPAStatus,
			Title:        "CAPA Status Overview",
			Category:     models.CategoryCAPA,
			Kind:         models.ChartArea,
			Dataset:      models.DatasetCAPA,
			DataKeys:     []string{"open", "inProgress", "closed", "overdue"},
			Stacked:      true,
			DateFiltered: true,
			Colors:       []string{chartWarning, chartInfo, chartSuccess, chartDanger},
		},
		{
			ID:           WidgetComplianceMetrics,
			Title:        "Compliance Metrics",
			Category:     models.CategoryCompliance,
			Kind:         models.ChartBar,
			Dataset:      models.DatasetCompliance,
			DataKeys:     []string{"gmp", "fda", "iso"},
			DateFiltered: true,
			Colors:       []string{chartPrimary, chartSecondary, chartAccent},
		},
		{
			ID:       WidgetDeviationCategory,
			Title:    "Deviations by Category",
			Category: models.CategoryDeviation,
			Kind:     models.ChartPie,
			Dataset:  models.DatasetDeviationsByCategory,
			NameKey:  "name",
			ValueKey: "value",
		},
		{
			ID:           WidgetDeviationSeverity,
			Title:        "Deviation vs Critical Correlation",
			Category:     models.CategoryDeviation,
			Kind:         models.ChartScatter,
			Dataset:      models.DatasetDeviations,
			DataKeys:     []string{"total", "critical", "major"},
			DateFiltered: true,
			Colors:       []string{chartDanger},
		},
		{
			ID:         WidgetSitePerformance,
			Title:      "Manufacturing Site Performance",
			Kind:       models.ChartRadar,
			Dataset:    models.DatasetManufacturingSites,
			SubjectKey: "site",
			Axes: []models.RadarAxis{
				{Key: "compliance", Scale: 1},
				{Key: "efficiency", Scale: 1},
				{Key: "deviations", Scale: 0.5, Invert: true},
				{Key: "capa", Scale: 2, Invert: true},
			},
			Colors: []string{chartPrimary, chartSuccess, chartWarning, chartInfo},
		},
		{
			ID:           WidgetAuditFindings,
			Title:        "Audit Findings Summary",
			Category:     models.CategoryAudit,
			Kind:         models.ChartBar,
			Dataset:      models.DatasetAuditFindings,
			DataKeys:     []string{"findings", "critical"},
			XAxisKey:     "audit",
			DateFiltered: true,
			Colors:       []string{chartInfo, chartDanger},
		},
	}
}

// validateCatalog checks ids are unique and every spec names a dataset and
// carries the keys its kind needs.
func validateCatalog(specs []models.ChartSpec) error {
	if len(specs) == 0 {
		return errs.NewValidationError("widget catalog is empty")
	}
	seen := make(map[string]struct{}, len(specs))
	probe := &models.DashboardData{}
	for _, s := range specs {
		if s.ID == "" {
			return errs.NewValidationError("widget id is required")
		}
		if _, dup := seen[s.ID]; dup {
			return errs.NewValidationError(fmt.Sprintf("duplicate widget id %q", s.ID))
		}
		seen[s.ID] = struct{}{}
		if _, ok := probe.Dataset(s.Dataset); !ok {
			return errs.NewValidationError(fmt.Sprintf("widget %q: unknown dataset %q", s.ID, s.Dataset))
		}

		var missing string
		switch s.Kind {
		case models.ChartLine, models.ChartBar, models.ChartArea:
			if len(s.DataKeys) == 0 {
				missing = "dataKeys"
			}
		case models.ChartPie:
			if s.NameKey == "" || s.ValueKey == "" {
				missing = "nameKey and valueKey"
			}
		case models.ChartScatter:
			if len(s.DataKeys) < 2 {
				missing = "x and y dataKeys"
			}
		case models.ChartRadar:
			if s.SubjectKey == "" || len(s.Axes) == 0 {
				missing = "subjectKey and axes"
			}
		default:
			return errs.NewValidationError(fmt.Sprintf("widget %q: unknown chart kind %q", s.ID, s.Kind))
		}
		if missing != "" {
			return errs.NewValidationError(fmt.Sprintf("widget %q: %s required", s.ID, missing))
		}
	}
	return nil
}

func catalogIDs(specs []models.ChartSpec) []string {
	ids := make([]string, len(specs))
	for i, s := range specs {
		ids[i] = s.ID
	}
	return ids
}

// CloneCatalog deep-copies specs so callers can not reach the key, axis
// and color slices of the original.
func CloneCatalog(specs []models.ChartSpec) []models.ChartSpec {
	out := make([]models.ChartSpec, len(specs))
	for i, s := range specs {
		out[i] = cloneSpec(s)
	}
	return out
}

func cloneSpec(s models.ChartSpec) models.ChartSpec {
	s.DataKeys = append([]string(nil), s.DataKeys...)
	s.Axes = append([]models.RadarAxis(nil), s.Axes...)
	s.Colors = append([]string(nil), s.Colors...)
	return s
}
