package drilldown

import (
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/internal/series"
)

// Metric is one headline figure of a detail view.
type Metric struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Summary holds the figures shown for the selected record of a detail view.
type Summary struct {
	Metrics   []Metric          `json:"metrics"`
	Status    string            `json:"status,omitempty"`
	Breakdown []series.PieSlice `json:"breakdown,omitempty"`
	// Trend lists the metric keys drawn over the category's records.
	Trend []string `json:"trend,omitempty"`
}

type metricDef struct {
	key, label string
}

var summaryMetrics = map[models.Category][]metricDef{
	models.CategoryDeviation: {
		{"critical", "Critical"},
		{"major", "Major"},
		{"minor", "Minor"},
	},
	models.CategoryCAPA: {
		{"open", "Open"},
		{"inProgress", "In Progress"},
		{"closed", "Closed"},
		{"overdue", "Overdue"},
		{"effectiveness", "Effectiveness"},
	},
	models.CategoryCompliance: {
		{"gmp", "GMP"},
		{"fda", "FDA"},
		{"iso", "ISO"},
		{"internal", "Internal"},
		{"training", "Training"},
	},
	models.CategoryAudit: {
		{"critical", "Critical Findings"},
		{"observations", "Observations"},
		{"findings", "Total Findings"},
	},
}

// Summarize computes the detail figures of a drill-down view. Missing
// values count as 0. An aggregate view (no selected record) has metrics
// but no breakdown.
func Summarize(ctx models.DrillDownContext) Summary {
	category := models.Category(ctx.Category)
	defs := summaryMetrics[category]
	s := Summary{Metrics: make([]Metric, len(defs))}
	for i, d := range defs {
		v, _ := ctx.SelectedRecord.Float(d.key)
		s.Metrics[i] = Metric{Key: d.key, Label: d.label, Value: v}
	}

	switch category {
	case models.CategoryDeviation:
		if ctx.SelectedRecord != nil {
			parts := make([]models.Record, len(s.Metrics))
			for i, m := range s.Metrics {
				parts[i] = models.Record{"name": m.Label, "value": m.Value}
			}
			s.Breakdown = series.Pie(parts, "name", "value", []string{
				"hsl(var(--chart-danger))",
				"hsl(var(--chart-warning))",
				"hsl(var(--chart-success))",
			})
		}
	case models.CategoryCompliance:
		s.Trend = []string{"gmp", "fda", "iso", "internal", "training"}
	case models.CategoryAudit:
		s.Status, _ = ctx.SelectedRecord.String("status")
	}
	return s
}
