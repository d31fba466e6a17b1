package models

// ChartKind selects the adapter and the chart drawn for a widget.
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartArea    ChartKind = "area"
	ChartPie     ChartKind = "pie"
	ChartScatter ChartKind = "scatter"
	ChartRadar   ChartKind = "radar"
)

// Categorical reports whether records are drawn over a shared category axis.
func (k ChartKind) Categorical() bool {
	return k == ChartLine || k == ChartBar || k == ChartArea
}

// Category tags the semantic domain of a widget; it picks the drill-down
// detail view. The set is closed.
type Category string

const (
	CategoryNone       Category = ""
	CategoryDeviation  Category = "deviation"
	CategoryCAPA       Category = "capa"
	CategoryCompliance Category = "compliance"
	CategoryAudit      Category = "audit"
)

// RadarAxis declares how one metric is normalised onto a radar axis:
// value*Scale, or 100 - value*Scale when Invert is set.
type RadarAxis struct {
	Key    string  `json:"key"`
	Scale  float64 `json:"scale"`
	Invert bool    `json:"invert,omitempty"`
}

// ChartSpec is the declarative description of one widget. It is built once
// when the dashboard is assembled and never changes afterwards.
type ChartSpec struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Category     Category    `json:"category,omitempty"`
	Kind         ChartKind   `json:"kind"`
	Dataset      string      `json:"dataset"`
	DataKeys     []string    `json:"dataKeys,omitempty"`
	XAxisKey     string      `json:"xAxisKey,omitempty"`
	NameKey      string      `json:"nameKey,omitempty"`
	ValueKey     string      `json:"valueKey,omitempty"`
	SubjectKey   string      `json:"subjectKey,omitempty"`
	Axes         []RadarAxis `json:"axes,omitempty"`
	Stacked      bool        `json:"stacked,omitempty"`
	Horizontal   bool        `json:"horizontal,omitempty"`
	DateFiltered bool        `json:"dateFiltered"`
	Colors       []string    `json:"colors,omitempty"`
}
