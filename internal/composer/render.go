package composer

import (
	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/export"
	"github.com/GregMSThompson/quality-dashboard/internal/layout"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/internal/series"
	"github.com/GregMSThompson/quality-dashboard/pkg/helpers"
)

// WidgetView is everything a client needs to draw one widget. Exactly one of
// the series fields is set, matching Kind.
type WidgetView struct {
	ID         string                                       `json:"id"`
	Title      string                                       `json:"title"`
	Kind       models.ChartKind                             `json:"kind"`
	Category   models.Category                              `json:"category,omitempty"`
	Clickable  bool                                         `json:"clickable"`
	Range      *models.DateRange                            `json:"range,omitempty"`
	LocalRange bool                                         `json:"localRange"`
	Stacked    bool                                         `json:"stacked,omitempty"`
	Horizontal bool                                         `json:"horizontal,omitempty"`
	Colors     []string                                     `json:"colors"`
	Placements map[models.Breakpoint]models.WidgetPlacement `json:"placements"`

	Categorical *series.CategoricalSeries `json:"categorical,omitempty"`
	Pie         []series.PieSlice         `json:"pie,omitempty"`
	Scatter     []series.ScatterPoint     `json:"scatter,omitempty"`
	Radar       []series.RadarPoint       `json:"radar,omitempty"`
	RadarKeys   []string                  `json:"radarKeys,omitempty"`
}

// Render draws every widget in catalog order.
func (c *Composer) Render() ([]WidgetView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	out := make([]WidgetView, len(c.catalog))
	for i, s := range c.catalog {
		out[i] = c.render(s)
	}
	return out, nil
}

func (c *Composer) RenderWidget(id string) (WidgetView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireReady(); err != nil {
		return WidgetView{}, err
	}
	s, err := c.spec(id)
	if err != nil {
		return WidgetView{}, err
	}
	return c.render(s), nil
}

func (c *Composer) colorsFor(s models.ChartSpec) []string {
	if len(s.Colors) > 0 {
		return s.Colors
	}
	return c.palette
}

func (c *Composer) render(s models.ChartSpec) WidgetView {
	records, r := c.visibleRecords(s)
	_, local := c.local[s.ID]
	v := WidgetView{
		ID:         s.ID,
		Title:      s.Title,
		Kind:       s.Kind,
		Category:   s.Category,
		Clickable:  s.Category != models.CategoryNone,
		LocalRange: local,
		Stacked:    s.Stacked,
		Horizontal: s.Horizontal,
		Placements: make(map[models.Breakpoint]models.WidgetPlacement),
	}
	if r != nil {
		v.Range = helpers.Ptr(r.Model())
	}
	for _, b := range layout.Breakpoints() {
		if p, ok := c.layout.Placement(b.Name, s.ID); ok {
			v.Placements[b.Name] = p
		}
	}

	palette := c.colorsFor(s)
	switch s.Kind {
	case models.ChartLine, models.ChartBar, models.ChartArea:
		cs := series.Categorical(records, s.DataKeys, s.XAxisKey, palette)
		v.Categorical = &cs
		v.Colors = cs.Colors
	case models.ChartPie:
		v.Pie = series.Pie(records, s.NameKey, s.ValueKey, palette)
		v.Colors = make([]string, len(v.Pie))
		for i, sl := range v.Pie {
			v.Colors[i] = sl.Color
		}
	case models.ChartScatter:
		v.Scatter = series.Scatter(records, scatterRoles(s))
		v.Colors = series.AssignColors(1, palette)
	case models.ChartRadar:
		v.Radar = series.Radar(records, s.SubjectKey, s.Axes)
		v.RadarKeys = series.AxisKeys(s.Axes)
		v.Colors = series.AssignColors(len(s.Axes), palette)
	}
	return v
}

func scatterRoles(s models.ChartSpec) series.ScatterRoles {
	var roles series.ScatterRoles
	if len(s.DataKeys) > 0 {
		roles.X = s.DataKeys[0]
	}
	if len(s.DataKeys) > 1 {
		roles.Y = s.DataKeys[1]
	}
	if len(s.DataKeys) > 2 {
		roles.Z = s.DataKeys[2]
	}
	return roles
}

// WidgetTable returns the rows a widget currently shows, for export and
// printing. Columns lead with the widget's axis and data keys.
func (c *Composer) WidgetTable(id string) (export.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireReady(); err != nil {
		return export.Table{}, err
	}
	s, err := c.spec(id)
	if err != nil {
		return export.Table{}, err
	}
	return c.table(s), nil
}

// Tables returns the table of every widget in catalog order.
func (c *Composer) Tables() ([]export.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	out := make([]export.Table, len(c.catalog))
	for i, s := range c.catalog {
		out[i] = c.table(s)
	}
	return out, nil
}

func (c *Composer) table(s models.ChartSpec) export.Table {
	rows, r := c.visibleRecords(s)
	preferred := []string{s.XAxisKey, s.SubjectKey, s.NameKey, models.DateField, s.ValueKey}
	preferred = append(preferred, s.DataKeys...)
	preferred = append(preferred, series.AxisKeys(s.Axes)...)
	tbl := export.Table{
		Title:   s.Title,
		Columns: export.Columns(rows, preferred...),
		Rows:    rows,
	}
	if r != nil {
		tbl.Range = helpers.Ptr(r.Model())
	}
	return tbl
}

// KPIs are the headline figures above the widget grid.
type KPIs struct {
	Range                models.DateRange `json:"range"`
	TotalDeviations      float64          `json:"totalDeviations"`
	OpenCAPAs            float64          `json:"openCapas"`
	AverageCompliance    float64          `json:"averageCompliance"`
	AverageEffectiveness float64          `json:"averageEffectiveness"`
}

// KPIs computes the headline figures over the global range. Averages of an
// empty period are 0.
func (c *Composer) KPIs() (KPIs, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireReady(); err != nil {
		return KPIs{}, err
	}

	k := KPIs{Range: c.global.Model()}
	for _, r := range daterange.Filter(c.data.Deviations, c.global) {
		k.TotalDeviations += num(r, "total")
	}

	capa := daterange.Filter(c.data.CAPA, c.global)
	var effectiveness float64
	for _, r := range capa {
		k.OpenCAPAs += num(r, "open") + num(r, "overdue")
		effectiveness += num(r, "effectiveness")
	}
	if len(capa) > 0 {
		k.AverageEffectiveness = effectiveness / float64(len(capa))
	}

	compliance := daterange.Filter(c.data.Compliance, c.global)
	var score float64
	for _, r := range compliance {
		score += (num(r, "gmp") + num(r, "fda") + num(r, "iso")) / 3
	}
	if len(compliance) > 0 {
		k.AverageCompliance = score / float64(len(compliance))
	}
	return k, nil
}

func num(r models.Record, key string) float64 {
	v, _ := r.Float(key)
	return v
}
