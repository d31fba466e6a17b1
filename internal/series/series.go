// Package series reshapes dashboard records into the per-kind series the
// chart renderer draws. Every adapter allocates its output and leaves its
// input untouched.
package series

import (
	"strings"

	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

// DefaultPalette is cycled through when a widget declares no colors.
var DefaultPalette = []string{
	"hsl(var(--chart-primary))",
	"hsl(var(--chart-secondary))",
	"hsl(var(--chart-accent))",
	"hsl(var(--chart-success))",
	"hsl(var(--chart-warning))",
	"hsl(var(--chart-danger))",
	"hsl(var(--chart-info))",
	"hsl(var(--chart-purple))",
}

// AssignColors gives the i-th of n series palette[i % len(palette)].
func AssignColors(n int, palette []string) []string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	out := make([]string, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}

// CategoricalSeries feeds line, bar and area charts: the records are drawn
// as-is over the x axis, one series per key.
type CategoricalSeries struct {
	Records  []models.Record `json:"records"`
	Keys     []string        `json:"keys"`
	Colors   []string        `json:"colors"`
	XAxisKey string          `json:"xAxisKey"`
}

func Categorical(records []models.Record, keys []string, xAxisKey string, palette []string) CategoricalSeries {
	if xAxisKey == "" {
		xAxisKey = models.DateField
	}
	return CategoricalSeries{
		Records:  models.CloneRecords(records),
		Keys:     append([]string(nil), keys...),
		Colors:   AssignColors(len(keys), palette),
		XAxisKey: xAxisKey,
	}
}

// PieSlice is one slice with its share of the whole, in percent.
type PieSlice struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

const percentageKey = "percentage"

// Pie computes value/sum*100 for each slice unless the record already
// carries a percentage. A zero sum gives every slice 0.
func Pie(records []models.Record, nameKey, valueKey string, palette []string) []PieSlice {
	if nameKey == "" {
		nameKey = "name"
	}
	if valueKey == "" {
		valueKey = "value"
	}
	colors := AssignColors(len(records), palette)

	var sum float64
	for _, r := range records {
		v, _ := r.Float(valueKey)
		sum += v
	}

	out := make([]PieSlice, len(records))
	for i, r := range records {
		name, _ := r.String(nameKey)
		v, _ := r.Float(valueKey)
		pct, ok := r.Float(percentageKey)
		if !ok {
			pct = 0
			if sum != 0 {
				pct = v / sum * 100
			}
		}
		out[i] = PieSlice{Name: name, Value: v, Percentage: pct, Color: colors[i]}
	}
	return out
}

// ScatterRoles names the fields that play the x, y and optional z roles.
type ScatterRoles struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z,omitempty"`
}

type ScatterPoint struct {
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Z      *float64      `json:"z,omitempty"`
	Record models.Record `json:"record"`
}

// Scatter assigns roles by field name. Records lacking a numeric x or y
// cannot be placed and are skipped.
func Scatter(records []models.Record, roles ScatterRoles) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(records))
	for _, r := range records {
		x, okX := r.Float(roles.X)
		y, okY := r.Float(roles.Y)
		if !okX || !okY {
			continue
		}
		p := ScatterPoint{X: x, Y: y, Record: r.Clone()}
		if roles.Z != "" {
			if z, ok := r.Float(roles.Z); ok {
				p.Z = &z
			}
		}
		out = append(out, p)
	}
	return out
}

// RadarPoint is one entity with its normalised axis values.
type RadarPoint struct {
	Subject string             `json:"subject"`
	Values  map[string]float64 `json:"values"`
}

// Radar normalises each axis as declared by the caller; nothing is inferred.
// Subjects are shortened at the first " - ".
func Radar(records []models.Record, subjectKey string, axes []models.RadarAxis) []RadarPoint {
	out := make([]RadarPoint, 0, len(records))
	for _, r := range records {
		subject, _ := r.String(subjectKey)
		if i := strings.Index(subject, " - "); i >= 0 {
			subject = subject[:i]
		}
		values := make(map[string]float64, len(axes))
		for _, a := range axes {
			v, ok := r.Float(a.Key)
			if !ok {
				continue
			}
			values[a.Key] = Normalize(a, v)
		}
		out = append(out, RadarPoint{Subject: subject, Values: values})
	}
	return out
}

// Normalize applies an axis transform to one value.
func Normalize(a models.RadarAxis, v float64) float64 {
	scale := a.Scale
	if scale == 0 {
		scale = 1
	}
	if a.Invert {
		return 100 - v*scale
	}
	return v * scale
}

// AxisKeys lists the axis keys in declaration order.
func AxisKeys(axes []models.RadarAxis) []string {
	out := make([]string, len(axes))
	for i, a := range axes {
		out[i] = a.Key
	}
	return out
}
