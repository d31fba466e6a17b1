package layout

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

type defaultSize struct {
	w, h, minW, minH int
}

var defaultSizes = map[models.Breakpoint]defaultSize{
	models.BreakpointLG: {w: 6, h: 6, minW: 3, minH: 5},
	models.BreakpointMD: {w: 4, h: 6, minW: 3, minH: 5},
	models.BreakpointSM: {w: 4, h: 5, minW: 4, minH: 4},
}

// Default arranges the widgets row-major at each breakpoint's default size.
func Default(ids []string) models.Layouts {
	out := make(models.Layouts, len(breakpoints))
	for _, b := range breakpoints {
		size := defaultSizes[b.Name]
		perRow := b.Columns / size.w
		ps := make([]models.WidgetPlacement, len(ids))
		for i, id := range ids {
			ps[i] = models.WidgetPlacement{
				ID:   id,
				X:    (i % perRow) * size.w,
				Y:    (i / perRow) * size.h,
				W:    size.w,
				H:    size.h,
				MinW: size.minW,
				MinH: size.minH,
			}
		}
		out[b.Name] = ps
	}
	return out
}

// LoadOverrides reads per-breakpoint placements from a YAML file. A missing
// file yields no overrides.
//
//	lg:
//	  - {i: deviation-trends, x: 0, y: 0, w: 12, h: 6, minW: 5, minH: 5}
func LoadOverrides(path string) (models.Layouts, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out models.Layouts
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge overlays the placements in overrides onto base, per breakpoint
// and per widget id. Placements for ids missing from base are appended.
func Merge(base, overrides models.Layouts) models.Layouts {
	out := make(models.Layouts, len(base))
	for bp, ps := range base {
		merged := make([]models.WidgetPlacement, len(ps))
		copy(merged, ps)
		for _, o := range overrides[bp] {
			replaced := false
			for i := range merged {
				if merged[i].ID == o.ID {
					merged[i] = o
					replaced = true
					break
				}
			}
			if !replaced {
				merged = append(merged, o)
			}
		}
		out[bp] = merged
	}
	return out
}

// ApplyOverrides merges overrides into the stored placements one breakpoint
// at a time. An override that fails validation is dropped and reported, and
// the widget keeps the placement it already had.
func (m Model) ApplyOverrides(overrides models.Layouts) (Model, []string) {
	var dropped []string
	for _, b := range breakpoints {
		if len(overrides[b.Name]) == 0 {
			continue
		}
		merged := Merge(models.Layouts{b.Name: m.layouts[b.Name]}, overrides)
		next, d, _ := m.OnLayoutChange(b.Name, merged[b.Name])
		m = next
		dropped = append(dropped, d...)
	}
	return m, dropped
}
