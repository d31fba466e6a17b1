// Package layout stores and validates widget placements per breakpoint.
// Packing and breakpoint selection belong to the grid renderer; this
// package only keeps the last valid arrangement it was handed.
package layout

import (
	"fmt"
	"slices"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

// BreakpointInfo describes a responsive tier of the grid.
type BreakpointInfo struct {
	Name     models.Breakpoint `json:"name"`
	MinWidth int               `json:"minWidth"`
	Columns  int               `json:"columns"`
}

var breakpoints = []BreakpointInfo{
	{Name: models.BreakpointLG, MinWidth: 1200, Columns: 12},
	{Name: models.BreakpointMD, MinWidth: 768, Columns: 8},
	{Name: models.BreakpointSM, MinWidth: 576, Columns: 4},
}

// RowHeight is the pixel height of one grid row.
const RowHeight = 60

func Breakpoints() []BreakpointInfo {
	return slices.Clone(breakpoints)
}

func ParseBreakpoint(s string) (models.Breakpoint, error) {
	for _, b := range breakpoints {
		if string(b.Name) == s {
			return b.Name, nil
		}
	}
	return "", errs.NewValidationError(fmt.Sprintf("unknown breakpoint %q", s))
}

func columns(bp models.Breakpoint) int {
	for _, b := range breakpoints {
		if b.Name == bp {
			return b.Columns
		}
	}
	return 0
}

// Model is an immutable snapshot of the layouts of every breakpoint.
// Updates return a new Model; a Model handed out earlier never changes.
type Model struct {
	known   map[string]struct{}
	layouts models.Layouts
}

// New builds a Model for the given widget ids, validating the seed layouts
// through the same rules as OnLayoutChange.
func New(knownIDs []string, seed models.Layouts) Model {
	m := Model{
		known:   make(map[string]struct{}, len(knownIDs)),
		layouts: make(models.Layouts, len(breakpoints)),
	}
	for _, id := range knownIDs {
		m.known[id] = struct{}{}
	}
	for _, b := range breakpoints {
		m.layouts[b.Name], _ = m.validate(b.Name, seed[b.Name], nil)
	}
	return m
}

// Layouts returns a deep copy of the stored placements.
func (m Model) Layouts() models.Layouts {
	out := make(models.Layouts, len(m.layouts))
	for bp, ps := range m.layouts {
		out[bp] = slices.Clone(ps)
	}
	return out
}

// Placements returns a copy of one breakpoint's placements.
func (m Model) Placements(bp models.Breakpoint) []models.WidgetPlacement {
	return slices.Clone(m.layouts[bp])
}

// Placement finds the stored placement of one widget.
func (m Model) Placement(bp models.Breakpoint, id string) (models.WidgetPlacement, bool) {
	for _, p := range m.layouts[bp] {
		if p.ID == id {
			return p, true
		}
	}
	return models.WidgetPlacement{}, false
}

// OnLayoutChange replaces the stored sequence of one breakpoint. Placements
// for unknown widgets, duplicates and placements that break the size
// constraints are dropped and reported; a known widget that was dropped or
// left out keeps its previous placement. Other breakpoints are untouched.
func (m Model) OnLayoutChange(bp models.Breakpoint, placements []models.WidgetPlacement) (Model, []string, error) {
	if columns(bp) == 0 {
		return m, nil, errs.NewValidationError(fmt.Sprintf("unknown breakpoint %q", bp))
	}
	valid, dropped := m.validate(bp, placements, m.layouts[bp])

	next := Model{known: m.known, layouts: make(models.Layouts, len(m.layouts))}
	for b, ps := range m.layouts {
		next.layouts[b] = ps
	}
	next.layouts[bp] = valid
	return next, dropped, nil
}

// validate keeps the acceptable placements in order, then appends the
// previous placement of any known widget the update did not place.
func (m Model) validate(bp models.Breakpoint, in, previous []models.WidgetPlacement) ([]models.WidgetPlacement, []string) {
	cols := columns(bp)
	seen := make(map[string]struct{}, len(in))
	out := make([]models.WidgetPlacement, 0, len(in))
	var dropped []string

	for _, p := range in {
		if _, ok := m.known[p.ID]; !ok {
			dropped = append(dropped, p.ID)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			dropped = append(dropped, p.ID)
			continue
		}
		if !fits(p, cols) {
			dropped = append(dropped, p.ID)
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	for _, p := range previous {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, dropped
}

func fits(p models.WidgetPlacement, cols int) bool {
	if p.X < 0 || p.Y < 0 || p.MinW < 0 || p.MinH < 0 {
		return false
	}
	if p.W <= 0 || p.H <= 0 || p.W < p.MinW || p.H < p.MinH {
		return false
	}
	return p.X+p.W <= cols
}
