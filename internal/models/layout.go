package models

// Breakpoint names a responsive layout tier.
type Breakpoint string

const (
	BreakpointLG Breakpoint = "lg"
	BreakpointMD Breakpoint = "md"
	BreakpointSM Breakpoint = "sm"
)

// WidgetPlacement positions one widget on the grid, in grid units.
type WidgetPlacement struct {
	ID   string `json:"i" yaml:"i"`
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
	W    int    `json:"w" yaml:"w"`
	H    int    `json:"h" yaml:"h"`
	MinW int    `json:"minW" yaml:"minW"`
	MinH int    `json:"minH" yaml:"minH"`
}

// Layouts maps each breakpoint to its ordered placements.
type Layouts map[Breakpoint][]WidgetPlacement
