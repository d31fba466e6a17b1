package models

// DrillDownContext describes the detail view opened by a chart click.
// The zero value is a closed view.
type DrillDownContext struct {
	IsOpen         bool     `json:"isOpen"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	Records        []Record `json:"records"`
	SelectedRecord Record   `json:"selectedRecord,omitempty"`
}
