// Package composer holds the state of one dashboard session: the fetched
// dataset, the global and per-widget date ranges, the grid layout and the
// drill-down view. Every widget is rendered from that state on demand.
package composer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/drilldown"
	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/layout"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/internal/source"
	"github.com/GregMSThompson/quality-dashboard/pkg/helpers"
	"github.com/GregMSThompson/quality-dashboard/pkg/logger"
)

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

type Config struct {
	Source  source.Source
	// Catalog defaults to DefaultCatalog().
	Catalog []models.ChartSpec
	// Layouts overrides placements of the default grid.
	Layouts models.Layouts
	// Range, when set, is the initial global range. Otherwise Preset picks
	// it, daterange.DefaultPreset if empty.
	Range   *models.DateRange
	Preset  daterange.Preset
	Palette []string
	Clock   clockwork.Clock
}

// Status is a snapshot of the session for clients polling a load.
type Status struct {
	State       State                       `json:"state"`
	Error       string                      `json:"error,omitempty"`
	Range       models.DateRange            `json:"range"`
	LocalRanges map[string]models.DateRange `json:"localRanges,omitempty"`
	LoadedAt    *time.Time                  `json:"loadedAt,omitempty"`
}

type Composer struct {
	mu    sync.RWMutex
	src   source.Source
	clock clockwork.Clock

	catalog []models.ChartSpec
	specs   map[string]models.ChartSpec
	palette []string

	state    State
	fetching bool
	loadErr  error
	data     *models.DashboardData
	loadedAt time.Time

	global daterange.Range
	local  map[string]daterange.Range
	layout layout.Model
	drill  models.DrillDownContext
}

// New assembles a session in the loading state. Nothing is fetched until
// Load is called.
func New(cfg Config) (*Composer, error) {
	if cfg.Source == nil {
		return nil, errs.NewValidationError("data source is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if err := validateCatalog(cfg.Catalog); err != nil {
		return nil, err
	}
	if cfg.Preset == "" {
		cfg.Preset = daterange.DefaultPreset
	}
	var global daterange.Range
	var err error
	if cfg.Range != nil {
		global, err = daterange.FromModel(*cfg.Range)
	} else {
		global, err = daterange.FromPreset(cfg.Preset, cfg.Clock.Now())
	}
	if err != nil {
		return nil, err
	}

	catalog := make([]models.ChartSpec, len(cfg.Catalog))
	specs := make(map[string]models.ChartSpec, len(cfg.Catalog))
	for i, s := range cfg.Catalog {
		catalog[i] = cloneSpec(s)
		specs[s.ID] = catalog[i]
	}
	ids := catalogIDs(catalog)
	grid, _ := layout.New(ids, layout.Default(ids)).ApplyOverrides(cfg.Layouts)

	return &Composer{
		src:     cfg.Source,
		clock:   cfg.Clock,
		catalog: catalog,
		specs:   specs,
		palette: cfg.Palette,
		state:   StateLoading,
		global:  global,
		local:   make(map[string]daterange.Range),
		layout:  grid,
	}, nil
}

// Load performs the session's fetch. It does nothing unless the session is
// loading with no fetch in flight.
func (c *Composer) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateLoading || c.fetching {
		c.mu.Unlock()
		return nil
	}
	c.fetching = true
	c.mu.Unlock()

	log := logger.FromContext(ctx).With("source", c.src.Name())
	start := c.clock.Now()
	data, err := c.src.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = false
	if err != nil {
		c.state = StateError
		c.loadErr = err
		log.Error("dashboard load failed", "err", err)
		return err
	}
	if data == nil {
		data = &models.DashboardData{}
	}
	c.data = data
	c.state = StateReady
	c.loadErr = nil
	c.loadedAt = c.clock.Now()
	log.Info("dashboard loaded", "duration", c.loadedAt.Sub(start))
	return nil
}

// Reset moves a failed session back to loading so Load can run again.
// It reports whether the session was in the error state.
func (c *Composer) Reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateError {
		return false
	}
	c.state = StateLoading
	c.loadErr = nil
	return true
}

// Retry re-issues the fetch of a failed session. Outside the error state it
// does nothing.
func (c *Composer) Retry(ctx context.Context) error {
	if !c.Reset() {
		return nil
	}
	return c.Load(ctx)
}

func (c *Composer) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Status{State: c.state, Range: c.global.Model()}
	if c.loadErr != nil {
		st.Error = c.loadErr.Error()
	}
	if len(c.local) > 0 {
		st.LocalRanges = make(map[string]models.DateRange, len(c.local))
		for id, r := range c.local {
			st.LocalRanges[id] = r.Model()
		}
	}
	if c.state == StateReady {
		st.LoadedAt = helpers.Ptr(c.loadedAt)
	}
	return st
}

// Catalog returns a copy of the session's widget specs in display order.
func (c *Composer) Catalog() []models.ChartSpec {
	return CloneCatalog(c.catalog)
}

// requireReady must be called with c.mu held.
func (c *Composer) requireReady() error {
	if c.state != StateReady {
		return errs.NewNotReadyError(string(c.state))
	}
	return nil
}

func (c *Composer) spec(id string) (models.ChartSpec, error) {
	s, ok := c.specs[id]
	if !ok {
		return models.ChartSpec{}, errs.NewNotFoundError(fmt.Sprintf("widget %q not found", id))
	}
	return s, nil
}

// SetGlobalRange replaces the global range and returns the ids of the
// widgets whose visible data follows it. Widgets with a local range keep it.
func (c *Composer) SetGlobalRange(dr models.DateRange) ([]string, error) {
	r, err := daterange.FromModel(dr)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setGlobal(r)
}

func (c *Composer) SetGlobalPreset(p daterange.Preset) ([]string, error) {
	r, err := daterange.FromPreset(p, c.clock.Now())
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setGlobal(r)
}

func (c *Composer) setGlobal(r daterange.Range) ([]string, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	if r == c.global {
		return []string{}, nil
	}
	c.global = r
	affected := make([]string, 0, len(c.catalog))
	for _, s := range c.catalog {
		if _, overridden := c.local[s.ID]; s.DateFiltered && !overridden {
			affected = append(affected, s.ID)
		}
	}
	return affected, nil
}

// SetWidgetRange gives one widget its own range. Only that widget is
// affected.
func (c *Composer) SetWidgetRange(id string, dr models.DateRange) ([]string, error) {
	r, err := daterange.FromModel(dr)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocal(id, r)
}

func (c *Composer) SetWidgetPreset(id string, p daterange.Preset) ([]string, error) {
	r, err := daterange.FromPreset(p, c.clock.Now())
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocal(id, r)
}

func (c *Composer) setLocal(id string, r daterange.Range) ([]string, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	s, err := c.spec(id)
	if err != nil {
		return nil, err
	}
	if !s.DateFiltered {
		return nil, errs.NewValidationError(fmt.Sprintf("widget %q does not filter by date", id))
	}
	before := c.effectiveRange(s)
	c.local[id] = r
	if before == r {
		return []string{}, nil
	}
	return []string{id}, nil
}

// ClearWidgetRange drops a widget's local range so it follows the global
// range again.
func (c *Composer) ClearWidgetRange(id string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	s, err := c.spec(id)
	if err != nil {
		return nil, err
	}
	before := c.effectiveRange(s)
	delete(c.local, id)
	if before == c.global {
		return []string{}, nil
	}
	return []string{id}, nil
}

// effectiveRange must be called with c.mu held.
func (c *Composer) effectiveRange(s models.ChartSpec) daterange.Range {
	if r, ok := c.local[s.ID]; ok {
		return r
	}
	return c.global
}

// OnLayoutChange validates a grid update for one breakpoint and returns the
// ids that were dropped. Dropped widgets keep their previous placement.
func (c *Composer) OnLayoutChange(bp models.Breakpoint, placements []models.WidgetPlacement) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	next, dropped, err := c.layout.OnLayoutChange(bp, placements)
	if err != nil {
		return nil, err
	}
	c.layout = next
	return dropped, nil
}

func (c *Composer) Layouts() models.Layouts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout.Layouts()
}

// Click opens the detail view for a widget. A nil point opens the aggregate
// view over the widget's whole category.
func (c *Composer) Click(id string, point models.Record) (models.DrillDownContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireReady(); err != nil {
		return models.DrillDownContext{}, err
	}
	s, err := c.spec(id)
	if err != nil {
		return models.DrillDownContext{}, err
	}
	if s.Category == models.CategoryNone {
		return models.DrillDownContext{}, errs.NewValidationError(fmt.Sprintf("widget %q has no detail view", id))
	}
	return c.openDrillDown(s.Category, point)
}

// DrillDown opens the detail view of a category directly.
func (c *Composer) DrillDown(category models.Category, point models.Record) (models.DrillDownContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireReady(); err != nil {
		return models.DrillDownContext{}, err
	}
	return c.openDrillDown(category, point)
}

func (c *Composer) openDrillDown(category models.Category, point models.Record) (models.DrillDownContext, error) {
	view, err := drilldown.Resolve(category, point, c.data, c.clock.Now())
	if err != nil {
		return models.DrillDownContext{}, err
	}
	c.drill = view
	return cloneDrillDown(view), nil
}

// DrillDownView returns the current detail view; closed when none is open.
func (c *Composer) DrillDownView() models.DrillDownContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneDrillDown(c.drill)
}

// CloseDrillDown discards the detail view. Closing a closed view is a no-op.
func (c *Composer) CloseDrillDown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drill = models.DrillDownContext{}
}

func cloneDrillDown(d models.DrillDownContext) models.DrillDownContext {
	d.Records = models.CloneRecords(d.Records)
	d.SelectedRecord = d.SelectedRecord.Clone()
	return d
}

// visibleRecords returns the records a widget shows: its dataset, filtered
// by the effective range when the widget is date-filtered. Must be called
// with c.mu held.
func (c *Composer) visibleRecords(s models.ChartSpec) ([]models.Record, *daterange.Range) {
	records, _ := c.data.Dataset(s.Dataset)
	if !s.DateFiltered {
		return models.CloneRecords(records), nil
	}
	r := c.effectiveRange(s)
	return daterange.Filter(records, r), &r
}

// WidgetIDs lists the catalog ids in display order.
func (c *Composer) WidgetIDs() []string {
	return catalogIDs(c.catalog)
}
