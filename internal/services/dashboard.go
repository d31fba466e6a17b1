package services

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/jonboulle/clockwork"

	"github.com/GregMSThompson/quality-dashboard/internal/composer"
	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/drilldown"
	"github.com/GregMSThompson/quality-dashboard/internal/dto"
	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/export"
	"github.com/GregMSThompson/quality-dashboard/internal/layout"
	"github.com/GregMSThompson/quality-dashboard/internal/metrics"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/internal/printing"
	"github.com/GregMSThompson/quality-dashboard/internal/source"
	"github.com/GregMSThompson/quality-dashboard/pkg/logger"
)

const (
	defaultSessionTTL  = 30 * time.Minute
	defaultLoadTimeout = 30 * time.Second
)

type DashboardServiceConfig struct {
	Source      source.Source
	Catalog     []models.ChartSpec
	Layouts     models.Layouts
	Preset      daterange.Preset
	SessionTTL  time.Duration
	LoadTimeout time.Duration
	Clock       clockwork.Clock
}

type dashboardService struct {
	cfg      DashboardServiceConfig
	sessions *ttlcache.Cache[string, *composer.Composer]
	loads    sync.WaitGroup
}

// NewDashboardService keeps dashboard sessions in memory. Sessions expire
// after SessionTTL without use. Call Start to run expiry in the background.
func NewDashboardService(cfg DashboardServiceConfig) (*dashboardService, error) {
	if cfg.Source == nil {
		return nil, errs.NewValidationError("data source is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	cfg.Source = instrumented{Source: cfg.Source, clock: cfg.Clock}

	sessions := ttlcache.New(
		ttlcache.WithTTL[string, *composer.Composer](cfg.SessionTTL),
	)
	sessions.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, _ *ttlcache.Item[string, *composer.Composer]) {
		metrics.SessionsActive.Dec()
		metrics.SessionsEvicted.WithLabelValues(evictionReason(reason)).Inc()
	})

	return &dashboardService{cfg: cfg, sessions: sessions}, nil
}

func evictionReason(r ttlcache.EvictionReason) string {
	switch r {
	case ttlcache.EvictionReasonExpired:
		return "expired"
	case ttlcache.EvictionReasonDeleted:
		return "deleted"
	case ttlcache.EvictionReasonCapacityReached:
		return "capacity"
	}
	return "other"
}

// Start runs session expiry until Stop is called. It blocks.
func (s *dashboardService) Start() {
	s.sessions.Start()
}

func (s *dashboardService) Stop() {
	s.sessions.Stop()
}

// Wait blocks until every background load has finished.
func (s *dashboardService) Wait() {
	s.loads.Wait()
}

// --- Sessions ---

// Create opens a session and starts its fetch in the background. The
// session is loading until the fetch completes.
func (s *dashboardService) Create(ctx context.Context, req dto.CreateDashboardRequest) (dto.DashboardResponse, error) {
	cfg := composer.Config{
		Source:  s.cfg.Source,
		Catalog: s.cfg.Catalog,
		Layouts: s.cfg.Layouts,
		Range:   req.Range,
		Preset:  s.cfg.Preset,
		Clock:   s.cfg.Clock,
	}
	if req.Preset != "" {
		p, err := daterange.ParsePreset(req.Preset)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		cfg.Preset = p
	}
	c, err := composer.New(cfg)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	id := uuid.New().String()
	s.sessions.Set(id, c, ttlcache.DefaultTTL)
	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Inc()

	log, ctx := logger.With(ctx, "dashboard_id", id)
	log.Info("dashboard session created")
	s.load(ctx, c)

	return dto.DashboardResponse{ID: id, Status: c.Status()}, nil
}

// load fetches in the background, detached from the request that started it.
func (s *dashboardService) load(ctx context.Context, c *composer.Composer) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.LoadTimeout)
	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		defer cancel()
		_ = c.Load(ctx)
	}()
}

func (s *dashboardService) session(id string) (*composer.Composer, error) {
	item := s.sessions.Get(id)
	if item == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("dashboard %q not found", id))
	}
	return item.Value(), nil
}

func (s *dashboardService) Get(_ context.Context, id string) (dto.DashboardResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	return dto.DashboardResponse{ID: id, Status: c.Status()}, nil
}

func (s *dashboardService) Delete(ctx context.Context, id string) error {
	if _, err := s.session(id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	logger.FromContext(ctx).Info("dashboard session closed", "dashboard_id", id)
	return nil
}

// Retry restarts the fetch of a failed session. Sessions that are loading or
// ready are returned as they are.
func (s *dashboardService) Retry(ctx context.Context, id string) (dto.DashboardResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	if c.Reset() {
		_, ctx = logger.With(ctx, "dashboard_id", id)
		s.load(ctx, c)
	}
	return dto.DashboardResponse{ID: id, Status: c.Status()}, nil
}

// --- Ranges ---

func (s *dashboardService) SetRange(_ context.Context, id string, req dto.RangeRequest) (dto.RangeChangeResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.RangeChangeResponse{}, err
	}
	var affected []string
	if req.Preset != "" {
		p, perr := daterange.ParsePreset(req.Preset)
		if perr != nil {
			return dto.RangeChangeResponse{}, perr
		}
		affected, err = c.SetGlobalPreset(p)
	} else {
		affected, err = c.SetGlobalRange(models.DateRange{StartDate: req.StartDate, EndDate: req.EndDate})
	}
	if err != nil {
		return dto.RangeChangeResponse{}, err
	}
	metrics.RangeChanges.WithLabelValues("global").Inc()
	return dto.RangeChangeResponse{Affected: affected, Status: c.Status()}, nil
}

func (s *dashboardService) SetWidgetRange(_ context.Context, id, widgetID string, req dto.RangeRequest) (dto.RangeChangeResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.RangeChangeResponse{}, err
	}
	var affected []string
	if req.Preset != "" {
		p, perr := daterange.ParsePreset(req.Preset)
		if perr != nil {
			return dto.RangeChangeResponse{}, perr
		}
		affected, err = c.SetWidgetPreset(widgetID, p)
	} else {
		affected, err = c.SetWidgetRange(widgetID, models.DateRange{StartDate: req.StartDate, EndDate: req.EndDate})
	}
	if err != nil {
		return dto.RangeChangeResponse{}, err
	}
	metrics.RangeChanges.WithLabelValues("widget").Inc()
	return dto.RangeChangeResponse{Affected: affected, Status: c.Status()}, nil
}

func (s *dashboardService) ClearWidgetRange(_ context.Context, id, widgetID string) (dto.RangeChangeResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.RangeChangeResponse{}, err
	}
	affected, err := c.ClearWidgetRange(widgetID)
	if err != nil {
		return dto.RangeChangeResponse{}, err
	}
	return dto.RangeChangeResponse{Affected: affected, Status: c.Status()}, nil
}

func (s *dashboardService) KPIs(_ context.Context, id string) (composer.KPIs, error) {
	c, err := s.session(id)
	if err != nil {
		return composer.KPIs{}, err
	}
	return c.KPIs()
}

// --- Layout ---

func (s *dashboardService) Layouts(_ context.Context, id string) (models.Layouts, error) {
	c, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return c.Layouts(), nil
}

func (s *dashboardService) UpdateLayout(ctx context.Context, id, breakpoint string, req dto.LayoutChangeRequest) (dto.LayoutChangeResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.LayoutChangeResponse{}, err
	}
	bp, err := layout.ParseBreakpoint(breakpoint)
	if err != nil {
		return dto.LayoutChangeResponse{}, err
	}
	dropped, err := c.OnLayoutChange(bp, req.Placements)
	if err != nil {
		return dto.LayoutChangeResponse{}, err
	}
	if len(dropped) > 0 {
		metrics.DroppedPlacements.WithLabelValues(string(bp)).Add(float64(len(dropped)))
		logger.FromContext(ctx).Warn("layout placements dropped",
			"dashboard_id", id,
			"breakpoint", bp,
			"dropped", dropped)
	}
	return dto.LayoutChangeResponse{Dropped: dropped, Layouts: c.Layouts()}, nil
}

// --- Widgets ---

func (s *dashboardService) Widgets(_ context.Context, id string) ([]composer.WidgetView, error) {
	c, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return c.Render()
}

func (s *dashboardService) Widget(_ context.Context, id, widgetID string) (composer.WidgetView, error) {
	c, err := s.session(id)
	if err != nil {
		return composer.WidgetView{}, err
	}
	return c.RenderWidget(widgetID)
}

// Catalog lists the widget specs every new session is built from.
func (s *dashboardService) Catalog() []models.ChartSpec {
	if s.cfg.Catalog != nil {
		return composer.CloneCatalog(s.cfg.Catalog)
	}
	return composer.DefaultCatalog()
}

// --- Drill-down ---

func (s *dashboardService) Click(_ context.Context, id, widgetID string, req dto.ClickRequest) (dto.DrillDownResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.DrillDownResponse{}, err
	}
	view, err := c.Click(widgetID, req.Point)
	if err != nil {
		return dto.DrillDownResponse{}, err
	}
	metrics.DrillDowns.WithLabelValues(view.Category).Inc()
	return drillDownResponse(view), nil
}

func (s *dashboardService) DrillDown(_ context.Context, id string) (dto.DrillDownResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.DrillDownResponse{}, err
	}
	return drillDownResponse(c.DrillDownView()), nil
}

func (s *dashboardService) CloseDrillDown(_ context.Context, id string) error {
	c, err := s.session(id)
	if err != nil {
		return err
	}
	c.CloseDrillDown()
	return nil
}

func drillDownResponse(view models.DrillDownContext) dto.DrillDownResponse {
	resp := dto.DrillDownResponse{DrillDownContext: view}
	if view.IsOpen {
		summary := drilldown.Summarize(view)
		resp.Summary = &summary
	}
	return resp
}

// --- Export and print ---

func (s *dashboardService) Export(ctx context.Context, id, widgetID, format string) (dto.FileResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.FileResponse{}, err
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return dto.FileResponse{}, err
	}
	tbl, err := c.WidgetTable(widgetID)
	if err != nil {
		return dto.FileResponse{}, err
	}

	var buf bytes.Buffer
	switch f {
	case export.FormatXLSX:
		err = export.XLSX(&buf, tbl)
	default:
		err = export.CSV(&buf, tbl)
	}
	if err != nil {
		return dto.FileResponse{}, fmt.Errorf("export %s as %s: %w", widgetID, f, err)
	}
	metrics.Exports.WithLabelValues(string(f)).Inc()
	logger.FromContext(ctx).Info("widget exported", "dashboard_id", id, "widget_id", widgetID, "format", f)

	return dto.FileResponse{
		Filename:    export.Filename(tbl.Title, s.cfg.Clock.Now(), f),
		ContentType: f.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func (s *dashboardService) PrintWidget(_ context.Context, id, widgetID string) (dto.FileResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.FileResponse{}, err
	}
	tbl, err := c.WidgetTable(widgetID)
	if err != nil {
		return dto.FileResponse{}, err
	}
	return s.print(printing.WidgetTitle(tbl.Title), export.BaseName(tbl.Title, s.cfg.Clock.Now()), []export.Table{tbl})
}

func (s *dashboardService) PrintDashboard(_ context.Context, id string) (dto.FileResponse, error) {
	c, err := s.session(id)
	if err != nil {
		return dto.FileResponse{}, err
	}
	tables, err := c.Tables()
	if err != nil {
		return dto.FileResponse{}, err
	}
	title := printing.DashboardTitle(s.cfg.Clock.Now())
	return s.print(title, title, tables)
}

func (s *dashboardService) print(title, filename string, tables []export.Table) (dto.FileResponse, error) {
	now := s.cfg.Clock.Now()
	doc := printing.Document{
		Title:       title,
		GeneratedAt: now,
		Sections:    tables,
	}
	var buf bytes.Buffer
	if err := printing.Render(&buf, doc); err != nil {
		return dto.FileResponse{}, err
	}
	metrics.Exports.WithLabelValues("html").Inc()
	return dto.FileResponse{
		Filename:    filename + ".html",
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}

// instrumented records fetch outcomes and latency for a source.
type instrumented struct {
	source.Source
	clock clockwork.Clock
}

func (i instrumented) Fetch(ctx context.Context) (*models.DashboardData, error) {
	start := i.clock.Now()
	data, err := i.Source.Fetch(ctx)
	metrics.FetchDuration.WithLabelValues(i.Name()).Observe(i.clock.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.FetchOutcomes.WithLabelValues(i.Name(), result).Inc()
	return data, err
}
