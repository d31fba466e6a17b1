package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/internal/source"
	"github.com/GregMSThompson/quality-dashboard/pkg/helpers"
)

// --- Fixtures ---

func testData() *models.DashboardData {
	d := &models.DashboardData{}
	for day := 1; day <= 10; day++ {
		date := fmt.Sprintf("2024-01-%02d", day)
		d.Deviations = append(d.Deviations, models.Record{
			"date": date, "total": float64(day), "critical": float64(day % 3), "major": float64(2),
		})
		d.CAPA = append(d.CAPA, models.Record{
			"date": date, "open": float64(2), "inProgress": float64(1), "closed": float64(4),
			"overdue": float64(1), "effectiveness": float64(80 + day),
		})
		d.Compliance = append(d.Compliance, models.Record{
			"date": date, "gmp": float64(90), "fda": float64(93), "iso": float64(96),
		})
	}
	d.DeviationsByCategory = []models.Record{
		{"name": "Equipment", "value": float64(30)},
		{"name": "Process", "value": float64(70)},
	}
	d.ManufacturingSites = []models.Record{
		{"site": "Site A - Boston", "deviations": float64(20), "compliance": float64(95), "efficiency": float64(88), "capa": float64(5)},
	}
	d.AuditFindings = []models.Record{
		{"audit": "FDA Q1", "date": "2024-01-05", "findings": float64(4), "critical": float64(1), "observations": float64(3), "status": "closed"},
		{"audit": "ISO Q4", "date": "2023-11-20", "findings": float64(2), "critical": float64(0), "observations": float64(2), "status": "open"},
	}
	return d
}

type countingSource struct {
	mu    sync.Mutex
	calls int
	errs  []error
	data  *models.DashboardData
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Fetch(_ context.Context) (*models.DashboardData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.data, nil
}

var testNow = time.Date(2024, 1, 11, 15, 0, 0, 0, time.UTC)

func newComposer(t *testing.T, src source.Source) *Composer {
	t.Helper()
	c, err := New(Config{Source: src, Clock: clockwork.NewFakeClockAt(testNow)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func readyComposer(t *testing.T) *Composer {
	t.Helper()
	c := newComposer(t, &countingSource{data: testData()})
	if err := c.Load(helpers.TestCtx()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

// --- Construction ---

func TestNew_RequiresSource(t *testing.T) {
	_, err := New(Config{})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestNew_RejectsBadCatalog(t *testing.T) {
	dup := DefaultCatalog()
	dup[1].ID = dup[0].ID

	noKeys := DefaultCatalog()
	noKeys[0].DataKeys = nil

	badDataset := DefaultCatalog()
	badDataset[0].Dataset = "batches"

	for name, catalog := range map[string][]models.ChartSpec{
		"duplicate id":    dup,
		"missing keys":    noKeys,
		"unknown dataset": badDataset,
		"empty":           {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(Config{Source: &countingSource{}, Catalog: catalog})
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestNew_InitialStateAndRange(t *testing.T) {
	c := newComposer(t, &countingSource{data: testData()})
	st := c.Status()
	if st.State != StateLoading {
		t.Errorf("state = %s, want loading", st.State)
	}
	want := models.DateRange{StartDate: "2023-12-12", EndDate: "2024-01-11"}
	if st.Range != want {
		t.Errorf("initial range = %+v, want %+v", st.Range, want)
	}
	if st.LoadedAt != nil {
		t.Error("expected no load time before Load")
	}
}

// --- State machine ---

func TestLoad_Ready(t *testing.T) {
	src := &countingSource{data: testData()}
	c := newComposer(t, src)
	if err := c.Load(helpers.TestCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := c.Status()
	if st.State != StateReady || st.LoadedAt == nil {
		t.Fatalf("status = %+v", st)
	}

	// a second Load does not fetch again
	if err := c.Load(helpers.TestCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("calls = %d, want 1", src.calls)
	}
}

func TestLoad_NilDataIsEmptyDashboard(t *testing.T) {
	c := newComposer(t, &countingSource{})
	if err := c.Load(helpers.TestCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	views, err := c.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(views) != len(DefaultCatalog()) {
		t.Errorf("views = %d", len(views))
	}
}

func TestLoad_ErrorThenRetry(t *testing.T) {
	fetchErr := errs.NewFetchError("counting", "source unavailable", errors.New("boom"))
	src := &countingSource{data: testData(), errs: []error{fetchErr}}
	c := newComposer(t, src)

	err := c.Load(helpers.TestCtx())
	var fe *errs.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	st := c.Status()
	if st.State != StateError || st.Error != "source unavailable" {
		t.Fatalf("status = %+v", st)
	}

	if err := c.Retry(helpers.TestCtx()); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if c.Status().State != StateReady {
		t.Fatalf("state = %s, want ready", c.Status().State)
	}

	// retry outside the error state does nothing
	if err := c.Retry(helpers.TestCtx()); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("calls = %d, want 2", src.calls)
	}
}

func TestReset_OnlyFromError(t *testing.T) {
	c := newComposer(t, &countingSource{data: testData()})
	if c.Reset() {
		t.Error("Reset from loading should report false")
	}
}

func TestOperations_NotReady(t *testing.T) {
	c := newComposer(t, &countingSource{errs: []error{errors.New("down")}})
	before := c.Status()

	ops := map[string]func() error{
		"SetGlobalRange": func() error {
			_, err := c.SetGlobalRange(models.DateRange{StartDate: "2024-01-03", EndDate: "2024-01-06"})
			return err
		},
		"SetGlobalPreset": func() error { _, err := c.SetGlobalPreset(daterange.Last7Days); return err },
		"SetWidgetRange": func() error {
			_, err := c.SetWidgetRange(WidgetDeviationTrends, models.DateRange{StartDate: "2024-01-03", EndDate: "2024-01-06"})
			return err
		},
		"ClearWidgetRange": func() error { _, err := c.ClearWidgetRange(WidgetDeviationTrends); return err },
		"OnLayoutChange":   func() error { _, err := c.OnLayoutChange(models.BreakpointLG, nil); return err },
		"Render":           func() error { _, err := c.Render(); return err },
		"RenderWidget":     func() error { _, err := c.RenderWidget(WidgetDeviationTrends); return err },
		"Click":            func() error { _, err := c.Click(WidgetCAPAStatus, nil); return err },
		"KPIs":             func() error { _, err := c.KPIs(); return err },
		"WidgetTable":      func() error { _, err := c.WidgetTable(WidgetAuditFindings); return err },
	}

	for _, state := range []State{StateLoading, StateError} {
		if state == StateError {
			_ = c.Load(helpers.TestCtx())
			before = c.Status()
		}
		for name, op := range ops {
			t.Run(string(state)+"/"+name, func(t *testing.T) {
				err := op()
				var nr *errs.NotReadyError
				if !errors.As(err, &nr) {
					t.Fatalf("expected NotReadyError, got %v", err)
				}
				if nr.State != string(state) {
					t.Errorf("error state = %q, want %q", nr.State, state)
				}
				if diff := cmp.Diff(before, c.Status()); diff != "" {
					t.Errorf("status changed (-before +after):\n%s", diff)
				}
			})
		}
	}
}

// --- Ranges ---

func TestSetGlobalRange_FiltersWidgets(t *testing.T) {
	c := readyComposer(t)

	affected, err := c.SetGlobalRange(models.DateRange{StartDate: "2024-01-03", EndDate: "2024-01-06"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantAffected := []string{WidgetDeviationTrends, WidgetCAPAStatus, WidgetComplianceMetrics, WidgetDeviationSeverity, WidgetAuditFindings}
	if diff := cmp.Diff(wantAffected, affected); diff != "" {
		t.Errorf("affected mismatch (-want +got):\n%s", diff)
	}

	v, err := c.RenderWidget(WidgetDeviationTrends)
	if err != nil {
		t.Fatalf("RenderWidget: %v", err)
	}
	if got := len(v.Categorical.Records); got != 4 {
		t.Fatalf("records = %d, want 4", got)
	}
	var dates []string
	for _, r := range v.Categorical.Records {
		d, _ := r.Date()
		dates = append(dates, d)
	}
	if diff := cmp.Diff([]string{"2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"}, dates); diff != "" {
		t.Errorf("dates mismatch (-want +got):\n%s", diff)
	}
	if v.Range == nil || v.Range.StartDate != "2024-01-03" {
		t.Errorf("view range = %+v", v.Range)
	}

	// the same range again changes nothing
	affected, err = c.SetGlobalRange(models.DateRange{StartDate: "2024-01-03", EndDate: "2024-01-06"})
	if err != nil || len(affected) != 0 {
		t.Errorf("repeat: affected = %v, err = %v", affected, err)
	}
}

func TestSetGlobalRange_InvertedRejected(t *testing.T) {
	c := readyComposer(t)
	before := c.Status().Range

	_, err := c.SetGlobalRange(models.DateRange{StartDate: "2024-01-06", EndDate: "2024-01-03"})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if c.Status().Range != before {
		t.Error("range changed after rejected update")
	}
}

func TestSetGlobalPreset(t *testing.T) {
	c := readyComposer(t)
	if _, err := c.SetGlobalPreset(daterange.Last7Days); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.DateRange{StartDate: "2024-01-04", EndDate: "2024-01-11"}
	if got := c.Status().Range; got != want {
		t.Errorf("range = %+v, want %+v", got, want)
	}

	_, err := c.SetGlobalPreset("last2weeks")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestWidgetRange_OverridesGlobalUntilCleared(t *testing.T) {
	c := readyComposer(t)

	affected, err := c.SetWidgetRange(WidgetCAPAStatus, models.DateRange{StartDate: "2024-01-01", EndDate: "2024-01-02"})
	if err != nil {
		t.Fatalf("SetWidgetRange: %v", err)
	}
	if diff := cmp.Diff([]string{WidgetCAPAStatus}, affected); diff != "" {
		t.Errorf("affected mismatch (-want +got):\n%s", diff)
	}

	affected, err = c.SetGlobalRange(models.DateRange{StartDate: "2024-01-05", EndDate: "2024-01-10"})
	if err != nil {
		t.Fatalf("SetGlobalRange: %v", err)
	}
	for _, id := range affected {
		if id == WidgetCAPAStatus {
			t.Error("widget with a local range should not follow the global range")
		}
	}

	v, _ := c.RenderWidget(WidgetCAPAStatus)
	if !v.LocalRange || len(v.Categorical.Records) != 2 {
		t.Fatalf("local view: local=%v records=%d", v.LocalRange, len(v.Categorical.Records))
	}
	if st := c.Status(); st.LocalRanges[WidgetCAPAStatus].EndDate != "2024-01-02" {
		t.Errorf("status local ranges = %+v", st.LocalRanges)
	}

	affected, err = c.ClearWidgetRange(WidgetCAPAStatus)
	if err != nil {
		t.Fatalf("ClearWidgetRange: %v", err)
	}
	if diff := cmp.Diff([]string{WidgetCAPAStatus}, affected); diff != "" {
		t.Errorf("affected mismatch (-want +got):\n%s", diff)
	}
	v, _ = c.RenderWidget(WidgetCAPAStatus)
	if v.LocalRange || len(v.Categorical.Records) != 6 {
		t.Errorf("cleared view: local=%v records=%d", v.LocalRange, len(v.Categorical.Records))
	}

	// clearing again is a no-op
	affected, err = c.ClearWidgetRange(WidgetCAPAStatus)
	if err != nil || len(affected) != 0 {
		t.Errorf("second clear: affected = %v, err = %v", affected, err)
	}
}

func TestSetWidgetRange_Errors(t *testing.T) {
	c := readyComposer(t)
	dr := models.DateRange{StartDate: "2024-01-01", EndDate: "2024-01-02"}

	_, err := c.SetWidgetRange("ghost-widget", dr)
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	_, err = c.SetWidgetRange(WidgetSitePerformance, dr)
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	if _, err := c.SetWidgetPreset(WidgetAuditFindings, daterange.Last90Days); err != nil {
		t.Errorf("SetWidgetPreset: %v", err)
	}
}

// --- Layout ---

func TestOnLayoutChange_GhostWidgetDropped(t *testing.T) {
	c := readyComposer(t)
	before := c.Layouts()

	dropped, err := c.OnLayoutChange(models.BreakpointLG, []models.WidgetPlacement{
		{ID: "ghost-widget", X: 0, Y: 0, W: 6, H: 6},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"ghost-widget"}, dropped); diff != "" {
		t.Errorf("dropped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, c.Layouts()); diff != "" {
		t.Errorf("layout changed (-before +after):\n%s", diff)
	}
}

func TestOnLayoutChange_MovesWidget(t *testing.T) {
	c := readyComposer(t)
	moved := models.WidgetPlacement{ID: WidgetAuditFindings, X: 0, Y: 0, W: 12, H: 7, MinW: 3, MinH: 5}
	if _, err := c.OnLayoutChange(models.BreakpointLG, []models.WidgetPlacement{moved}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := c.RenderWidget(WidgetAuditFindings)
	if v.Placements[models.BreakpointLG] != moved {
		t.Errorf("placement = %+v, want %+v", v.Placements[models.BreakpointLG], moved)
	}
	if _, ok := v.Placements[models.BreakpointSM]; !ok {
		t.Error("other breakpoints should keep their placement")
	}
}

func TestNew_InvalidLayoutOverrideKeepsDefault(t *testing.T) {
	c, err := New(Config{
		Source:  &countingSource{data: testData()},
		Clock:   clockwork.NewFakeClockAt(testNow),
		Layouts: models.Layouts{
			models.BreakpointLG: {{ID: WidgetDeviationTrends, X: 0, Y: 0, W: 2, H: 6, MinW: 3, MinH: 5}},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Load(helpers.TestCtx()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	lg := c.Layouts()[models.BreakpointLG]
	if len(lg) != len(DefaultCatalog()) {
		t.Fatalf("expected %d lg placements, got %d", len(DefaultCatalog()), len(lg))
	}
	v, _ := c.RenderWidget(WidgetDeviationTrends)
	if p := v.Placements[models.BreakpointLG]; p.W != 6 || p.MinW != 3 {
		t.Errorf("expected default placement, got %+v", p)
	}
}

// --- Rendering ---

func TestRender_AllKinds(t *testing.T) {
	c := readyComposer(t)
	views, err := c.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byID := make(map[string]WidgetView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}

	pie := byID[WidgetDeviationCategory]
	if len(pie.Pie) != 2 || pie.Pie[1].Percentage != 70 || pie.Range != nil {
		t.Errorf("pie view = %+v", pie)
	}

	scatter := byID[WidgetDeviationSeverity]
	if len(scatter.Scatter) != 10 || scatter.Scatter[0].Z == nil {
		t.Errorf("scatter points = %d", len(scatter.Scatter))
	}

	radar := byID[WidgetSitePerformance]
	if radar.Clickable || len(radar.Radar) != 1 {
		t.Fatalf("radar view = %+v", radar)
	}
	wantRadar := map[string]float64{"compliance": 95, "efficiency": 88, "deviations": 90, "capa": 90}
	if diff := cmp.Diff(wantRadar, radar.Radar[0].Values); diff != "" {
		t.Errorf("radar values mismatch (-want +got):\n%s", diff)
	}
	if radar.Radar[0].Subject != "Site A" {
		t.Errorf("subject = %q", radar.Radar[0].Subject)
	}

	audit := byID[WidgetAuditFindings]
	if audit.Categorical.XAxisKey != "audit" || len(audit.Categorical.Records) != 1 {
		t.Errorf("audit view = %+v", audit.Categorical)
	}

	trends := byID[WidgetDeviationTrends]
	if diff := cmp.Diff([]string{chartPrimary, chartDanger, chartWarning}, trends.Colors); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	if len(trends.Placements) != 3 {
		t.Errorf("placements = %v", trends.Placements)
	}
}

func TestRenderWidget_NotFound(t *testing.T) {
	c := readyComposer(t)
	_, err := c.RenderWidget("ghost-widget")
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRender_DoesNotAliasDataset(t *testing.T) {
	data := testData()
	c := newComposer(t, &countingSource{data: data})
	_ = c.Load(helpers.TestCtx())

	v, _ := c.RenderWidget(WidgetDeviationTrends)
	v.Categorical.Records[0]["total"] = float64(999)

	if data.Deviations[len(data.Deviations)-1]["total"] == float64(999) ||
		data.Deviations[0]["total"] == float64(999) {
		t.Error("rendered records alias the master dataset")
	}
}

// --- Drill-down ---

func TestClick_AggregateView(t *testing.T) {
	c := readyComposer(t)
	ctx, err := c.Click(WidgetCAPAStatus, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.IsOpen || ctx.Category != "capa" || len(ctx.Records) != 10 || ctx.SelectedRecord != nil {
		t.Fatalf("drill-down = %+v", ctx)
	}
	if ctx.Title != "CAPA Analysis - January 11, 2024" {
		t.Errorf("title = %q", ctx.Title)
	}
	if got := c.DrillDownView(); got.Title != ctx.Title {
		t.Errorf("current view = %q", got.Title)
	}

	c.CloseDrillDown()
	if c.DrillDownView().IsOpen {
		t.Error("expected closed view")
	}
	c.CloseDrillDown()
}

func TestClick_SelectedPoint(t *testing.T) {
	c := readyComposer(t)
	ctx, err := c.Click(WidgetDeviationCategory, models.Record{"name": "Equipment", "value": float64(30)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Title != "Deviation Details - Equipment" || ctx.SelectedRecord["name"] != "Equipment" {
		t.Errorf("drill-down = %+v", ctx)
	}
}

func TestClick_Errors(t *testing.T) {
	c := readyComposer(t)

	_, err := c.Click(WidgetSitePerformance, nil)
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	_, err = c.Click("ghost-widget", nil)
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	_, err = c.DrillDown("batch", nil)
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if c.DrillDownView().IsOpen {
		t.Error("failed drill-down should leave the view closed")
	}
}

// --- Tables and KPIs ---

func TestWidgetTable(t *testing.T) {
	c := readyComposer(t)
	if _, err := c.SetGlobalRange(models.DateRange{StartDate: "2024-01-03", EndDate: "2024-01-06"}); err != nil {
		t.Fatalf("SetGlobalRange: %v", err)
	}

	tbl, err := c.WidgetTable(WidgetDeviationTrends)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Title != "Deviation Trends" || len(tbl.Rows) != 4 {
		t.Fatalf("table = %s with %d rows", tbl.Title, len(tbl.Rows))
	}
	if diff := cmp.Diff([]string{"date", "total", "critical", "major"}, tbl.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(&models.DateRange{StartDate: "2024-01-03", EndDate: "2024-01-06"}, tbl.Range); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
	if _, err := c.SetWidgetRange(WidgetDeviationTrends, models.DateRange{StartDate: "2024-01-05", EndDate: "2024-01-05"}); err != nil {
		t.Fatalf("SetWidgetRange: %v", err)
	}
	local, _ := c.WidgetTable(WidgetDeviationTrends)
	if local.Range == nil || local.Range.StartDate != "2024-01-05" || len(local.Rows) != 1 {
		t.Errorf("local table range = %+v with %d rows", local.Range, len(local.Rows))
	}
	if pie, _ := c.WidgetTable(WidgetDeviationCategory); pie.Range != nil {
		t.Errorf("pie table should carry no range, got %+v", pie.Range)
	}

	audit, _ := c.WidgetTable(WidgetAuditFindings)
	wantCols := []string{"audit", "date", "findings", "critical", "observations", "status"}
	if diff := cmp.Diff(wantCols, audit.Columns); diff != "" {
		t.Errorf("audit columns mismatch (-want +got):\n%s", diff)
	}

	tables, err := c.Tables()
	if err != nil || len(tables) != 7 {
		t.Errorf("Tables = %d, %v", len(tables), err)
	}
}

func TestKPIs(t *testing.T) {
	c := readyComposer(t)
	if _, err := c.SetGlobalRange(models.DateRange{StartDate: "2024-01-03", EndDate: "2024-01-06"}); err != nil {
		t.Fatalf("SetGlobalRange: %v", err)
	}
	k, err := c.KPIs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := KPIs{
		Range:                models.DateRange{StartDate: "2024-01-03", EndDate: "2024-01-06"},
		TotalDeviations:      3 + 4 + 5 + 6,
		OpenCAPAs:            4 * 3,
		AverageCompliance:    93,
		AverageEffectiveness: (83 + 84 + 85 + 86) / 4.0,
	}
	if diff := cmp.Diff(want, k); diff != "" {
		t.Errorf("KPIs mismatch (-want +got):\n%s", diff)
	}
}

func TestKPIs_EmptyPeriod(t *testing.T) {
	c := readyComposer(t)
	if _, err := c.SetGlobalRange(models.DateRange{StartDate: "2030-01-01", EndDate: "2030-01-31"}); err != nil {
		t.Fatalf("SetGlobalRange: %v", err)
	}
	k, err := c.KPIs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.TotalDeviations != 0 || k.AverageCompliance != 0 || k.AverageEffectiveness != 0 {
		t.Errorf("KPIs = %+v, want zeros", k)
	}
}
