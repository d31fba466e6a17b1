package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/quality-dashboard/internal/composer"
	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/dto"
	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/layout"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/internal/response"
)

type DashboardService interface {
	Create(ctx context.Context, req dto.CreateDashboardRequest) (dto.DashboardResponse, error)
	Get(ctx context.Context, id string) (dto.DashboardResponse, error)
	Delete(ctx context.Context, id string) error
	Retry(ctx context.Context, id string) (dto.DashboardResponse, error)
	SetRange(ctx context.Context, id string, req dto.RangeRequest) (dto.RangeChangeResponse, error)
	SetWidgetRange(ctx context.Context, id, widgetID string, req dto.RangeRequest) (dto.RangeChangeResponse, error)
	ClearWidgetRange(ctx context.Context, id, widgetID string) (dto.RangeChangeResponse, error)
	KPIs(ctx context.Context, id string) (composer.KPIs, error)
	Layouts(ctx context.Context, id string) (models.Layouts, error)
	UpdateLayout(ctx context.Context, id, breakpoint string, req dto.LayoutChangeRequest) (dto.LayoutChangeResponse, error)
	Widgets(ctx context.Context, id string) ([]composer.WidgetView, error)
	Widget(ctx context.Context, id, widgetID string) (composer.WidgetView, error)
	Click(ctx context.Context, id, widgetID string, req dto.ClickRequest) (dto.DrillDownResponse, error)
	DrillDown(ctx context.Context, id string) (dto.DrillDownResponse, error)
	CloseDrillDown(ctx context.Context, id string) error
	Export(ctx context.Context, id, widgetID, format string) (dto.FileResponse, error)
	PrintWidget(ctx context.Context, id, widgetID string) (dto.FileResponse, error)
	PrintDashboard(ctx context.Context, id string) (dto.FileResponse, error)
	Catalog() []models.ChartSpec
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateDashboard)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetDashboard)
		r.Delete("/", h.DeleteDashboard)
		r.Post("/retry", h.RetryDashboard)
		r.Put("/range", h.SetRange)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/layouts", h.GetLayouts)
		r.Put("/layouts/{breakpoint}", h.UpdateLayout)
		r.Get("/widgets", h.GetWidgets)
		r.Get("/widgets/{widgetId}", h.GetWidget)
		r.Put("/widgets/{widgetId}/range", h.SetWidgetRange)
		r.Delete("/widgets/{widgetId}/range", h.ClearWidgetRange)
		r.Post("/widgets/{widgetId}/click", h.ClickWidget)
		r.Get("/widgets/{widgetId}/export", h.ExportWidget)
		r.Get("/widgets/{widgetId}/print", h.PrintWidget)
		r.Get("/print", h.PrintDashboard)
		r.Get("/drilldown", h.GetDrillDown)
		r.Delete("/drilldown", h.CloseDrillDown)
	})
	return r
}

// decodeJSON reads an optional JSON body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}

// --- Sessions ---

func (h *dashboardHandlers) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDashboardRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.DashboardSvc.Create(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusAccepted, resp)
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.DashboardSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) DeleteDashboard(w http.ResponseWriter, r *http.Request) {
	if err := h.DashboardSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) RetryDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.DashboardSvc.Retry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusAccepted, resp)
}

// --- Ranges ---

func (h *dashboardHandlers) SetRange(w http.ResponseWriter, r *http.Request) {
	var req dto.RangeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.DashboardSvc.SetRange(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) SetWidgetRange(w http.ResponseWriter, r *http.Request) {
	var req dto.RangeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.DashboardSvc.SetWidgetRange(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) ClearWidgetRange(w http.ResponseWriter, r *http.Request) {
	resp, err := h.DashboardSvc.ClearWidgetRange(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.DashboardSvc.KPIs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, kpis)
}

// --- Layout ---

func (h *dashboardHandlers) GetLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := h.DashboardSvc.Layouts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layouts)
}

func (h *dashboardHandlers) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	var req dto.LayoutChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.DashboardSvc.UpdateLayout(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "breakpoint"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

// --- Widgets ---

func (h *dashboardHandlers) GetWidgets(w http.ResponseWriter, r *http.Request) {
	views, err := h.DashboardSvc.Widgets(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, views)
}

func (h *dashboardHandlers) GetWidget(w http.ResponseWriter, r *http.Request) {
	view, err := h.DashboardSvc.Widget(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

// --- Drill-down ---

// ClickWidget opens the widget's detail view. Without a point in the body
// the aggregate view opens.
func (h *dashboardHandlers) ClickWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.ClickRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.DashboardSvc.Click(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) GetDrillDown(w http.ResponseWriter, r *http.Request) {
	resp, err := h.DashboardSvc.DrillDown(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) CloseDrillDown(w http.ResponseWriter, r *http.Request) {
	if err := h.DashboardSvc.CloseDrillDown(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// --- Export and print ---

func (h *dashboardHandlers) ExportWidget(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	f, err := h.DashboardSvc.Export(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"), format)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteFile(w, r, f.Filename, f.ContentType, f.Body)
}

func (h *dashboardHandlers) PrintWidget(w http.ResponseWriter, r *http.Request) {
	f, err := h.DashboardSvc.PrintWidget(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteFile(w, r, f.Filename, f.ContentType, f.Body)
}

func (h *dashboardHandlers) PrintDashboard(w http.ResponseWriter, r *http.Request) {
	f, err := h.DashboardSvc.PrintDashboard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteFile(w, r, f.Filename, f.ContentType, f.Body)
}

// --- Reference data ---

func (h *dashboardHandlers) GetWidgetCatalog(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.Catalog())
}

func (h *dashboardHandlers) GetRangePresets(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, daterange.Presets())
}

func (h *dashboardHandlers) GetBreakpoints(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layout.Breakpoints())
}
