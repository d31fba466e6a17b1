package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/pkg/helpers"
	"github.com/GregMSThompson/quality-dashboard/pkg/logger"
)

func newTestHandler() *responseHandler {
	return New(slog.New(logger.NewTestHandler(slog.LevelInfo)))
}

func testRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
}

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", errs.NewNotFoundError("dashboard not found"), http.StatusNotFound, "not_found"},
		{"validation", errs.NewValidationError("bad range"), http.StatusBadRequest, "invalid_input"},
		{"not ready", errs.NewNotReadyError("loading"), http.StatusConflict, "not_ready"},
		{"fetch", errs.NewFetchError("http", "Failed to fetch dashboard data", errors.New("timeout")), http.StatusBadGateway, "fetch_failed"},
		{"database", errs.NewDatabaseError("read", "failed", errors.New("x")), http.StatusInternalServerError, "internal_error"},
		{"transient external", errs.NewExternalServiceError("s3", "down", true, nil), http.StatusServiceUnavailable, "service_unavailable"},
		{"external", errs.NewExternalServiceError("s3", "denied", false, nil), http.StatusBadGateway, "service_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.HandleError(rr, testRequest(), tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleError_FetchMessageIsShown(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().HandleError(rr, testRequest(), errs.NewFetchError("file", "Dashboard data file not found", errors.New("open: no such file")))

	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Dashboard data file not found" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestWriteSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().WriteSuccess(rr, testRequest(), http.StatusOK, map[string]int{"total": 3})

	var env struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Data["total"] != 3 {
		t.Errorf("envelope = %+v", env)
	}
}

func TestWriteFile(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().WriteFile(rr, testRequest(), "Deviation_Trends_2024-01-11.csv", "text/csv", []byte("date\n"))

	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename=Deviation_Trends_2024-01-11.csv` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rr.Header().Get("Content-Type") != "text/csv" || rr.Body.String() != "date\n" {
		t.Errorf("unexpected response: %q %q", rr.Header().Get("Content-Type"), rr.Body.String())
	}
}
