package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/pkg/logger"
)

const (
	defaultHTTPMaxTries        = 3
	defaultHTTPInitialInterval = 500 * time.Millisecond
)

type HTTPSourceConfig struct {
	URL             string
	Client          *http.Client
	MaxTries        uint
	InitialInterval time.Duration
}

// HTTPSource GETs the dataset document. Network errors and 5xx responses
// are retried with exponential backoff up to MaxTries; anything else fails
// at once.
type HTTPSource struct {
	cfg HTTPSourceConfig
}

func NewHTTPSource(cfg HTTPSourceConfig) *HTTPSource {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = defaultHTTPMaxTries
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = defaultHTTPInitialInterval
	}
	return &HTTPSource{cfg: cfg}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) (*models.DashboardData, error) {
	log := logger.FromContext(ctx)
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialInterval

	attempt := 0
	data, err := backoff.Retry(ctx, func() (*models.DashboardData, error) {
		attempt++
		if attempt > 1 {
			log.Warn("dashboard data fetch failed, retrying", "attempt", attempt, "url", s.cfg.URL)
		}
		return s.fetchOnce(ctx)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(s.cfg.MaxTries))
	if err != nil {
		return nil, fetchFailed(s.Name(), "Failed to fetch dashboard data", err)
	}
	return data, nil
}

func (s *HTTPSource) fetchOnce(ctx context.Context) (*models.DashboardData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.cfg.Client.Do(req)
	if err != nil {
		return nil, errs.NewExternalServiceError(s.Name(), "dashboard data request failed", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errs.NewExternalServiceError(s.Name(),
			fmt.Sprintf("dashboard data request returned %d", resp.StatusCode), true, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backoff.Permanent(errs.NewExternalServiceError(s.Name(),
			fmt.Sprintf("dashboard data request returned %d", resp.StatusCode), false, nil))
	}
	data, err := Decode(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode dashboard data: %w", err))
	}
	return data, nil
}
