// Package source loads the dashboard dataset from where it is kept.
// Every Source performs one fetch per call; failures come back as
// *errs.FetchError carrying a message fit for the dashboard error panel.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

type Source interface {
	Name() string
	Fetch(ctx context.Context) (*models.DashboardData, error)
}

// Decode parses a dashboard JSON document.
func Decode(r io.Reader) (*models.DashboardData, error) {
	var data models.DashboardData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func fetchFailed(source, format string, err error, args ...any) error {
	return errs.NewFetchError(source, fmt.Sprintf(format, args...), err)
}

// Func adapts a function to a Source.
type Func func(ctx context.Context) (*models.DashboardData, error)

func (f Func) Name() string { return "func" }

func (f Func) Fetch(ctx context.Context) (*models.DashboardData, error) {
	return f(ctx)
}
