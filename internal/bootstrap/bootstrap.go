package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/quality-dashboard/internal/config"
	"github.com/GregMSThompson/quality-dashboard/internal/layout"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/internal/source"
	"github.com/GregMSThompson/quality-dashboard/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Source    source.Source
	Layouts   models.Layouts
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, cfg.LogFormat)
	if err = cfg.Validate(); err != nil {
		return bs, err
	}

	if cfg.DataSource == config.SourceFirestore {
		bs.Firestore, err = newFirestoreClient(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}
	bs.Source, err = NewSource(applicationCtx, cfg, bs.Firestore)
	if err != nil {
		return bs, err
	}

	if cfg.LayoutFile != "" {
		bs.Layouts, err = layout.LoadOverrides(cfg.LayoutFile)
		if err != nil {
			return bs, err
		}
	}

	bs.Log.Info("bootstrap complete", "source", bs.Source.Name(), "layout_file", cfg.LayoutFile)
	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Error("failed to close firestore client", "error", err)
		}
	}
}
