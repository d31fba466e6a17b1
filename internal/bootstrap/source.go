package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/quality-dashboard/internal/config"
	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/source"
)

// NewSource builds the data source selected by cfg.DataSource. The
// Firestore client is only needed for the firestore source.
func NewSource(_ context.Context, cfg *config.Config, fs *firestore.Client) (source.Source, error) {
	switch cfg.DataSource {
	case config.SourceFile:
		return source.NewFileSource(cfg.DataFile), nil
	case config.SourceHTTP:
		return source.NewHTTPSource(source.HTTPSourceConfig{
			URL:      cfg.DataURL,
			MaxTries: cfg.HTTPMaxTries,
		}), nil
	case config.SourceFirestore:
		if fs == nil {
			return nil, errs.NewValidationError("firestore client is not initialised")
		}
		return source.NewFirestoreSource(fs, cfg.FirestoreCollection, cfg.FirestoreDoc), nil
	case config.SourceS3:
		return source.NewS3Source(source.S3SourceConfig{
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3Key,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}), nil
	}
	return nil, errs.NewValidationError(fmt.Sprintf("unknown data source %q", cfg.DataSource))
}
