package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
)

// newFirestoreClient opens the client the firestore data source reads the
// dashboard document through.
func newFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("connect", "failed to open firestore client", err)
	}
	return client, nil
}
