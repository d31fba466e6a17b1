package source

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

// FirestoreSource reads the dataset from a single document whose fields
// are the named record arrays.
type FirestoreSource struct {
	client     *firestore.Client
	collection string
	docID      string
}

func NewFirestoreSource(client *firestore.Client, collection, docID string) *FirestoreSource {
	return &FirestoreSource{client: client, collection: collection, docID: docID}
}

func (s *FirestoreSource) Name() string { return "firestore" }

func (s *FirestoreSource) Fetch(ctx context.Context) (*models.DashboardData, error) {
	doc, err := s.client.Collection(s.collection).Doc(s.docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fetchFailed(s.Name(), "Dashboard dataset %q not found", err, s.docID)
		}
		return nil, fetchFailed(s.Name(), "Failed to fetch dashboard data",
			errs.NewDatabaseError("read", "failed to get dashboard dataset", err))
	}
	var data models.DashboardData
	if err := doc.DataTo(&data); err != nil {
		return nil, fetchFailed(s.Name(), "Dashboard dataset is malformed",
			errs.NewDatabaseError("read", "failed to parse dashboard dataset", err))
	}
	return &data, nil
}
