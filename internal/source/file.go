package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

// FileSource reads the dataset from a local JSON file. Files ending in .gz
// are gunzipped first.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context) (*models.DashboardData, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetchFailed(s.Name(), "Dashboard data request was cancelled", err)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fetchFailed(s.Name(), "Failed to fetch dashboard data", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fetchFailed(s.Name(), "Dashboard data file is not valid gzip", err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := Decode(r)
	if err != nil {
		return nil, fetchFailed(s.Name(), "Dashboard data file is not valid JSON", err)
	}
	return data, nil
}
