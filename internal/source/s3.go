package source

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

const defaultS3Region = "us-east-1"

type s3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3SourceConfig struct {
	Bucket string
	Key    string
	Region string
	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Source reads the dataset document from one object. Keys ending in .gz
// are gunzipped.
type S3Source struct {
	client s3Getter
	bucket string
	key    string
}

// NewS3Source builds a client with static credentials when given, and
// anonymous access otherwise.
func NewS3Source(cfg S3SourceConfig) *S3Source {
	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}
	opts := s3.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return &S3Source{client: s3.New(opts), bucket: cfg.Bucket, key: cfg.Key}
}

func (s *S3Source) Name() string { return "s3" }

func (s *S3Source) Fetch(ctx context.Context) (*models.DashboardData, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fetchFailed(s.Name(), "Failed to fetch dashboard data",
			errs.NewExternalServiceError(s.Name(), "get dashboard data object", false, err))
	}
	defer out.Body.Close()

	body := out.Body
	if strings.HasSuffix(s.key, ".gz") {
		gz, err := gzip.NewReader(out.Body)
		if err != nil {
			return nil, fetchFailed(s.Name(), "Dashboard data object is not valid gzip", err)
		}
		defer gz.Close()
		body = gz
	}
	data, err := Decode(body)
	if err != nil {
		return nil, fetchFailed(s.Name(), "Dashboard data object is not valid JSON", err)
	}
	return data, nil
}
