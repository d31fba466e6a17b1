package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/errs"
)

// Data source kinds.
const (
	SourceFile      = "file"
	SourceHTTP      = "http"
	SourceFirestore = "firestore"
	SourceS3        = "s3"
)

type Config struct {
	ProjectID string
	LogLevel  string
	LogFormat string
	Port      string

	DataSource          string
	DataFile            string
	DataURL             string
	HTTPMaxTries        uint
	FirestoreCollection string
	FirestoreDoc        string
	S3Bucket            string
	S3Key               string
	S3Region            string
	S3Endpoint          string
	S3AccessKeyID       string
	S3SecretAccessKey   string

	SessionTTL    time.Duration
	LoadTimeout   time.Duration
	DefaultPreset daterange.Preset
	LayoutFile    string
}

// New reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID: os.Getenv("PROJECTID"),
		LogLevel:  os.Getenv("LOGLEVEL"),
		LogFormat: os.Getenv("LOGFORMAT"),
		Port:      os.Getenv("PORT"),

		DataSource:          strings.ToLower(os.Getenv("DATASOURCE")),
		DataFile:            os.Getenv("DATAFILE"),
		DataURL:             os.Getenv("DATAURL"),
		HTTPMaxTries:        getUint("HTTPMAXTRIES"),
		FirestoreCollection: os.Getenv("FIRESTORECOLLECTION"),
		FirestoreDoc:        os.Getenv("FIRESTOREDOC"),
		S3Bucket:            os.Getenv("S3BUCKET"),
		S3Key:               os.Getenv("S3KEY"),
		S3Region:            os.Getenv("S3REGION"),
		S3Endpoint:          os.Getenv("S3ENDPOINT"),
		S3AccessKeyID:       os.Getenv("S3ACCESSKEYID"),
		S3SecretAccessKey:   os.Getenv("S3SECRETACCESSKEY"),

		SessionTTL:    getDuration("SESSIONTTL"),
		LoadTimeout:   getDuration("LOADTIMEOUT"),
		DefaultPreset: daterange.Preset(os.Getenv("DEFAULTPRESET")),
		LayoutFile:    os.Getenv("LAYOUTFILE"),
	}
}

// Validate fills defaults and checks the selected data source has what it
// needs.
func (c *Config) Validate() error {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.DataSource == "" {
		c.DataSource = SourceFile
	}
	if c.DataSource == SourceFile && c.DataFile == "" {
		c.DataFile = "data/dashboard.json"
	}
	if c.FirestoreCollection == "" {
		c.FirestoreCollection = "dashboards"
	}
	if c.FirestoreDoc == "" {
		c.FirestoreDoc = "quality"
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 30 * time.Second
	}
	if c.DefaultPreset == "" {
		c.DefaultPreset = daterange.DefaultPreset
	}
	if _, err := daterange.ParsePreset(string(c.DefaultPreset)); err != nil {
		return err
	}

	switch c.DataSource {
	case SourceFile:
	case SourceHTTP:
		if c.DataURL == "" {
			return errs.NewValidationError("DATAURL is required for the http data source")
		}
	case SourceFirestore:
		if c.ProjectID == "" {
			return errs.NewValidationError("PROJECTID is required for the firestore data source")
		}
	case SourceS3:
		if c.S3Bucket == "" || c.S3Key == "" {
			return errs.NewValidationError("S3BUCKET and S3KEY are required for the s3 data source")
		}
	default:
		return errs.NewValidationError(fmt.Sprintf("unknown DATASOURCE %q", c.DataSource))
	}
	return nil
}

func getDuration(key string) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return 0
	}
	return d
}

func getUint(key string) uint {
	n, err := strconv.ParseUint(os.Getenv(key), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}
