package config

import (
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/errs"
)

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("DATASOURCE", "HTTP")
	t.Setenv("DATAURL", "https://example.com/dashboard.json")
	t.Setenv("HTTPMAXTRIES", "5")
	t.Setenv("SESSIONTTL", "10m")
	t.Setenv("DEFAULTPRESET", "last90days")

	cfg := New()
	if cfg.DataSource != SourceHTTP || cfg.DataURL != "https://example.com/dashboard.json" {
		t.Errorf("source = %s %s", cfg.DataSource, cfg.DataURL)
	}
	if cfg.HTTPMaxTries != 5 || cfg.SessionTTL != 10*time.Minute {
		t.Errorf("tries = %d ttl = %s", cfg.HTTPMaxTries, cfg.SessionTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultPreset != daterange.Last90Days {
		t.Errorf("preset = %s", cfg.DefaultPreset)
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogFormat != "json" || cfg.DataSource != SourceFile || cfg.DataFile == "" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.DefaultPreset != daterange.DefaultPreset {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := map[string]*Config{
		"http without url":          {DataSource: SourceHTTP},
		"firestore without project": {DataSource: SourceFirestore},
		"s3 without key":            {DataSource: SourceS3, S3Bucket: "b"},
		"unknown source":            {DataSource: "ftp"},
		"bad preset":                {DefaultPreset: "last2weeks"},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			var ve *errs.ValidationError
			if err := cfg.Validate(); !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}
