package utils

import (
	"strings"
	"testing"
	"time"
)

func setMongoEnvs(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
}

func TestLoadConfigDefaults(t *testing.T) {
	setMongoEnvs(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	if cfg.App.Port != "3000" {
		t.Fatalf("Port = %s, want 3000", cfg.App.Port)
	}
	if cfg.Mongo.Database != "movies" {
		t.Fatalf("Mongo.Database = %s, want movies", cfg.Mongo.Database)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("ReadTimeout = %s, want 15s", cfg.Server.ReadTimeout)
	}
	if !cfg.Docs.Enabled || cfg.Docs.Path != "/api-docs" {
		t.Fatalf("Docs = %+v, want enabled at /api-docs", cfg.Docs)
	}
	if cfg.RateLimit.Enabled {
		t.Fatalf("RateLimit.Enabled = true, want off unless RATE_LIMIT_ENABLED is set")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "FILE")
	t.Setenv("DATA_DIR", "/tmp/catalog")
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_WRITE_TIMEOUT", "30s")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_BURST", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	if cfg.Storage.Backend != BackendFile {
		t.Fatalf("Backend = %s, want %s", cfg.Storage.Backend, BackendFile)
	}
	if cfg.File.DataDir != "/tmp/catalog" {
		t.Fatalf("DataDir = %s, want /tmp/catalog", cfg.File.DataDir)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("Port = %s, want 9090", cfg.App.Port)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Fatalf("WriteTimeout = %s, want 30s", cfg.Server.WriteTimeout)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Burst != 5 {
		t.Fatalf("RateLimit = %+v, want enabled with burst 5", cfg.RateLimit)
	}
}

func TestLoadConfigLegacyHostURI(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "")
	t.Setenv("HOST_URI", "mongodb://legacy:27017")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if cfg.Mongo.URI != "mongodb://legacy:27017" {
		t.Fatalf("Mongo.URI = %s, want legacy uri", cfg.Mongo.URI)
	}
}

func TestLoadConfigValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T)
		wantErr string
	}{
		{
			name: "unknown backend",
			setup: func(t *testing.T) {
				t.Setenv("STORAGE_BACKEND", "cassandra")
			},
			wantErr: "STORAGE_BACKEND",
		},
		{
			name: "missing mongo uri",
			setup: func(t *testing.T) {
				t.Setenv("STORAGE_BACKEND", "mongo")
				t.Setenv("MONGO_URI", "")
				t.Setenv("HOST_URI", "")
			},
			wantErr: "MONGO_URI",
		},
		{
			name: "missing postgres host",
			setup: func(t *testing.T) {
				t.Setenv("STORAGE_BACKEND", "postgres")
				t.Setenv("DB_HOST", "")
				t.Setenv("DB_NAME", "movies")
			},
			wantErr: "DB_HOST",
		},
		{
			name: "non-positive rate",
			setup: func(t *testing.T) {
				setMongoEnvs(t)
				t.Setenv("RATE_LIMIT_ENABLED", "true")
				t.Setenv("RATE_LIMIT_RPS", "0")
			},
			wantErr: "RATE_LIMIT_RPS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			_, err := LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("LoadConfig() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}
