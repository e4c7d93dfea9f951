package config

import "testing"

func TestLoadUploadAndEngineDefaults(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE_MB", "")
	t.Setenv("ALLOWED_FILE_TYPES", "")
	t.Setenv("ENGINE_TIMEOUT_SECONDS", "")
	t.Setenv("ACCEPT_CONFIDENCE", "")
	t.Setenv("ACCEPT_DATA_QUALITY", "")

	cfg := Load()
	if cfg.MaxFileSizeMB != 100 {
		t.Fatalf("expected default max file size 100, got %d", cfg.MaxFileSizeMB)
	}
	if len(cfg.AllowedFileTypes) != 7 {
		t.Fatalf("expected 7 default file types, got %v", cfg.AllowedFileTypes)
	}
	if cfg.EngineTimeoutSeconds != 120 {
		t.Fatalf("expected default engine timeout 120, got %d", cfg.EngineTimeoutSeconds)
	}
	if cfg.AcceptConfidence != 0.70 {
		t.Fatalf("expected default confidence threshold 0.70, got %v", cfg.AcceptConfidence)
	}
	if cfg.AcceptDataQuality != 0.70 {
		t.Fatalf("expected default data quality threshold 0.70, got %v", cfg.AcceptDataQuality)
	}
}

func TestLoadParsesOverridesAndNormalizesTypes(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE_MB", "25")
	t.Setenv("ALLOWED_FILE_TYPES", ".PDF, csv , .xlsx")
	t.Setenv("ACCEPT_CONFIDENCE", "0.85")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")

	cfg := Load()
	if cfg.MaxFileSizeMB != 25 {
		t.Fatalf("expected max file size 25, got %d", cfg.MaxFileSizeMB)
	}
	want := []string{"pdf", "csv", "xlsx"}
	if len(cfg.AllowedFileTypes) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.AllowedFileTypes)
	}
	for i, format := range want {
		if cfg.AllowedFileTypes[i] != format {
			t.Fatalf("expected %v, got %v", want, cfg.AllowedFileTypes)
		}
	}
	if cfg.AcceptConfidence != 0.85 {
		t.Fatalf("expected confidence threshold 0.85, got %v", cfg.AcceptConfidence)
	}
	if cfg.RateLimitRequests != 10 {
		t.Fatalf("expected rate limit 10, got %d", cfg.RateLimitRequests)
	}
}

func TestLoadFallsBackOnUnparsableNumbers(t *testing.T) {
	t.Setenv("ENGINE_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("ACCEPT_CONFIDENCE", "lots")

	cfg := Load()
	if cfg.EngineTimeoutSeconds != 120 {
		t.Fatalf("expected fallback engine timeout 120, got %d", cfg.EngineTimeoutSeconds)
	}
	if cfg.AcceptConfidence != 0.70 {
		t.Fatalf("expected fallback confidence threshold 0.70, got %v", cfg.AcceptConfidence)
	}
}
