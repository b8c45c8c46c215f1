package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACTALYZER_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %s", cfg.Port)
	}
	if cfg.AnalysisModel != "gpt-4o-mini" {
		t.Errorf("unexpected analysis model %s", cfg.AnalysisModel)
	}
	if cfg.SummaryModel != "gpt-4o" {
		t.Errorf("unexpected summary model %s", cfg.SummaryModel)
	}
	if cfg.MaxChunkTokens != 8000 {
		t.Errorf("expected 8000 chunk tokens, got %d", cfg.MaxChunkTokens)
	}
	if cfg.ChunkOverlapTokens != 500 {
		t.Errorf("expected 500 overlap tokens, got %d", cfg.ChunkOverlapTokens)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h job TTL, got %v", cfg.JobTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MAX_CHUNK_TOKENS", "4000")
	t.Setenv("ANALYSIS_TEMPERATURE", "0.7")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("expected env port, got %s", cfg.Port)
	}
	if cfg.MaxChunkTokens != 4000 {
		t.Errorf("expected env chunk tokens, got %d", cfg.MaxChunkTokens)
	}
	if cfg.AnalysisTemperature != 0.7 {
		t.Errorf("expected env temperature, got %f", cfg.AnalysisTemperature)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.JobTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actalyzer.toml")
	data := []byte("port = \"7000\"\nmax_chunk_tokens = 2000\nanalysis_model_name = \"gpt-4o\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ACTALYZER_CONFIG", path)
	t.Setenv("PORT", "7777") // env wins over file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "7777" {
		t.Errorf("env must override file, got port %s", cfg.Port)
	}
	if cfg.MaxChunkTokens != 2000 {
		t.Errorf("expected file chunk tokens, got %d", cfg.MaxChunkTokens)
	}
	if cfg.AnalysisModel != "gpt-4o" {
		t.Errorf("expected file model, got %s", cfg.AnalysisModel)
	}
}

func TestLoad_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("port = [not toml"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACTALYZER_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		APIKey:             "secret",
		OpenAIAPIKey:       "sk-test",
		MaxChunkTokens:     8000,
		ChunkOverlapTokens: 500,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	missingAuth := valid
	missingAuth.APIKey = ""
	if err := missingAuth.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}

	missingOpenAI := valid
	missingOpenAI.OpenAIAPIKey = ""
	if err := missingOpenAI.Validate(); err == nil {
		t.Error("expected error for missing OpenAI key")
	}

	badOverlap := valid
	badOverlap.ChunkOverlapTokens = 8000
	if err := badOverlap.Validate(); err == nil {
		t.Error("expected error when overlap >= chunk size")
	}
}
