package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// OpenAI
	OpenAIAPIKey  string
	AnalysisModel string
	SummaryModel  string

	// Pipeline
	MaxChunkTokens            int
	ChunkOverlapTokens        int
	SummaryMaxTokens          int
	FinancialSummaryMaxTokens int
	AnalysisTemperature       float64
	SummaryTemperature        float64

	// LLM client
	LLMRequestsPerSecond float64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int
	JobTTL       time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Persistence
	DBPath string

	// CORS
	AllowedOrigins []string
}

// fileConfig mirrors the optional TOML file. Keys use the documented
// option names; env vars override whatever the file sets.
type fileConfig struct {
	Port                      string   `toml:"port"`
	MaxChunkTokens            int      `toml:"max_chunk_tokens"`
	ChunkOverlapTokens        int      `toml:"chunk_overlap_tokens"`
	SummaryMaxTokens          int      `toml:"summary_max_tokens"`
	FinancialSummaryMaxTokens int      `toml:"financial_summary_max_tokens"`
	AnalysisTemperature       float64  `toml:"analysis_temperature"`
	SummaryTemperature        float64  `toml:"summary_temperature"`
	AnalysisModel             string   `toml:"analysis_model_name"`
	SummaryModel              string   `toml:"summary_model_name"`
	WorkerCount               int      `toml:"worker_count"`
	MaxQueueSize              int      `toml:"max_queue_size"`
	MaxUploadBytes            int64    `toml:"max_upload_bytes"`
	DBPath                    string   `toml:"db_path"`
	AllowedOrigins            []string `toml:"allowed_origins"`
}

// Load builds the configuration: defaults, then the TOML file named by
// ACTALYZER_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port: "8090",

		AnalysisModel: "gpt-4o-mini",
		SummaryModel:  "gpt-4o",

		MaxChunkTokens:            8000,
		ChunkOverlapTokens:        500,
		SummaryMaxTokens:          800,
		FinancialSummaryMaxTokens: 600,
		AnalysisTemperature:       0.1,
		SummaryTemperature:        0.3,

		WorkerCount:    2,
		MaxQueueSize:   50,
		JobTTL:         1 * time.Hour,
		MaxUploadBytes: 15 * 1024 * 1024,
		DBPath:         "data/actalyzer.db",
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
	}

	if path := os.Getenv("ACTALYZER_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.MaxChunkTokens > 0 {
		cfg.MaxChunkTokens = fc.MaxChunkTokens
	}
	if fc.ChunkOverlapTokens > 0 {
		cfg.ChunkOverlapTokens = fc.ChunkOverlapTokens
	}
	if fc.SummaryMaxTokens > 0 {
		cfg.SummaryMaxTokens = fc.SummaryMaxTokens
	}
	if fc.FinancialSummaryMaxTokens > 0 {
		cfg.FinancialSummaryMaxTokens = fc.FinancialSummaryMaxTokens
	}
	if fc.AnalysisTemperature > 0 {
		cfg.AnalysisTemperature = fc.AnalysisTemperature
	}
	if fc.SummaryTemperature > 0 {
		cfg.SummaryTemperature = fc.SummaryTemperature
	}
	if fc.AnalysisModel != "" {
		cfg.AnalysisModel = fc.AnalysisModel
	}
	if fc.SummaryModel != "" {
		cfg.SummaryModel = fc.SummaryModel
	}
	if fc.WorkerCount > 0 {
		cfg.WorkerCount = fc.WorkerCount
	}
	if fc.MaxQueueSize > 0 {
		cfg.MaxQueueSize = fc.MaxQueueSize
	}
	if fc.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envOr("PORT", cfg.Port)

	cfg.APIKey = envOr("ACTALYZER_API_KEY", cfg.APIKey)
	cfg.OpenAIAPIKey = envOr("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.AnalysisModel = envOr("ANALYSIS_MODEL_NAME", cfg.AnalysisModel)
	cfg.SummaryModel = envOr("SUMMARY_MODEL_NAME", cfg.SummaryModel)

	cfg.MaxChunkTokens = envInt("MAX_CHUNK_TOKENS", cfg.MaxChunkTokens)
	cfg.ChunkOverlapTokens = envInt("CHUNK_OVERLAP_TOKENS", cfg.ChunkOverlapTokens)
	cfg.SummaryMaxTokens = envInt("SUMMARY_MAX_TOKENS", cfg.SummaryMaxTokens)
	cfg.FinancialSummaryMaxTokens = envInt("FINANCIAL_SUMMARY_MAX_TOKENS", cfg.FinancialSummaryMaxTokens)
	cfg.AnalysisTemperature = envFloat("ANALYSIS_TEMPERATURE", cfg.AnalysisTemperature)
	cfg.SummaryTemperature = envFloat("SUMMARY_TEMPERATURE", cfg.SummaryTemperature)

	cfg.LLMRequestsPerSecond = envFloat("LLM_REQUESTS_PER_SECOND", cfg.LLMRequestsPerSecond)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.DBPath = envOr("DB_PATH", cfg.DBPath)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("ACTALYZER_API_KEY is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ChunkOverlapTokens >= c.MaxChunkTokens {
		return fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", c.ChunkOverlapTokens, c.MaxChunkTokens)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
