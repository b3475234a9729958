package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/jarvis-assistant/backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8000"`

	// External service configurations
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"LLM_"`
	EmbeddingConnectorCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	VectorConnectorCfg    VectorConnectorConfig    `envPrefix:"VECTOR_"`

	// Prompt assembly configuration
	PromptCfg PromptConfig `envPrefix:"PROMPT_"`

	// Ingestion configuration
	IngestCfg IngestConfig `envPrefix:"INGEST_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// System prompt (loaded from file, with built-in default)
	SystemPrompt string

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Model            string `env:"MODEL" envDefault:"llama3.2"`
	GenerateEndpoint string `env:"GENERATE_ENDPOINT" envDefault:"/api/generate"`
	TagsEndpoint     string `env:"TAGS_ENDPOINT" envDefault:"/api/tags"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Model         string        `env:"MODEL" envDefault:"nomic-embed-text"`
	EmbedEndpoint string        `env:"ENDPOINT" envDefault:"/api/embeddings"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

type VectorConnectorConfig struct {
	HTTPClientConfig
	QueryEndpoint  string               `env:"QUERY_ENDPOINT" envDefault:"/query"`
	UpsertEndpoint string               `env:"UPSERT_ENDPOINT" envDefault:"/vectors/upsert"`
	DeleteEndpoint string               `env:"DELETE_ENDPOINT" envDefault:"/vectors/delete"`
	StatsEndpoint  string               `env:"STATS_ENDPOINT" envDefault:"/describe_index_stats"`
	APIKeyHeader   string               `env:"API_KEY_HEADER" envDefault:"Api-Key"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type PromptConfig struct {
	MaxTurns         int    `env:"MAX_TURNS" envDefault:"5"`
	MaxContextChars  int    `env:"MAX_CONTEXT_CHARS" envDefault:"4000"`
	TopK             int    `env:"TOP_K" envDefault:"3"`
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`
}

type IngestConfig struct {
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"50"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

const defaultSystemPrompt = `You are Jarvis, a helpful AI assistant for enterprise tasks.
You provide accurate, helpful, and contextually relevant responses.
If you use information from the knowledge base, reference it naturally in your response.
If you don't know something, say so honestly.`

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	if !flag.Parsed() {
		flag.Parse()
	}

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := loadSystemPrompt(cfg); err != nil {
		return nil, fmt.Errorf("load system prompt: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.PromptCfg.MaxTurns < 0 {
		return fmt.Errorf("PROMPT_MAX_TURNS must be >= 0, got %d", cfg.PromptCfg.MaxTurns)
	}

	if cfg.PromptCfg.MaxContextChars <= 0 {
		return fmt.Errorf("PROMPT_MAX_CONTEXT_CHARS must be > 0, got %d", cfg.PromptCfg.MaxContextChars)
	}

	if cfg.PromptCfg.TopK < 1 || cfg.PromptCfg.TopK > 100 {
		return fmt.Errorf("PROMPT_TOP_K must be between 1 and 100, got %d", cfg.PromptCfg.TopK)
	}

	if cfg.IngestCfg.ChunkSize <= 0 {
		return fmt.Errorf("INGEST_CHUNK_SIZE must be > 0, got %d", cfg.IngestCfg.ChunkSize)
	}

	if cfg.IngestCfg.ChunkOverlap < 0 || cfg.IngestCfg.ChunkOverlap >= cfg.IngestCfg.ChunkSize {
		return fmt.Errorf("INGEST_CHUNK_OVERLAP must be between 0 and INGEST_CHUNK_SIZE(%d), got %d",
			cfg.IngestCfg.ChunkSize, cfg.IngestCfg.ChunkOverlap)
	}

	return nil
}

func loadSystemPrompt(cfg *Config) error {
	path := cfg.PromptCfg.SystemPromptPath
	if path == "" {
		cfg.SystemPrompt = defaultSystemPrompt
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read system prompt file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("system prompt file is empty: %s", path)
	}

	cfg.SystemPrompt = string(data)
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
