package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jarvis-assistant/backend/internal/api"
	chatapi "github.com/jarvis-assistant/backend/internal/api/chat"
	healthapi "github.com/jarvis-assistant/backend/internal/api/health"
	knowledgeapi "github.com/jarvis-assistant/backend/internal/api/knowledge"
	"github.com/jarvis-assistant/backend/internal/config"
	"github.com/jarvis-assistant/backend/internal/integration/embedding"
	"github.com/jarvis-assistant/backend/internal/integration/llm"
	"github.com/jarvis-assistant/backend/internal/integration/vectordb"
	"github.com/jarvis-assistant/backend/internal/pkg/chunker"
	"github.com/jarvis-assistant/backend/internal/pkg/validator"
	"github.com/jarvis-assistant/backend/internal/usecase/chat"
	"github.com/jarvis-assistant/backend/internal/usecase/knowledge"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize external service connectors (with mock support)
	llmConnector, vectorConnector := setupConnectors(cfg, logger)

	// Initialize validators and prompt assembler
	payloadValidator := validator.New(100)
	assembler := chat.NewAssembler(cfg.SystemPrompt)
	textChunker := chunker.New(cfg.IngestCfg.ChunkSize, cfg.IngestCfg.ChunkOverlap)
	logger.Info("Validators initialized")

	// Initialize use cases
	chatUC := chat.NewUsecase(
		vectorConnector,
		llmConnector,
		assembler,
		payloadValidator,
		cfg.PromptCfg,
		logger,
	)

	knowledgeUC := knowledge.NewUsecase(
		vectorConnector,
		textChunker,
		payloadValidator,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC)
	knowledgeHandler := knowledgeapi.NewHandler(knowledgeUC)
	healthHandler := healthapi.NewHandler(llmConnector, vectorConnector)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, knowledgeHandler, healthHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server. WriteTimeout stays unset: streamed replies may
	// legitimately take longer than any fixed response deadline.
	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// BuildIngest wires the knowledge use case for the ingestion CLI. It shares
// the server's configuration and connectors but starts no HTTP listener.
func BuildIngest() (*knowledge.Usecase, *config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	_, vectorConnector := setupConnectors(cfg, logger)

	payloadValidator := validator.New(100)
	textChunker := chunker.New(cfg.IngestCfg.ChunkSize, cfg.IngestCfg.ChunkOverlap)

	knowledgeUC := knowledge.NewUsecase(
		vectorConnector,
		textChunker,
		payloadValidator,
		logger,
	)

	return knowledgeUC, cfg, logger, nil
}

// generationService is the union of the generation surfaces the builder
// hands out: the chat pipeline and the health endpoint.
type generationService interface {
	chat.GenerationClient
	healthapi.GenerationHealth
}

type vectorService interface {
	chat.RetrievalClient
	knowledge.VectorStore
	healthapi.RetrievalHealth
}

func setupConnectors(cfg *config.Config, logger *zap.Logger) (generationService, vectorService) {
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		return llm.NewMockConnector(logger), vectordb.NewMockConnector(logger)
	}

	logger.Info("Using real connectors for external services")
	embeddingConnector := embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
	return llm.NewConnector(cfg.LLMConnectorCfg, logger),
		vectordb.NewConnector(cfg.VectorConnectorCfg, embeddingConnector, logger)
}
