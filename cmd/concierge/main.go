package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aspire/internal/assistant"
	"aspire/internal/chat"
	"aspire/internal/concierge"
	"aspire/internal/knowledge"
	"aspire/internal/notify"
	"aspire/pkg/config"
	"aspire/pkg/database"
	"aspire/pkg/email"
	"aspire/pkg/llm"
	"aspire/pkg/logging"
	"aspire/pkg/monitoring"
	"aspire/pkg/server"
	"aspire/pkg/version"
)

func main() {
	logger := logging.NewLoggerWithService("concierge")

	config.LoadEnv(logger)

	logger.Info("Starting Concierge (Council Assistant API)")

	cfg := concierge.Load()

	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db, logger); err != nil {
		cancel()
		logger.WithError(err).Fatal("Failed to apply database schema")
	}
	cancel()

	healthChecker := monitoring.NewHealthChecker("concierge", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("concierge", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"LLM_MODEL":    cfg.LLM.Model,
	}))

	registry, resolver, err := assistant.BuiltinRegistry()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load tenant registry")
	}

	llmProvider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize LLM provider")
	}

	var retriever chat.KnowledgeRetriever
	if cfg.KBEnabled && cfg.SearchRPCURL != "" {
		embeddingClient, err := llm.NewEmbeddingClient(cfg.Embedding)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize embedding client - knowledge base disabled")
		} else {
			searchClient := knowledge.NewSearchClient(cfg.SearchRPCURL, cfg.SearchRPCKey, logger)
			retriever = knowledge.NewRetriever(embeddingClient, searchClient, logger)
		}
	} else {
		logger.Warn("SEARCH_RPC_URL not set or KB disabled - answering without knowledge base")
	}

	// Notification delivery. The chat tool reaches this endpoint over HTTP,
	// by default looping back to this process.
	notifier := notify.NewNotifier(email.NewSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SenderEmail,
		FromName: cfg.SenderName,
	}), cfg.RecipientEmail, logger)
	notifyHandler := notify.NewHandler(notifier, notify.NewContactStore(db), logger)

	notifyURL := cfg.NotifyURL
	if notifyURL == "" {
		notifyURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
	}

	store := chat.NewStore(db)
	memory := chat.NewMemory(store, logger, cfg.MemoryReadsEnabled, cfg.MemoryWritesEnabled)
	executor := chat.NewNotificationExecutor(notifyURL, logger)
	orchestrator := chat.NewOrchestrator(llmProvider, executor, logger, cfg.ToolCallingEnabled)

	summarize := func(ctx context.Context, previous, userMessage, assistantMessage string) (string, error) {
		return chat.UpdateRollingSummary(ctx, llmProvider, cfg.SummaryModel, previous, userMessage, assistantMessage, cfg.SummaryMaxChars)
	}

	chatHandler := chat.NewChatHandler(resolver, registry, retriever, memory, orchestrator, summarize, logger, chat.HandlerConfig{
		HistoryLimit:    cfg.HistoryLimit,
		KBEnabled:       cfg.KBEnabled,
		SummaryMaxChars: cfg.SummaryMaxChars,
	})

	router := server.SetupServiceRouter(logger, "concierge", healthChecker, metricsCollector)
	apiGroup := router.Group("/api")
	chatHandler.RegisterRoutes(apiGroup)
	notifyHandler.RegisterRoutes(apiGroup)
	apiGroup.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "concierge",
			"version": version.Version,
		})
	})

	serverConfig := server.DefaultConfig("concierge", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
