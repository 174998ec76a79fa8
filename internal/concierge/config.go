package concierge

import (
	"aspire/pkg/config"
	"aspire/pkg/llm"
)

// Config is the full runtime configuration for the concierge service,
// loaded once at startup from the environment.
type Config struct {
	Port        string
	DatabaseURL string

	LLM       llm.Config
	Embedding llm.Config

	SearchRPCURL string
	SearchRPCKey string
	KBEnabled    bool

	HistoryLimit        int
	MemoryReadsEnabled  bool
	MemoryWritesEnabled bool
	SummaryMaxChars     int
	SummaryModel        string

	ToolCallingEnabled bool
	NotifyURL          string

	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPassword   string
	SenderEmail    string
	SenderName     string
	RecipientEmail string
}

func Load() Config {
	llmConfig := llm.LoadConfig()

	return Config{
		Port:        config.GetEnv("PORT", "8080"),
		DatabaseURL: config.RequireEnv("DATABASE_URL"),

		LLM:       llmConfig,
		Embedding: llm.LoadEmbeddingConfig(),

		SearchRPCURL: config.GetEnv("SEARCH_RPC_URL", ""),
		SearchRPCKey: config.GetEnv("SEARCH_RPC_KEY", ""),
		KBEnabled:    config.GetEnvBool("KB_ENABLED", true),

		HistoryLimit:        config.GetEnvInt("HISTORY_LIMIT", 12),
		MemoryReadsEnabled:  config.GetEnvBool("MEMORY_READS_ENABLED", true),
		MemoryWritesEnabled: config.GetEnvBool("MEMORY_WRITES_ENABLED", true),
		SummaryMaxChars:     config.GetEnvInt("MEMORY_SUMMARY_MAX_CHARS", 1200),
		SummaryModel:        config.GetEnv("MEMORY_SUMMARY_MODEL", llmConfig.Model),

		ToolCallingEnabled: config.GetEnvBool("TOOL_CALLING_ENABLED", true),
		NotifyURL:          config.GetEnv("NOTIFY_URL", ""),

		SMTPHost:       config.GetEnv("SMTP_HOST", ""),
		SMTPPort:       config.GetEnv("SMTP_PORT", "587"),
		SMTPUser:       config.GetEnv("SMTP_USER", ""),
		SMTPPassword:   config.GetEnv("SMTP_PASSWORD", ""),
		SenderEmail:    config.GetEnv("SENDER_EMAIL", ""),
		SenderName:     config.GetEnv("SENDER_NAME", "Council Assistant"),
		RecipientEmail: config.GetEnv("RECIPIENT_EMAIL", ""),
	}
}
