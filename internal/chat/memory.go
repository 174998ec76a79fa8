package chat

import (
	"context"

	"aspire/pkg/logging"
)

// MessageStore is the persistence surface the memory layer needs. *Store
// satisfies it; tests swap in fakes.
type MessageStore interface {
	AppendMessage(ctx context.Context, tenantID, sessionID, role, content string) error
	History(ctx context.Context, tenantID, sessionID string, limit int) ([]StoredMessage, error)
	Summary(ctx context.Context, tenantID, sessionID string) (string, error)
	UpsertSummary(ctx context.Context, tenantID, sessionID, summary string) error
}

// Memory wraps the store with best-effort semantics: reads degrade to empty
// results and writes are logged but never surfaced. A memory outage must not
// take down the chat turn.
type Memory struct {
	store         MessageStore
	logger        logging.Logger
	readsEnabled  bool
	writesEnabled bool
}

func NewMemory(store MessageStore, logger logging.Logger, readsEnabled, writesEnabled bool) *Memory {
	return &Memory{
		store:         store,
		logger:        logger,
		readsEnabled:  readsEnabled,
		writesEnabled: writesEnabled,
	}
}

func (m *Memory) History(ctx context.Context, tenantID, sessionID string, limit int) []StoredMessage {
	if !m.readsEnabled {
		return nil
	}
	messages, err := m.store.History(ctx, tenantID, sessionID, limit)
	if err != nil {
		memoryOps.WithLabelValues("history", "error").Inc()
		m.logger.WithFields(logging.Fields{
			"tenant_id":  tenantID,
			"session_id": sessionID,
			"error":      err,
		}).Warn("Failed to load conversation history, continuing without it")
		return nil
	}
	memoryOps.WithLabelValues("history", "ok").Inc()
	return messages
}

func (m *Memory) Summary(ctx context.Context, tenantID, sessionID string) string {
	if !m.readsEnabled {
		return ""
	}
	summary, err := m.store.Summary(ctx, tenantID, sessionID)
	if err != nil {
		memoryOps.WithLabelValues("summary_read", "error").Inc()
		m.logger.WithFields(logging.Fields{
			"tenant_id":  tenantID,
			"session_id": sessionID,
			"error":      err,
		}).Warn("Failed to load conversation summary, continuing without it")
		return ""
	}
	memoryOps.WithLabelValues("summary_read", "ok").Inc()
	return summary
}

func (m *Memory) RecordMessage(ctx context.Context, tenantID, sessionID, role, content string) {
	if !m.writesEnabled {
		return
	}
	if err := m.store.AppendMessage(ctx, tenantID, sessionID, role, content); err != nil {
		memoryOps.WithLabelValues("append", "error").Inc()
		m.logger.WithFields(logging.Fields{
			"tenant_id":  tenantID,
			"session_id": sessionID,
			"role":       role,
			"error":      err,
		}).Warn("Failed to persist chat message")
		return
	}
	memoryOps.WithLabelValues("append", "ok").Inc()
}

func (m *Memory) SaveSummary(ctx context.Context, tenantID, sessionID, summary string) {
	if !m.writesEnabled || summary == "" {
		return
	}
	if err := m.store.UpsertSummary(ctx, tenantID, sessionID, summary); err != nil {
		memoryOps.WithLabelValues("summary_write", "error").Inc()
		m.logger.WithFields(logging.Fields{
			"tenant_id":  tenantID,
			"session_id": sessionID,
			"error":      err,
		}).Warn("Failed to persist conversation summary")
		return
	}
	memoryOps.WithLabelValues("summary_write", "ok").Inc()
}
