package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoredMessage is one persisted turn of a chat session. Messages are
// append-only; insertion order is the only ordering guarantee.
type StoredMessage struct {
	ID        string
	TenantID  string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AppendMessage(ctx context.Context, tenantID, sessionID, role, content string) error {
	if tenantID == "" || sessionID == "" {
		return fmt.Errorf("tenant and session ids are required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO concierge_messages (id, tenant_id, session_id, role, content)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(),
		tenantID,
		sessionID,
		role,
		content,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// History returns the most recent limit messages in ascending order. The
// limit is applied server-side: the inner query selects newest-first, the
// outer query restores chronological order.
func (s *Store) History(ctx context.Context, tenantID, sessionID string, limit int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = 12
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT * FROM (
			SELECT id, tenant_id, session_id, role, content, created_at
			FROM concierge_messages
			WHERE tenant_id = $1 AND session_id = $2
			ORDER BY created_at DESC
			LIMIT $3
		) recent ORDER BY created_at ASC`,
		tenantID,
		sessionID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var message StoredMessage
		if err := rows.Scan(
			&message.ID,
			&message.TenantID,
			&message.SessionID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history rows: %w", err)
	}
	return messages, nil
}

// Summary returns the rolling summary for the session, or empty string when
// none has been written yet.
func (s *Store) Summary(ctx context.Context, tenantID, sessionID string) (string, error) {
	var summary string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT summary FROM concierge_summaries WHERE tenant_id = $1 AND session_id = $2`,
		tenantID,
		sessionID,
	).Scan(&summary)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load summary: %w", err)
	}
	return summary, nil
}

// UpsertSummary replaces the session's rolling summary.
func (s *Store) UpsertSummary(ctx context.Context, tenantID, sessionID, summary string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO concierge_summaries (tenant_id, session_id, summary, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (tenant_id, session_id)
		 DO UPDATE SET summary = EXCLUDED.summary, updated_at = NOW()`,
		tenantID,
		sessionID,
		summary,
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}
