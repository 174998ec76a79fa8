package chat

import (
	"context"
	"errors"
	"testing"

	"aspire/pkg/logging"
)

type fakeStore struct {
	messages   []StoredMessage
	summary    string
	appendErr  error
	historyErr error
	summaryErr error
	upsertErr  error

	appended []StoredMessage
	upserted []string
}

func (f *fakeStore) AppendMessage(ctx context.Context, tenantID, sessionID, role, content string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, StoredMessage{TenantID: tenantID, SessionID: sessionID, Role: role, Content: content})
	return nil
}

func (f *fakeStore) History(ctx context.Context, tenantID, sessionID string, limit int) ([]StoredMessage, error) {
	return f.messages, f.historyErr
}

func (f *fakeStore) Summary(ctx context.Context, tenantID, sessionID string) (string, error) {
	return f.summary, f.summaryErr
}

func (f *fakeStore) UpsertSummary(ctx context.Context, tenantID, sessionID, summary string) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, summary)
	return nil
}

func TestMemoryReadsDegradeToEmpty(t *testing.T) {
	store := &fakeStore{
		historyErr: errors.New("db down"),
		summaryErr: errors.New("db down"),
	}
	memory := NewMemory(store, logging.NewLogger(), true, true)

	if got := memory.History(context.Background(), "t", "s", 10); got != nil {
		t.Fatalf("expected nil history on error, got %+v", got)
	}
	if got := memory.Summary(context.Background(), "t", "s"); got != "" {
		t.Fatalf("expected empty summary on error, got %q", got)
	}
}

func TestMemoryWriteFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("db down"), upsertErr: errors.New("db down")}
	memory := NewMemory(store, logging.NewLogger(), true, true)

	memory.RecordMessage(context.Background(), "t", "s", "user", "hi")
	memory.SaveSummary(context.Background(), "t", "s", "summary")
}

func TestMemoryDisabledSkipsStore(t *testing.T) {
	store := &fakeStore{messages: []StoredMessage{{Content: "hi"}}, summary: "prior"}
	memory := NewMemory(store, logging.NewLogger(), false, false)

	if got := memory.History(context.Background(), "t", "s", 10); got != nil {
		t.Fatalf("expected nil history with reads disabled, got %+v", got)
	}
	if got := memory.Summary(context.Background(), "t", "s"); got != "" {
		t.Fatalf("expected empty summary with reads disabled, got %q", got)
	}

	memory.RecordMessage(context.Background(), "t", "s", "user", "hi")
	if len(store.appended) != 0 {
		t.Fatalf("expected no writes with writes disabled, got %+v", store.appended)
	}
}

func TestMemoryEmptySummaryNotSaved(t *testing.T) {
	store := &fakeStore{}
	memory := NewMemory(store, logging.NewLogger(), true, true)

	memory.SaveSummary(context.Background(), "t", "s", "")
	if len(store.upserted) != 0 {
		t.Fatalf("expected no upsert for empty summary, got %+v", store.upserted)
	}
}
