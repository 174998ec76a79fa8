package chat

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAppendMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO concierge_messages").
		WithArgs(sqlmock.AnyArg(), "hinchinbrook", "sess_1", "user", "hello").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db)
	if err := store.AppendMessage(context.Background(), "hinchinbrook", "sess_1", "user", "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAppendMessageRequiresIdentifiers(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	if err := store.AppendMessage(context.Background(), "", "sess_1", "user", "hi"); err == nil {
		t.Fatal("expected error for missing tenant id")
	}
}

func TestHistoryReturnsChronologicalOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "tenant_id", "session_id", "role", "content", "created_at"}).
		AddRow("m1", "hinchinbrook", "sess_1", "user", "first", now.Add(-2*time.Minute)).
		AddRow("m2", "hinchinbrook", "sess_1", "assistant", "second", now.Add(-time.Minute))

	mock.ExpectQuery("ORDER BY created_at ASC").
		WithArgs("hinchinbrook", "sess_1", 12).
		WillReturnRows(rows)

	store := NewStore(db)
	messages, err := store.History(context.Background(), "hinchinbrook", "sess_1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "first" || messages[1].Content != "second" {
		t.Fatalf("messages out of order: %+v", messages)
	}
}

func TestSummaryMissingReturnsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT summary FROM concierge_summaries").
		WithArgs("hinchinbrook", "sess_1").
		WillReturnError(sql.ErrNoRows)

	store := NewStore(db)
	summary, err := store.Summary(context.Background(), "hinchinbrook", "sess_1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary != "" {
		t.Fatalf("expected empty summary, got %q", summary)
	}
}

func TestUpsertSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("ON CONFLICT \\(tenant_id, session_id\\)").
		WithArgs("hinchinbrook", "sess_1", "Resident asked about bins.").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db)
	if err := store.UpsertSummary(context.Background(), "hinchinbrook", "sess_1", "Resident asked about bins."); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
