package knowledge

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"aspire/pkg/llm"
	"aspire/pkg/logging"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *stubEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return s.vectors, s.err
}

type stubSearcher struct {
	matches []Match
	err     error
}

func (s *stubSearcher) Search(ctx context.Context, tenantID string, embedding []float32, matchCount int) ([]Match, error) {
	return s.matches, s.err
}

func wideVector() []float32 {
	v := make([]float32, 16)
	for i := range v {
		v[i] = 0.1
	}
	return v
}

func TestRetrieveSuccess(t *testing.T) {
	sim := 0.91
	r := NewRetriever(
		&stubEmbedder{vectors: [][]float32{wideVector()}},
		&stubSearcher{matches: []Match{{ID: "m1", Source: "waste-faq", Section: "Bins", Content: "Tuesday.", Similarity: &sim}}},
		logging.NewLogger(),
	)

	matches, block, err := r.Retrieve(context.Background(), "hinchinbrook", "when are bins collected", 5)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("unexpected matches %+v", matches)
	}
	if !strings.Contains(block, "[1. Source: waste-faq | Section: Bins | Relevance: 0.910]") {
		t.Fatalf("unexpected context block:\n%s", block)
	}
}

func TestRetrieveEmbeddingUpstreamError(t *testing.T) {
	r := NewRetriever(
		&stubEmbedder{err: &llm.APIError{StatusCode: http.StatusUnauthorized, Message: "bad key"}},
		&stubSearcher{},
		logging.NewLogger(),
	)

	_, _, err := r.Retrieve(context.Background(), "hinchinbrook", "hi", 5)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.Phase != PhaseEmbedding || upErr.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected error %+v", upErr)
	}
}

func TestRetrieveDegenerateVector(t *testing.T) {
	r := NewRetriever(
		&stubEmbedder{vectors: [][]float32{{0.1, 0.2, 0.3}}},
		&stubSearcher{},
		logging.NewLogger(),
	)

	_, _, err := r.Retrieve(context.Background(), "hinchinbrook", "hi", 5)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.Phase != PhaseEmbedding {
		t.Fatalf("unexpected phase %q", upErr.Phase)
	}
}

func TestFormatContext(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Fatalf("expected empty string for no matches, got %q", got)
	}

	sim := 0.7754
	block := FormatContext([]Match{
		{Source: "rates-faq", Section: "Payments", Content: "Pay online or at the office.", Similarity: &sim},
		{Source: "animal-reg", Section: "Dogs", Content: "Register dogs annually."},
	})
	if !strings.Contains(block, "[1. Source: rates-faq | Section: Payments | Relevance: 0.775]") {
		t.Fatalf("missing first entry label:\n%s", block)
	}
	if !strings.Contains(block, "[2. Source: animal-reg | Section: Dogs]") {
		t.Fatalf("similarity should be omitted when absent:\n%s", block)
	}
	if strings.Count(block, "rates-faq") != 1 || strings.Count(block, "animal-reg") != 1 {
		t.Fatalf("each source should appear exactly once:\n%s", block)
	}
}
