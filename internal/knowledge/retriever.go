package knowledge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aspire/pkg/llm"
	"aspire/pkg/logging"
)

// minEmbeddingDimensions is a sanity floor: anything shorter is a degenerate
// vector, not a usable embedding.
const minEmbeddingDimensions = 10

type Searcher interface {
	Search(ctx context.Context, tenantID string, embedding []float32, matchCount int) ([]Match, error)
}

// Retriever embeds the user's query and runs the tenant-scoped similarity
// search, returning the raw matches and a formatted context block.
type Retriever struct {
	embedder llm.EmbeddingClient
	searcher Searcher
	logger   logging.Logger
}

func NewRetriever(embedder llm.EmbeddingClient, searcher Searcher, logger logging.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		logger:   logger,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, tenantID, query string, matchCount int) ([]Match, string, error) {
	start := time.Now()

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		retrievalsTotal.WithLabelValues(PhaseEmbedding, "error").Inc()
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			return nil, "", &UpstreamError{Phase: PhaseEmbedding, Status: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, "", &UpstreamError{Phase: PhaseEmbedding, Status: http.StatusBadGateway, Message: err.Error()}
	}
	if len(vectors) == 0 || len(vectors[0]) < minEmbeddingDimensions {
		retrievalsTotal.WithLabelValues(PhaseEmbedding, "error").Inc()
		return nil, "", &UpstreamError{
			Phase:   PhaseEmbedding,
			Status:  http.StatusBadGateway,
			Message: "embedding service returned a degenerate vector",
		}
	}

	matches, err := r.searcher.Search(ctx, tenantID, vectors[0], matchCount)
	if err != nil {
		retrievalsTotal.WithLabelValues(PhaseRetrieval, "error").Inc()
		return nil, "", err
	}

	retrievalsTotal.WithLabelValues(PhaseRetrieval, "success").Inc()
	retrievalDuration.Observe(time.Since(start).Seconds())
	retrievalMatches.Observe(float64(len(matches)))
	if r.logger != nil {
		r.logger.WithFields(logging.Fields{
			"tenant_id": tenantID,
			"matches":   len(matches),
		}).Debug("Knowledge retrieval complete")
	}

	return matches, FormatContext(matches), nil
}

// FormatContext renders matches into the context block handed to the model.
// An empty match list yields an empty string, no header.
func FormatContext(matches []Match) string {
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Knowledge base context:\n")
	for i, match := range matches {
		fmt.Fprintf(&b, "\n[%d. Source: %s | Section: %s", i+1, match.Source, match.Section)
		if match.Similarity != nil {
			fmt.Fprintf(&b, " | Relevance: %.3f", *match.Similarity)
		}
		b.WriteString("]\n")
		b.WriteString(match.Content)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
