package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aspire/pkg/logging"
)

// Match is a single knowledge base hit, ranked by similarity descending as
// returned by the search backend.
type Match struct {
	ID         string   `json:"id"`
	Section    string   `json:"section"`
	Source     string   `json:"source"`
	Content    string   `json:"content"`
	Similarity *float64 `json:"similarity"`
	Priority   int      `json:"priority"`
}

// SearchClient calls the remote similarity-search procedure. Some backends
// want the embedding as a native JSON array, others as a bracketed numeric
// string; the client tries the array encoding first and falls back to the
// string encoding exactly once. This is a schema compatibility shim, not a
// transient-failure retry.
type SearchClient struct {
	client *http.Client
	url    string
	apiKey string
	logger logging.Logger
}

func NewSearchClient(url, apiKey string, logger logging.Logger) *SearchClient {
	return &SearchClient{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    url,
		apiKey: apiKey,
		logger: logger,
	}
}

type searchRequest struct {
	TenantID   string `json:"tenantId"`
	Embedding  any    `json:"embedding"`
	MatchCount int    `json:"matchCount"`
}

func (c *SearchClient) Search(ctx context.Context, tenantID string, embedding []float32, matchCount int) ([]Match, error) {
	if c.url == "" {
		return nil, errors.New("search url is not configured")
	}

	matches, status, message, err := c.post(ctx, searchRequest{
		TenantID:   tenantID,
		Embedding:  embedding,
		MatchCount: matchCount,
	})
	if err == nil {
		return matches, nil
	}
	if status == 0 {
		return nil, &UpstreamError{Phase: PhaseRetrieval, Status: http.StatusBadGateway, Message: err.Error()}
	}

	if c.logger != nil {
		c.logger.WithFields(logging.Fields{
			"tenant_id": tenantID,
			"status":    status,
		}).Warn("Vector search rejected array encoding, retrying with string encoding")
	}

	matches, status, message, err = c.post(ctx, searchRequest{
		TenantID:   tenantID,
		Embedding:  encodeBracketed(embedding),
		MatchCount: matchCount,
	})
	if err == nil {
		return matches, nil
	}
	if status == 0 {
		return nil, &UpstreamError{Phase: PhaseRetrieval, Status: http.StatusBadGateway, Message: err.Error()}
	}
	return nil, &UpstreamError{Phase: PhaseRetrieval, Status: status, Message: message}
}

// post performs one search call. A non-zero status with a non-nil error
// means the backend answered with a non-2xx response.
func (c *SearchClient) post(ctx context.Context, body searchRequest) ([]Match, int, string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, "", fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, "", fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, "", fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, strings.TrimSpace(string(raw)), fmt.Errorf("search returned %d", resp.StatusCode)
	}

	var matches []Match
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, 0, "", fmt.Errorf("decode search response: %w", err)
	}
	return matches, 0, "", nil
}

// encodeBracketed renders the embedding as "[0.1,0.2,...]" for backends that
// expect a pgvector-style string literal.
func encodeBracketed(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
