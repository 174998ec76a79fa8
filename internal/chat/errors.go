package chat

import (
	"errors"
	"net/http"

	"aspire/internal/knowledge"
	"aspire/pkg/llm"
)

var (
	ErrMissingTenant = errors.New("tenant could not be resolved")
	ErrMissingInput  = errors.New("input is required")
)

// Orchestration phases, extending the retrieval phases defined by the
// knowledge package.
const (
	PhaseCompletion    = "completion"
	PhaseToolExecution = "tool_execution"
)

// UpstreamError is aliased from the knowledge package so the handler deals
// with a single error type across retrieval and completion failures.
type UpstreamError = knowledge.UpstreamError

// upstreamError wraps a provider failure, preserving the upstream status and
// body when the failure was a non-2xx response.
func upstreamError(phase string, err error) *UpstreamError {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Phase: phase, Status: apiErr.StatusCode, Message: apiErr.Message}
	}
	return &UpstreamError{Phase: phase, Status: http.StatusBadGateway, Message: err.Error()}
}
