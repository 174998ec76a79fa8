package knowledge

import "fmt"

// Retrieval phases for upstream errors.
const (
	PhaseEmbedding = "embedding"
	PhaseRetrieval = "retrieval"
)

// UpstreamError is a failed call to an external collaborator. Status and
// Message carry the upstream's own response so the handler can forward them.
type UpstreamError struct {
	Phase   string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s call failed with status %d: %s", e.Phase, e.Status, e.Message)
}
