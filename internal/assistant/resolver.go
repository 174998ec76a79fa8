package assistant

import "strings"

// Resolver maps inbound request identity to a tenant id. An explicit tenant
// id always wins; otherwise the opaque assistant id is looked up in the
// static assistant map.
type Resolver struct {
	assistants map[string]string
}

func NewResolver(assistants map[string]string) *Resolver {
	normalized := make(map[string]string, len(assistants))
	for assistantID, tenantID := range assistants {
		normalized[normalizeID(assistantID)] = normalizeID(tenantID)
	}
	return &Resolver{assistants: normalized}
}

// Resolve returns the tenant id for the request, or false when neither
// identifier resolves. Pure and synchronous; no retries.
func (r *Resolver) Resolve(explicitTenantID, assistantID string) (string, bool) {
	if tenantID := normalizeID(explicitTenantID); tenantID != "" {
		return tenantID, true
	}
	if assistantID := normalizeID(assistantID); assistantID != "" {
		if tenantID, ok := r.assistants[assistantID]; ok {
			return tenantID, true
		}
	}
	return "", false
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
