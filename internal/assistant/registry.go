package assistant

import (
	"fmt"
	"strings"
)

// councilPlaceholder is the exact token substituted into instruction
// templates. Near-matches like {COUNCIL_NAME_SHORT} are left untouched.
const councilPlaceholder = "{COUNCIL_NAME}"

// DefaultTenantID is the mandatory fallback entry every registry carries.
const DefaultTenantID = "default"

// TenantConfig is the static per-tenant assistant record. Immutable per
// deployment; loaded once at startup.
type TenantConfig struct {
	TenantID     string
	DisplayName  string
	Instructions string
	Model        string
	Temperature  float64
	MaxTokens    int
	KBEnabled    bool
	KBMatchCount int
}

// SystemInstructions returns the instruction template with the council
// placeholder substituted. Safe to call repeatedly.
func (c TenantConfig) SystemInstructions() string {
	return strings.ReplaceAll(c.Instructions, councilPlaceholder, c.DisplayName)
}

// Registry is the read-only tenant configuration store.
type Registry struct {
	configs map[string]TenantConfig
}

// NewRegistry builds a registry from the given configs. A missing default
// entry is a deployment bug, caught here rather than on first lookup.
func NewRegistry(configs []TenantConfig) (*Registry, error) {
	byID := make(map[string]TenantConfig, len(configs))
	for _, cfg := range configs {
		byID[normalizeID(cfg.TenantID)] = cfg
	}
	if _, ok := byID[DefaultTenantID]; !ok {
		return nil, fmt.Errorf("tenant registry requires a %q entry", DefaultTenantID)
	}
	return &Registry{configs: byID}, nil
}

// Load returns the tenant's config, or the default entry when the tenant
// has no dedicated record.
func (r *Registry) Load(tenantID string) TenantConfig {
	if cfg, ok := r.configs[normalizeID(tenantID)]; ok {
		return cfg
	}
	return r.configs[DefaultTenantID]
}
