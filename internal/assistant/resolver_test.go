package assistant

import "testing"

func newTestResolver() *Resolver {
	return NewResolver(map[string]string{
		"ast_abc": "hinchinbrook",
	})
}

func TestResolveExplicitTenantWins(t *testing.T) {
	r := newTestResolver()

	tenantID, ok := r.Resolve("  Cassowary-Coast ", "ast_abc")
	if !ok {
		t.Fatalf("expected resolution")
	}
	if tenantID != "cassowary-coast" {
		t.Fatalf("expected explicit tenant to win, got %q", tenantID)
	}
}

func TestResolveAssistantFallback(t *testing.T) {
	r := newTestResolver()

	tenantID, ok := r.Resolve("", "AST_ABC")
	if !ok {
		t.Fatalf("expected resolution via assistant id")
	}
	if tenantID != "hinchinbrook" {
		t.Fatalf("unexpected tenant %q", tenantID)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := newTestResolver()

	if _, ok := r.Resolve("", "ast_unknown"); ok {
		t.Fatalf("expected no resolution for unknown assistant")
	}
	if _, ok := r.Resolve("", ""); ok {
		t.Fatalf("expected no resolution for empty identifiers")
	}
}
