package assistant

import (
	"reflect"
	"testing"
)

func TestNewRegistryRequiresDefault(t *testing.T) {
	_, err := NewRegistry([]TenantConfig{
		{TenantID: "hinchinbrook", DisplayName: "Hinchinbrook Shire Council"},
	})
	if err == nil {
		t.Fatalf("expected error for missing default entry")
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	registry, err := NewRegistry([]TenantConfig{
		{TenantID: "default", DisplayName: "the council", Model: "gpt-4o-mini"},
		{TenantID: "hinchinbrook", DisplayName: "Hinchinbrook Shire Council", Model: "gpt-4o"},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if cfg := registry.Load("hinchinbrook"); cfg.Model != "gpt-4o" {
		t.Fatalf("expected tenant entry, got %+v", cfg)
	}
	if cfg := registry.Load("nowhere"); cfg.DisplayName != "the council" {
		t.Fatalf("expected default fallback, got %+v", cfg)
	}

	first := registry.Load("hinchinbrook")
	second := registry.Load("hinchinbrook")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected idempotent loads")
	}
}

func TestSystemInstructionsSubstitution(t *testing.T) {
	cfg := TenantConfig{
		DisplayName:  "Hinchinbrook Shire Council",
		Instructions: "You work for {COUNCIL_NAME}. Do not touch {COUNCIL_NAME_SHORT}.",
	}

	got := cfg.SystemInstructions()
	want := "You work for Hinchinbrook Shire Council. Do not touch {COUNCIL_NAME_SHORT}."
	if got != want {
		t.Fatalf("unexpected instructions: %q", got)
	}

	// Substitution is idempotent: rendering an already-rendered template
	// changes nothing.
	cfg.Instructions = got
	if again := cfg.SystemInstructions(); again != want {
		t.Fatalf("expected idempotent substitution, got %q", again)
	}
}

func TestBuiltinRegistry(t *testing.T) {
	registry, resolver, err := BuiltinRegistry()
	if err != nil {
		t.Fatalf("builtin registry: %v", err)
	}
	if cfg := registry.Load("hinchinbrook"); cfg.DisplayName != "Hinchinbrook Shire Council" {
		t.Fatalf("unexpected builtin config: %+v", cfg)
	}
	if _, ok := resolver.Resolve("", "ast_9f2c41d6-hinchinbrook"); !ok {
		t.Fatalf("expected builtin assistant id to resolve")
	}
}
