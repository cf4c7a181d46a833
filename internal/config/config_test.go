package config

import (
	"strings"
	"testing"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestResolveAPIKey_PriorityOrder(t *testing.T) {
	candidates := []string{"FIRST", "SECOND", "THIRD"}

	got := ResolveAPIKey(fakeEnv(map[string]string{
		"SECOND": "second-key",
		"THIRD":  "third-key",
	}), candidates)
	if got != "second-key" {
		t.Errorf("expected first present candidate to win, got %q", got)
	}

	got = ResolveAPIKey(fakeEnv(map[string]string{
		"FIRST":  "first-key",
		"SECOND": "second-key",
	}), candidates)
	if got != "first-key" {
		t.Errorf("expected highest-priority candidate, got %q", got)
	}
}

func TestResolveAPIKey_NoneSet(t *testing.T) {
	got := ResolveAPIKey(fakeEnv(nil), []string{"A", "B"})
	if got != "" {
		t.Errorf("expected empty string when no candidate set, got %q", got)
	}
}

func TestResolveAPIKey_SkipsEmptyValues(t *testing.T) {
	got := ResolveAPIKey(fakeEnv(map[string]string{
		"A": "",
		"B": "b-key",
	}), []string{"A", "B"})
	if got != "b-key" {
		t.Errorf("expected empty value skipped, got %q", got)
	}
}

func TestValidate_MissingServiceKey(t *testing.T) {
	cfg := Config{LLMAPIKey: "x"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing service API key")
	}
}

func TestValidate_MissingLLMKeyNamesCandidates(t *testing.T) {
	cfg := Config{ServiceAPIKey: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing model API key")
	}
	for _, name := range LLMKeyCandidates {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected error to name candidate %s, got %q", name, err)
		}
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := Config{ServiceAPIKey: "s", LLMAPIKey: "l"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
