package config

import (
	"path/filepath"
	"testing"
)

func TestStoreCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veldt.yaml")

	store, err := NewStore(NewYAML(path))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	cfg, err := store.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.Desktops != 4 {
		t.Fatalf("Desktops = %d, want default 4", cfg.Desktops)
	}
}

func TestNormalizeAssignsRuleUUIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veldt.yaml")
	store, err := NewStore(NewYAML(path))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	err = store.UpdateConfig(func(cfg Config) (Config, error) {
		cfg.Desktops = 0
		cfg.Rules = []Rule{{Class: "Editor"}, {UUID: "keep", Class: "Term"}}
		return cfg, nil
	})
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}

	if err := Normalize(store); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	cfg, err := store.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.Desktops != 4 {
		t.Fatalf("Desktops = %d, zero must fall back to default", cfg.Desktops)
	}
	if cfg.Rules[0].UUID == "" {
		t.Fatal("rule without uuid did not get one")
	}
	if cfg.Rules[1].UUID != "keep" {
		t.Fatalf("uuid = %q, existing uuid must be kept", cfg.Rules[1].UUID)
	}
}

func TestRuleMatches(t *testing.T) {
	for _, tt := range []struct {
		rule        Rule
		class, role string
		want        bool
	}{
		{Rule{}, "Editor", "main", true},
		{Rule{Class: "Editor"}, "Editor", "anything", true},
		{Rule{Class: "Editor"}, "Term", "", false},
		{Rule{Class: "Editor", Role: "scratch"}, "Editor", "main", false},
		{Rule{Role: "scratch"}, "Term", "scratch", true},
	} {
		if got := tt.rule.Matches(tt.class, tt.role); got != tt.want {
			t.Fatalf("Matches(%+v, %q, %q) = %v, want %v", tt.rule, tt.class, tt.role, got, tt.want)
		}
	}
}
