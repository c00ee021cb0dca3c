package progfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "lox.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StepQuota != 5000 || cfg.RecursionLimit != 32 || cfg.Color != ColorNever {
		t.Fatalf("unexpected config %+v", cfg)
	}
	engineCfg := cfg.EngineConfig(os.Stdout)
	if engineCfg.StepQuota != 5000 || engineCfg.RecursionLimit != 32 || engineCfg.Stdout != os.Stdout {
		t.Fatalf("unexpected engine config %+v", engineCfg)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(nil, "lox.yaml")
	if err != nil {
		t.Fatalf("parse empty config: %v", err)
	}
	if cfg.Color != ColorAuto || cfg.StepQuota != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"step_quota: -1\n":      "step_quota must not be negative",
		"recursion_limit: -5\n": "recursion_limit must not be negative",
		"color: sometimes\n":    "color must be auto, always, or never",
		"colour: never\n":       "field colour not found",
	}
	for src, want := range tests {
		_, err := ParseConfig([]byte(src), "lox.yaml")
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("parse %q: expected error containing %q, got %v", src, want, err)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestFindConfigWalksParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("find config: %v", err)
	}
	if path != "" {
		// A lox.yaml above the temp dir would shadow the result.
		t.Skipf("found unrelated config %s", path)
	}

	want := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(want, []byte("color: always\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	path, err = FindConfig(nested)
	if err != nil {
		t.Fatalf("find config: %v", err)
	}
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
}
