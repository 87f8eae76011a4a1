package cli

import (
	"path/filepath"
	"slices"
	"testing"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	return cfg
}

func TestConfigAddAndResolveContext(t *testing.T) {
	cfg := testConfig(t)

	if err := cfg.AddContext("work", &Context{APIKey: "key-1", Voice: "Puck"}); err != nil {
		t.Fatalf("AddContext: %v", err)
	}

	// First context becomes current.
	cur, err := cfg.GetCurrentContext()
	if err != nil {
		t.Fatalf("GetCurrentContext: %v", err)
	}
	if cur.Name != "work" {
		t.Errorf("current = %q, want work", cur.Name)
	}

	if err := cfg.AddContext("home", &Context{APIKey: "key-2"}); err != nil {
		t.Fatalf("AddContext: %v", err)
	}
	if cfg.CurrentContext != "work" {
		t.Errorf("adding a second context changed current to %q", cfg.CurrentContext)
	}

	ctx, err := cfg.ResolveContext("home")
	if err != nil {
		t.Fatalf("ResolveContext: %v", err)
	}
	if ctx.APIKey != "key-2" {
		t.Errorf("api key = %q, want key-2", ctx.APIKey)
	}
	// Empty name resolves to current.
	ctx, err = cfg.ResolveContext("")
	if err != nil {
		t.Fatalf("ResolveContext(\"\"): %v", err)
	}
	if ctx.Name != "work" {
		t.Errorf("resolved %q, want work", ctx.Name)
	}
}

func TestConfigPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddContext("work", &Context{
		APIKey:            "secret",
		Model:             "custom-live-model",
		SystemInstruction: "be terse",
		FrameIntervalMS:   2000,
	}); err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	ctx, err := reloaded.GetContext("work")
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Model != "custom-live-model" || ctx.SystemInstruction != "be terse" || ctx.FrameIntervalMS != 2000 {
		t.Errorf("reloaded context = %+v", ctx)
	}
}

func TestConfigUseAndDeleteContext(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.UseContext("nope"); err == nil {
		t.Error("UseContext on unknown name: want error")
	}

	cfg.AddContext("a", &Context{APIKey: "k"})
	cfg.AddContext("b", &Context{APIKey: "k"})
	if err := cfg.UseContext("b"); err != nil {
		t.Fatal(err)
	}

	if err := cfg.DeleteContext("b"); err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("deleting current context left current = %q", cfg.CurrentContext)
	}
	if _, err := cfg.GetContext("b"); err == nil {
		t.Error("deleted context still resolvable")
	}

	names := cfg.ListContexts()
	if !slices.Contains(names, "a") || len(names) != 1 {
		t.Errorf("contexts = %v, want [a]", names)
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := MaskAPIKey("short"); got != "*****" {
		t.Errorf("MaskAPIKey(short) = %q", got)
	}
	got := MaskAPIKey("AIzaSyExampleExampleKey0")
	if got[:4] != "AIza" || got[len(got)-4:] != "Key0" {
		t.Errorf("MaskAPIKey kept wrong edges: %q", got)
	}
	for _, r := range got[4 : len(got)-4] {
		if r != '*' {
			t.Errorf("middle not masked: %q", got)
			break
		}
	}
}
