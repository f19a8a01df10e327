package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Menu.InitialPage != 1 {
		t.Errorf("default initial page = %d, want 1", cfg.Menu.InitialPage)
	}
	if cfg.Server.MaxLimit != 64 || cfg.Server.MinQuery != 1 || cfg.Server.MaxQuery != 60 {
		t.Errorf("default server config = %+v", cfg.Server)
	}
	if !cfg.Server.EnableFilter {
		t.Error("filter should be on by default")
	}
	if cfg.Highlight.OpenTag == "" || cfg.Highlight.CloseTag == "" {
		t.Error("default highlight tags must not be empty")
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qubemenu.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("created config not defaulted: %+v", cfg.Server)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	// second init reads the file back
	again, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig reload: %v", err)
	}
	if again.Server.MaxLimit != cfg.Server.MaxLimit {
		t.Errorf("reloaded config differs: %+v", again.Server)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qubemenu.toml")
	content := `
[menu]
initial_page = 2
sort_running = true

[highlight]
open_tag = "<span>"
close_tag = "</span>"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Menu.InitialPage != 2 || !cfg.Menu.SortRunning {
		t.Errorf("menu section not loaded: %+v", cfg.Menu)
	}
	if cfg.Highlight.OpenTag != "<span>" || cfg.Highlight.CloseTag != "</span>" {
		t.Errorf("highlight section not loaded: %+v", cfg.Highlight)
	}
	// untouched sections keep defaults
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("server defaults lost: %+v", cfg.Server)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.toml")
	// the menu section parses, the server section is garbage
	content := "[menu]\ninitial_page = 3\n\n[server]\nmax_limit = }}{{\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig should recover, got %v", err)
	}
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("broken section should keep defaults: %+v", cfg.Server)
	}
}
