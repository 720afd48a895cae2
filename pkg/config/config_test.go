package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Scoreboard != "acacia" {
		t.Errorf("want default scoreboard %q, got %q", "acacia", cfg.Scoreboard)
	}
	if cfg.FunctionFolder != "out" {
		t.Errorf("want default function folder %q, got %q", "out", cfg.FunctionFolder)
	}
	if cfg.Indent != 4 {
		t.Errorf("want default indent 4, got %d", cfg.Indent)
	}
	if cfg.Encoding != "utf-8" {
		t.Errorf("want default encoding utf-8, got %q", cfg.Encoding)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"negative indent", &Config{Scoreboard: "a", FunctionFolder: "b", Encoding: "utf-8", Indent: -1}},
		{"empty scoreboard", &Config{FunctionFolder: "b", Encoding: "utf-8"}},
		{"empty function folder", &Config{Scoreboard: "a", Encoding: "utf-8"}},
		{"bad encoding", &Config{Scoreboard: "a", FunctionFolder: "b", Encoding: "latin1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Fatalf("want Validate to reject %+v", tt.cfg)
			}
		})
	}
}

func TestLoadReadsProjectFile(t *testing.T) {
	dir := t.TempDir()
	toml := "scoreboard = \"my_vars\"\nindent = 2\n"
	if err := os.WriteFile(filepath.Join(dir, "acacia.toml"), []byte(toml), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scoreboard != "my_vars" {
		t.Errorf("want scoreboard overridden to %q, got %q", "my_vars", cfg.Scoreboard)
	}
	if cfg.Indent != 2 {
		t.Errorf("want indent overridden to 2, got %d", cfg.Indent)
	}
	if cfg.FunctionFolder != "out" {
		t.Errorf("want function_folder to keep its default, got %q", cfg.FunctionFolder)
	}
}

func TestLoadWithNoProjectFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scoreboard != "acacia" {
		t.Errorf("want default scoreboard, got %q", cfg.Scoreboard)
	}
}

func TestOverridesWinOverProjectFile(t *testing.T) {
	dir := t.TempDir()
	toml := "scoreboard = \"file_vars\"\n"
	if err := os.WriteFile(filepath.Join(dir, "acacia.toml"), []byte(toml), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cliScoreboard := "cli_vars"
	cfg, err := Load(dir, &Overrides{Scoreboard: &cliScoreboard})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scoreboard != "cli_vars" {
		t.Errorf("want CLI override to win, got %q", cfg.Scoreboard)
	}
}
