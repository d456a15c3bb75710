package options

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSmartIndentStyle(t *testing.T) {
	cases := map[string]SmartIndentStyle{
		"none":  IndentNone,
		"block": IndentBlock,
		"smart": IndentSmart,
		"":      IndentSmart,
	}
	for in, want := range cases {
		got, err := ParseSmartIndentStyle(in)
		if err != nil || got != want {
			t.Fatalf("ParseSmartIndentStyle(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSmartIndentStyle("fancy"); err == nil {
		t.Fatalf("expected error for unknown style")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `
[format]
smart_indent = "block"
on_close_brace = false
indent_width = 2
use_tabs = true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	set, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if set.SmartIndent != IndentBlock {
		t.Fatalf("SmartIndent = %v", set.SmartIndent)
	}
	if set.AutoFormatOnCloseBrace {
		t.Fatalf("AutoFormatOnCloseBrace not overridden")
	}
	if !set.AutoFormatOnSemicolon {
		t.Fatalf("AutoFormatOnSemicolon lost its default")
	}
	if set.IndentWidth != 2 || !set.UseTabs {
		t.Fatalf("indent settings = %d tabs=%v", set.IndentWidth, set.UseTabs)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(cfg, []byte("[format]\nindent_width = 8\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	set, err := Discover(filepath.Join(sub, "x.rf"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if set.IndentWidth != 8 {
		t.Fatalf("IndentWidth = %d, want 8", set.IndentWidth)
	}
}

func TestDiscoverWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	set, err := Discover(filepath.Join(dir, "x.rf"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if set != Default() {
		t.Fatalf("missing config should yield defaults, got %+v", set)
	}
}
