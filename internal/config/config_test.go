package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsZeroValue(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EQ_CONFIG", filepath.Join(dir, "does-not-exist.yaml"))

	d, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != (Defaults{}) {
		t.Errorf("expected zero-value Defaults, got %#v", d)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	content := "compact: true\nindent: tab\nraw_string: true\nnatural_sort_inputs: true\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EQ_CONFIG", p)

	d, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Compact || d.Indent != "tab" || !d.RawString || !d.NaturalSortInputs {
		t.Errorf("got %#v", d)
	}
}
