package fileset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePositionalArgsKeepGivenOrder(t *testing.T) {
	dir := t.TempDir()
	b := filepath.Join(dir, "b.edn")
	a := filepath.Join(dir, "a.edn")
	if err := os.WriteFile(a, []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("2"), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := Resolve([]string{b, a}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].Path != b || docs[1].Path != a {
		t.Errorf("expected positional order [b a], got %#v", docs)
	}
}

func TestResolveGlobIsNaturallySorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"file10.edn", "file2.edn", "file1.edn"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("1"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := Resolve(nil, filepath.Join(dir, "*.edn"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(docs))
	}
	want := []string{"file1.edn", "file2.edn", "file10.edn"}
	for i, w := range want {
		if filepath.Base(docs[i].Path) != w {
			t.Errorf("position %d: got %s, want %s", i, filepath.Base(docs[i].Path), w)
		}
	}
}

func TestDetectAndDecodeUTF8BOM(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bom.edn")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("42")...)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	text, err := detectAndDecodeFile(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "42" {
		t.Errorf("got %q, want %q", text, "42")
	}
}

func TestRawLinesSplitsOnNewline(t *testing.T) {
	lines := RawLines("a\nb\nc\n")
	want := []string{"a", "b", "c"}
	if len(lines) != len(want) {
		t.Fatalf("got %v", lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("position %d: got %q, want %q", i, lines[i], w)
		}
	}
}

func TestRawLinesEmptyTextIsNoLines(t *testing.T) {
	if lines := RawLines(""); len(lines) != 0 {
		t.Errorf("expected no lines for empty text, got %v", lines)
	}
}
