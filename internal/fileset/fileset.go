// Package fileset resolves the CLI's positional file arguments and
// --slurp-glob pattern into an ordered list of decoded document texts, and
// owns encoding normalization (BOM sniffing / UTF-16 transcoding) before the
// bytes reach internal/reader. This is ambient I/O plumbing, not part of the
// query language core (spec.md §1's "external collaborators").
package fileset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/maruel/natural"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Document is one decoded input source: its path (or "<stdin>" for standard
// input) and its UTF-8 text.
type Document struct {
	Path string
	Text string
}

// Resolve produces the ordered Document list for a run, following spec.md's
// AMBIENT STACK "Input mode plumbing": positional args are read in the order
// given (explicit order is often meaningful), while a --slurp-glob pattern's
// matches have no inherent order and are naturally sorted instead.
func Resolve(args []string, slurpGlob string) ([]Document, error) {
	var paths []string
	if slurpGlob != "" {
		matches, err := expandGlob(slurpGlob)
		if err != nil {
			return nil, err
		}
		natural.Sort(matches)
		paths = matches
	} else {
		paths = args
	}

	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		text, err := detectAndDecodeFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Path: p, Text: text})
	}
	return docs, nil
}

// expandGlob expands pattern with filepath.Glob, or filepath.WalkDir when the
// pattern requests recursion via "**".
func expandGlob(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		return matches, nil
	}

	root := pattern[:strings.Index(pattern, "**")]
	root = filepath.Dir(root)
	suffix := strings.TrimPrefix(pattern[strings.Index(pattern, "**")+2:], "/")

	var matches []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, matchErr := filepath.Match(suffix, filepath.Base(path))
		if suffix == "" || (matchErr == nil && ok) || strings.HasSuffix(path, suffix) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q for glob %q: %w", root, pattern, err)
	}
	return matches, nil
}

// detectAndDecodeFile reads path and detects its encoding from a BOM,
// adapted from the teacher's internal/interp/encoding.go: UTF-8, UTF-16 LE,
// and UTF-16 BE BOMs are recognized; BOM-less input that is valid UTF-8 is
// used as is, and any other input is decoded byte-by-byte as Latin-1.
func detectAndDecodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decodeBytes(data)
}

func decodeBytes(data []byte) (string, error) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return string(data[3:]), nil
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return decodeUTF16(data, unicode.LittleEndian)
	}
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16(data, unicode.BigEndian)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

func decodeUTF16(data []byte, endianness unicode.Endianness) (string, error) {
	decoder := unicode.UTF16(endianness, unicode.UseBOM).NewDecoder()
	utf8Data, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode UTF-16: %w", err)
	}
	if len(utf8Data) >= 3 && utf8Data[0] == 0xEF && utf8Data[1] == 0xBB && utf8Data[2] == 0xBF {
		utf8Data = utf8Data[3:]
	}
	result := bytes.TrimPrefix(utf8Data, []byte(string(rune(0xFEFF))))
	return string(result), nil
}

// RawLines splits text into one String-producing line per element, for
// raw-input mode (spec.md's supplemental -R flag): each line of input is fed
// to the query as a String instead of being parsed as EDN.
func RawLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
