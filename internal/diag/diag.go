// Package diag formats the two error taxonomies of spec.md §7 — ParseError
// (reader/query-reader failures) and EvalError (evaluator failures) — with
// source-line context and a caret pointing at the offending column, adapted
// from the teacher's CompilerError (internal/errors/errors.go).
package diag

import (
	"fmt"
	"strings"
)

// Position is a 1-indexed line/column into either the document text or the
// filter text (spec.md §7).
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseCategory enumerates spec.md §7's ParseError categories.
type ParseCategory string

const (
	UnterminatedString     ParseCategory = "unterminated-string"
	UnterminatedCollection ParseCategory = "unterminated-collection"
	OddMap                 ParseCategory = "odd-map"
	BadEscape              ParseCategory = "bad-escape"
	BadNumber              ParseCategory = "bad-number"
	BadChar                ParseCategory = "bad-char"
	BadKeyword             ParseCategory = "bad-keyword"
	UnexpectedCloser       ParseCategory = "unexpected-closer"
	UnexpectedEOF          ParseCategory = "unexpected-eof"
	BadReaderMacro         ParseCategory = "bad-reader-macro"
)

// EvalCategory enumerates spec.md §7's EvalError categories.
type EvalCategory string

const (
	UnknownSymbol     EvalCategory = "unknown-symbol"
	ArityMismatch     EvalCategory = "arity-mismatch"
	TypeError         EvalCategory = "type-error"
	IndexOutOfRange   EvalCategory = "index-out-of-range"
	DivisionByZero    EvalCategory = "division-by-zero"
	KeyMiss           EvalCategory = "key-miss"
	NonSerializable   EvalCategory = "non-serializable"
	StackOverflow     EvalCategory = "stack-overflow"
	BadLambdaBody     EvalCategory = "bad-lambda-body"
	UnknownReaderMacro EvalCategory = "unknown-reader-macro"
)

// ParseError is a reader or query-reader failure.
type ParseError struct {
	Category ParseCategory
	Message  string
	Pos      Position
	Source   string // the text being parsed, for caret rendering
}

func (e *ParseError) Error() string { return Render(e.Category.string(), e.Message, e.Pos, e.Source, false) }

// EvalError is an evaluator failure, always tied to the source position of
// the offending expression in the filter text (spec.md §7).
type EvalError struct {
	Category EvalCategory
	Message  string
	Pos      Position
	Source   string // the filter text, for caret rendering
}

func (e *EvalError) Error() string { return Render(e.Category.string(), e.Message, e.Pos, e.Source, false) }

func (c ParseCategory) string() string { return string(c) }
func (c EvalCategory) string() string  { return string(c) }

// Render formats a single diagnostic as:
//
//	Error: <category>: <detail> (at line L, col C)
//	  L | <source line>
//	    | <spaces>^
//
// matching spec.md §7's recommended message format, extended with the
// teacher's source-line-plus-caret presentation.
func Render(category, message string, pos Position, source string, color bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s: %s (at line %d, col %d)", category, message, pos.Line, pos.Column)

	line := sourceLine(source, pos.Line)
	if line != "" {
		lineNumStr := fmt.Sprintf("\n%4d | ", pos.Line)
		b.WriteString(lineNumStr)
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", len(lineNumStr)-1+pos.Column-1))
		if color {
			b.WriteString("\033[1;31m")
		}
		b.WriteString("^")
		if color {
			b.WriteString("\033[0m")
		}
	}
	return b.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders multiple diagnostics, matching the teacher's
// FormatErrors behavior of numbering each one when there is more than one.
func FormatAll(errs []error, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&b, "[Error %d of %d]\n%s", i+1, len(errs), e.Error())
		if i < len(errs)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
