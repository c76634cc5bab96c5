// Package render prints a Value back to text: compact or pretty EDN, plus a
// JSON projection. It generalizes the teacher's pkg/printer (which renders a
// DWScript AST back to source text under a configurable indent Style) from
// "print an AST" to "print a Value" (spec.md §6.2).
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mtnygard/eq/internal/diag"
	"github.com/mtnygard/eq/internal/value"
)

// IndentStyle selects the unit used to indent one nesting level in pretty
// mode, mirroring the teacher's printer.Style{IndentStyle, IndentWidth}.
type IndentStyle int

const (
	// IndentSpaces indents with IndentWidth space characters per level.
	IndentSpaces IndentStyle = iota
	// IndentTab indents with one literal tab character per level,
	// regardless of IndentWidth.
	IndentTab
)

// Opts controls how a Value is rendered (spec.md §6.1's RenderOpts).
type Opts struct {
	Compact     bool
	IndentStyle IndentStyle
	IndentWidth int // space count; ignored when IndentStyle is IndentTab
	RawString   bool
	SuppressNil bool
}

// Pretty is the default Opts: pretty-printed, two-space indent.
func Pretty() Opts { return Opts{IndentWidth: 2} }

// Compact is single-line Opts.
func Compact() Opts { return Opts{Compact: true} }

func (o Opts) unit() string {
	if o.IndentStyle == IndentTab {
		return "\t"
	}
	width := o.IndentWidth
	if width <= 0 {
		width = 2
	}
	return strings.Repeat(" ", width)
}

// Render prints v per opts. A top-level Nil with SuppressNil set renders to
// the empty string. A top-level String with RawString set renders
// unquoted/unescaped, matching `jq -r` (spec.md's "Output pretty-printing").
func Render(v value.Value, opts Opts) (string, error) {
	if opts.SuppressNil {
		if _, ok := v.(value.Nil); ok {
			return "", nil
		}
	}
	if opts.RawString {
		if s, ok := v.(value.String); ok {
			return s.Value, nil
		}
	}
	var b strings.Builder
	if err := write(&b, v, opts, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func write(b *strings.Builder, v value.Value, opts Opts, depth int) error {
	switch t := v.(type) {
	case value.Lambda:
		return &diag.EvalError{Category: diag.NonSerializable, Message: "a lambda value cannot be rendered"}
	case value.List:
		return writeSeq(b, "(", ")", t.Elems, opts, depth)
	case value.Vector:
		return writeSeq(b, "[", "]", t.Elems, opts, depth)
	case value.Set:
		return writeSeq(b, "#{", "}", t.Elems, opts, depth)
	case value.Map:
		return writeMap(b, t, opts, depth)
	default:
		b.WriteString(v.String())
		return nil
	}
}

func writeSeq(b *strings.Builder, open, close string, elems []value.Value, opts Opts, depth int) error {
	b.WriteString(open)
	if len(elems) == 0 {
		b.WriteString(close)
		return nil
	}
	if opts.Compact {
		for i, e := range elems {
			if i > 0 {
				b.WriteString(" ")
			}
			if err := write(b, e, opts, depth); err != nil {
				return err
			}
		}
		b.WriteString(close)
		return nil
	}
	unit := opts.unit()
	for _, e := range elems {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(unit, depth+1))
		if err := write(b, e, opts, depth+1); err != nil {
			return err
		}
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(unit, depth))
	b.WriteString(close)
	return nil
}

func writeMap(b *strings.Builder, m value.Map, opts Opts, depth int) error {
	b.WriteString("{")
	keys, vals := m.Keys(), m.Vals()
	if len(keys) == 0 {
		b.WriteString("}")
		return nil
	}
	if opts.Compact {
		for i := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := write(b, keys[i], opts, depth); err != nil {
				return err
			}
			b.WriteString(" ")
			if err := write(b, vals[i], opts, depth); err != nil {
				return err
			}
		}
		b.WriteString("}")
		return nil
	}
	unit := opts.unit()
	for i := range keys {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(unit, depth+1))
		if err := write(b, keys[i], opts, depth+1); err != nil {
			return err
		}
		b.WriteString(" ")
		if err := write(b, vals[i], opts, depth+1); err != nil {
			return err
		}
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(unit, depth))
	b.WriteString("}")
	return nil
}

// JSON projects v onto its nearest JSON shape: Keyword becomes a string
// without the leading colon, Map becomes an object (requiring all-String or
// all-Keyword keys), Set becomes an array. Symbol, Character, Tagged, and
// Lambda have no JSON equivalent and are rendered as a non-serializable
// EvalError (spec.md's "Output pretty-printing" JSON mode). SuppressNil and
// RawString apply to a top-level Nil or String exactly as in Render.
func JSON(v value.Value, opts Opts) (string, error) {
	if opts.SuppressNil {
		if _, ok := v.(value.Nil); ok {
			return "", nil
		}
	}
	if opts.RawString {
		if s, ok := v.(value.String); ok {
			return s.Value, nil
		}
	}
	var b strings.Builder
	if err := writeJSON(&b, v, opts, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(b *strings.Builder, v value.Value, opts Opts, depth int) error {
	switch t := v.(type) {
	case value.Nil:
		b.WriteString("null")
	case value.Bool:
		if t.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.Integer:
		b.WriteString(strconv.FormatInt(t.Value, 10))
	case value.Float:
		b.WriteString(strconv.FormatFloat(t.Value, 'g', -1, 64))
	case value.String:
		b.WriteString(jsonQuote(t.Value))
	case value.Keyword:
		b.WriteString(jsonQuote(t.String()[1:]))
	case value.List:
		return writeJSONArray(b, t.Elems, opts, depth)
	case value.Vector:
		return writeJSONArray(b, t.Elems, opts, depth)
	case value.Set:
		return writeJSONArray(b, t.Elems, opts, depth)
	case value.Map:
		return writeJSONObject(b, t, opts, depth)
	default:
		return &diag.EvalError{Category: diag.NonSerializable, Message: fmt.Sprintf("%s has no JSON equivalent", v.Kind())}
	}
	return nil
}

func writeJSONArray(b *strings.Builder, elems []value.Value, opts Opts, depth int) error {
	b.WriteString("[")
	if len(elems) == 0 {
		b.WriteString("]")
		return nil
	}
	if opts.Compact {
		for i, e := range elems {
			if i > 0 {
				b.WriteString(",")
			}
			if err := writeJSON(b, e, opts, depth); err != nil {
				return err
			}
		}
		b.WriteString("]")
		return nil
	}
	unit := opts.unit()
	for i, e := range elems {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(unit, depth+1))
		if err := writeJSON(b, e, opts, depth+1); err != nil {
			return err
		}
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(unit, depth))
	b.WriteString("]")
	return nil
}

func writeJSONObject(b *strings.Builder, m value.Map, opts Opts, depth int) error {
	keys, vals := m.Keys(), m.Vals()
	jsonKeys := make([]string, len(keys))
	sawString, sawKeyword := false, false
	for i, k := range keys {
		switch kt := k.(type) {
		case value.String:
			sawString = true
			jsonKeys[i] = kt.Value
		case value.Keyword:
			sawKeyword = true
			jsonKeys[i] = kt.String()[1:]
		default:
			return &diag.EvalError{Category: diag.NonSerializable, Message: fmt.Sprintf("map key %s is not a String or Keyword, cannot render as a JSON object", k.String())}
		}
	}
	if sawString && sawKeyword {
		return &diag.EvalError{Category: diag.NonSerializable, Message: "map mixes String and Keyword keys, cannot render as a JSON object"}
	}
	b.WriteString("{")
	if len(keys) == 0 {
		b.WriteString("}")
		return nil
	}
	if opts.Compact {
		for i := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(jsonQuote(jsonKeys[i]))
			b.WriteString(":")
			if err := writeJSON(b, vals[i], opts, depth); err != nil {
				return err
			}
		}
		b.WriteString("}")
		return nil
	}
	unit := opts.unit()
	for i := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(unit, depth+1))
		b.WriteString(jsonQuote(jsonKeys[i]))
		b.WriteString(": ")
		if err := writeJSON(b, vals[i], opts, depth+1); err != nil {
			return err
		}
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(unit, depth))
	b.WriteString("}")
	return nil
}

func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
