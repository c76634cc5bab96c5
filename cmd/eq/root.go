// Package main implements the eq command-line tool: a single cobra.Command
// wiring the EDN reader, query reader, evaluator, and renderer together
// (SPEC_FULL.md's "CLI argument decoding"), following the teacher's
// single-RunE wiring style in cmd/dwscript/cmd/run.go.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mtnygard/eq/internal/config"
	"github.com/mtnygard/eq/internal/eval"
	"github.com/mtnygard/eq/internal/fileset"
	"github.com/mtnygard/eq/internal/query"
	"github.com/mtnygard/eq/internal/reader"
	"github.com/mtnygard/eq/internal/render"
	"github.com/mtnygard/eq/internal/value"
)

// Version is set by build flags, mirroring the teacher's cmd/dwscript/cmd
// version variables.
var Version = "0.1.0-dev"

var (
	rawString   bool
	slurp       bool
	rawInput    bool
	nullInput   bool
	compact     bool
	indent      string
	suppressNil bool
	jsonOutput  bool
	exitStatus  bool
	slurpGlob   string
)

var rootCmd = &cobra.Command{
	Use:     "eq <query> [file ...]",
	Short:   "A jq-like query tool for EDN documents",
	Version: Version,
	Long: `eq applies a Clojure-surface query expression to one or more EDN
documents and writes the resulting EDN (or, with --json, JSON) to standard
output.

Examples:
  eq '(:name .)' person.edn
  echo '[1 2 3]' | eq '(map #(* % 2) .)'
  eq -s '(count .)' a.edn b.edn`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          runQuery,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.Flags().BoolVarP(&rawString, "raw-string", "r", false, "print a String result's content without quoting")
	rootCmd.Flags().BoolVarP(&slurp, "slurp", "s", false, "read all input documents into one Vector")
	rootCmd.Flags().BoolVarP(&rawInput, "raw-input", "R", false, "treat each line of input as a String instead of parsing EDN")
	rootCmd.Flags().BoolVarP(&nullInput, "null-input", "n", false, "run the query once against nil, without reading any document")
	rootCmd.Flags().BoolVarP(&compact, "compact", "c", false, "compact single-line output (default is pretty)")
	rootCmd.Flags().StringVar(&indent, "indent", "2", "pretty-print indent width, or \"tab\"")
	rootCmd.Flags().BoolVar(&suppressNil, "suppress-nil", false, "omit top-level nil results")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "render results as JSON instead of EDN")
	rootCmd.Flags().BoolVarP(&exitStatus, "exit-status", "e", false, "exit 1 if the final result is nil or false")
	rootCmd.Flags().StringVar(&slurpGlob, "slurp-glob", "", "glob pattern for input files, in place of positional arguments")
}

// Execute runs the root command, printing any failure to stderr once and
// returning the process exit code (spec.md §6.3).
func Execute() int {
	defaults, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 3
	}
	applyDefaults(defaults)

	if err := rootCmd.Execute(); err != nil {
		if ce, ok := err.(*cliError); ok {
			if ce.err != nil {
				fmt.Fprintln(os.Stderr, renderErr(ce.err))
			}
			return ce.code
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 3
	}
	return exitCode
}

// applyDefaults fills in config-file values for any flag the user did not
// set explicitly, implementing the flags > config > built-in-defaults
// precedence (SPEC_FULL.md's Configuration section).
func applyDefaults(d config.Defaults) {
	flags := rootCmd.Flags()
	if !flags.Changed("compact") && d.Compact {
		compact = true
	}
	if !flags.Changed("indent") && d.Indent != "" {
		indent = d.Indent
	}
	if !flags.Changed("raw-string") && d.RawString {
		rawString = true
	}
	if !flags.Changed("suppress-nil") && d.SuppressNil {
		suppressNil = true
	}
	if !flags.Changed("json") && d.JSON {
		jsonOutput = true
	}
}

// cliError carries a specific process exit code (spec.md §6.3) out through
// cobra's error-returning RunE.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

// exitCode is the process exit status computed from the final evaluated
// result (spec.md §6.3); 0 unless --exit-status changes it.
var exitCode int

func runQuery(cmd *cobra.Command, args []string) error {
	filterText := args[0]
	fileArgs := args[1:]

	opts, err := renderOpts()
	if err != nil {
		return &cliError{code: 3, err: err}
	}

	expr, err := query.ParseQuery(filterText)
	if err != nil {
		return &cliError{code: 2, err: err}
	}

	inputs, err := gatherInputs(fileArgs)
	if err != nil {
		if ce, ok := err.(*cliError); ok {
			return ce
		}
		return &cliError{code: 3, err: err}
	}

	ev := eval.New(filterText)
	var last value.Value = value.NilValue
	sawError := false

	for _, in := range inputs {
		result, err := ev.Evaluate(expr, in)
		if err != nil {
			fmt.Fprintln(os.Stderr, renderErr(err))
			sawError = true
			continue
		}
		last = result
		if err := writeResult(cmd.OutOrStdout(), result, opts); err != nil {
			return &cliError{code: 3, err: err}
		}
	}

	if sawError {
		return &cliError{code: 3, err: fmt.Errorf("one or more documents failed evaluation")}
	}

	exitCode = 0
	if exitStatus && !value.Truthy(last) {
		exitCode = 1
	}
	return nil
}

// renderErr formats err for stderr: diag.ParseError/EvalError already
// render their own source-line-and-caret block via Error().
func renderErr(err error) string {
	return err.Error()
}

func renderOpts() (render.Opts, error) {
	var opts render.Opts
	if compact {
		opts = render.Compact()
	} else {
		opts = render.Pretty()
		if indent == "tab" {
			opts.IndentStyle = render.IndentTab
		} else {
			width, err := parseIndentWidth(indent)
			if err != nil {
				return opts, err
			}
			opts.IndentWidth = width
		}
	}
	opts.RawString = rawString
	opts.SuppressNil = suppressNil
	return opts, nil
}

func parseIndentWidth(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
		return 0, fmt.Errorf("invalid --indent value %q", s)
	}
	return n, nil
}

// gatherInputs produces the Value sequence the query runs against, one
// evaluation per Value, following SPEC_FULL.md's four input modes.
func gatherInputs(fileArgs []string) ([]value.Value, error) {
	if nullInput {
		return []value.Value{value.NilValue}, nil
	}

	docs, err := fileset.Resolve(fileArgs, slurpGlob)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 && slurpGlob == "" {
		docs = append(docs, fileset.Document{Path: "<stdin>", Text: mustReadAll(os.Stdin)})
	}

	if rawInput {
		var lines []value.Value
		for _, d := range docs {
			for _, l := range fileset.RawLines(d.Text) {
				lines = append(lines, value.String{Value: l})
			}
		}
		if slurp {
			return []value.Value{value.NewVector(lines)}, nil
		}
		return lines, nil
	}

	var forms []value.Value
	for _, d := range docs {
		fs, err := reader.ReadAllEDN(d.Text)
		if err != nil {
			return nil, &cliError{code: 2, err: fmt.Errorf("%s: %w", d.Path, err)}
		}
		forms = append(forms, fs...)
	}
	if slurp {
		return []value.Value{value.NewVector(forms)}, nil
	}
	return forms, nil
}

func mustReadAll(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return string(data)
}

func writeResult(w io.Writer, v value.Value, opts render.Opts) error {
	var out string
	var err error
	if jsonOutput {
		out, err = render.JSON(v, opts)
	} else {
		out, err = render.Render(v, opts)
	}
	if err != nil {
		return err
	}
	if out == "" && opts.SuppressNil {
		return nil
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
