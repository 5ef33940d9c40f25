package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/glyph/internal/engine"
	"github.com/roach88/glyph/internal/ir"
	"github.com/roach88/glyph/internal/loader"
	"github.com/roach88/glyph/internal/program"
	"github.com/roach88/glyph/internal/store"
)

// DefaultEntry is evaluated when neither --entry nor --expr is given.
const DefaultEntry = "main"

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Entry    string
	Expr     string
	MaxSteps int
	Depth    int
	Database string
	Trace    bool

	// IDs overrides the run ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDs store.IDGenerator
}

// EvalResult is the JSON payload of a successful evaluation.
type EvalResult struct {
	Expr        string `json:"expr"`
	Value       any    `json:"value"`
	Text        string `json:"text"`
	Digest      string `json:"digest"`
	Steps       int    `json:"steps"`
	Allocations int    `json:"allocations"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval [files...]",
		Short: "Reduce an expression and print the result",
		Long: `Load definition documents, reduce one expression, and print the observed
value.

The expression is a definition name (--entry), a term in YAML flow
notation (--expr), or the definition "main" when neither is given.

Exit codes:
  0 - Reduction produced a value
  1 - Reduction failed (the error code is printed)
  2 - Command error (unreadable documents, bad expression, etc.)

Examples:
  glyph eval defs.yaml
  glyph eval defs.yaml --entry sum10
  glyph eval defs.yaml --expr "[$sum, 10]" --max-steps 100000
  glyph eval --expr "[add, 2, 3]"
  glyph eval defs.yaml --db runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Entry, "entry", "", "definition to evaluate")
	cmd.Flags().StringVar(&opts.Expr, "expr", "", "term to evaluate, in YAML flow notation")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "bound on reduction steps (0 = unbounded)")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, fmt.Sprintf("read-back depth (0 = %d)", engine.DefaultDepth))
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "log every expansion and rewrite (with --verbose)")
	cmd.MarkFlagsMutuallyExclusive("entry", "expr")

	return cmd
}

func runEval(opts *EvalOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.MaxSteps < 0 || opts.Depth < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeBadArgument, "--max-steps and --depth must be non-negative", nil)
	}

	prog, err := loadProgram(paths)
	if err != nil {
		return failLoad(formatter, err)
	}
	logFindings(prog)

	req := program.Request{
		Entry:    opts.Entry,
		Expr:     opts.Expr,
		MaxSteps: opts.MaxSteps,
		Depth:    opts.Depth,
		Trace:    opts.Trace,
		Logger:   slog.Default(),
	}
	if req.Entry == "" && req.Expr == "" {
		req.Entry = DefaultEntry
	}

	out, err := prog.Eval(req)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadArgument, err.Error(), nil)
	}
	for _, p := range out.Problems {
		slog.Warn("expression", "code", p.Code, "message", p.Message)
	}

	runID := ""
	if opts.Database != "" {
		runID, err = recordRun(cmd.Context(), opts, prog, out)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		formatter.VerboseLog("Recorded run %s in %s", runID, opts.Database)
	}

	if !out.OK() {
		if formatter.JSON() {
			if err := formatter.Encode(CLIResponse{
				Status: "error",
				RunID:  runID,
				Error: &CLIError{
					Code:    string(out.Err.Code),
					Message: out.Err.Message,
					Details: runtimeDetails(out.Err),
				},
			}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(formatter.Writer, "Error [%s]: %s\n", out.Err.Code, out.Err.Message)
			if opts.Verbose && out.Err.Node != "" {
				fmt.Fprintf(formatter.Writer, "  at %s\n", out.Err.Node)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", out.Err.Code, out.Err.Message))
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{
			Status: "ok",
			RunID:  runID,
			Data: EvalResult{
				Expr:        out.Expr,
				Value:       ir.Canonical(out.Value),
				Text:        ir.Format(out.Value),
				Digest:      out.Digest,
				Steps:       out.Stats.Steps(),
				Allocations: out.Stats.Allocations,
			},
		})
	}

	fmt.Fprintln(formatter.Writer, ir.Format(out.Value))
	formatter.VerboseLog("%d applications, %d expansions, %d allocations",
		out.Stats.Applications, out.Stats.Expansions, out.Stats.Allocations)
	return nil
}

// loadProgram loads documents with absolute source paths, so recorded runs
// can be replayed from any directory.
func loadProgram(paths []string) (*program.Program, error) {
	abs := make([]string, len(paths))
	for i, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		abs[i] = a
	}
	prog, err := program.Load(abs...)
	if err != nil {
		return nil, err
	}
	if err := prog.Fatal(); err != nil {
		return nil, err
	}
	return prog, nil
}

// failLoad reports a load or validation failure as a command error.
func failLoad(formatter *OutputFormatter, err error) error {
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Error(), nil)
	}
	var valErr loader.ValidationError
	if errors.As(err, &valErr) {
		return formatter.Fail(ExitCommandError, valErr.Code, err.Error(), nil)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

// logFindings logs non-fatal validation problems and recursion warnings.
func logFindings(prog *program.Program) {
	for _, p := range prog.Problems {
		slog.Warn("validation", "code", p.Code, "field", p.Field, "message", p.Message, "line", p.Line)
	}
	for _, w := range prog.Warnings {
		slog.Warn("recursion", "message", w.Message)
	}
}

func runtimeDetails(re *engine.RuntimeError) map[string]string {
	if re.Node == "" && len(re.Details) == 0 {
		return nil
	}
	details := make(map[string]string, len(re.Details)+1)
	for k, v := range re.Details {
		details[k] = v
	}
	if re.Node != "" {
		details["node"] = re.Node
	}
	return details
}

// recordRun appends the outcome to the run log and returns its ID.
func recordRun(ctx context.Context, opts *EvalOptions, prog *program.Program, out program.Outcome) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ids := opts.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}

	run := store.Run{
		ID:            ids.Generate(),
		Sources:       prog.Sources,
		Entry:         out.Entry,
		Expr:          out.Expr,
		MaxSteps:      int64(opts.MaxSteps),
		Depth:         opts.Depth,
		Outcome:       out.Code(),
		Result:        out.Result,
		ResultDigest:  out.Digest,
		Applications:  int64(out.Stats.Applications),
		Expansions:    int64(out.Stats.Expansions),
		Allocations:   int64(out.Stats.Allocations),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if out.Err != nil {
		run.ErrorMessage = out.Err.Message
	}

	stored, err := st.AppendRun(ctx, run)
	if err != nil {
		return "", err
	}
	return stored.ID, nil
}
