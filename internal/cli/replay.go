package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/glyph/internal/program"
	"github.com/roach88/glyph/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	ID       string `json:"id"`
	Seq      int64  `json:"seq"`
	Expr     string `json:"expr"`
	Recorded string `json:"recorded"` // outcome when recorded
	Replayed string `json:"replayed"` // outcome now
	Match    bool   `json:"match"`
	Reason   string `json:"reason,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs     []ReplayRunResult `json:"runs"`
	Total    int               `json:"total"`
	Drifted  int               `json:"drifted"`
	AllMatch bool              `json:"all_match"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-evaluate recorded runs and detect drift",
		Long: `Re-evaluate every recorded run from its source documents and compare
the outcome and result digest with what was recorded.

A run drifts when its sources changed, when the reducer now produces a
different value or error, or when its sources can no longer be loaded.

Exit codes:
  0 - Every run reproduced exactly
  1 - One or more runs drifted
  2 - Command error (database not found, etc.)

Examples:
  glyph replay --db ./runs.db
  glyph replay --db ./runs.db --run 0190c3a4-...
  glyph replay --db ./runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.RunID != "" {
		r, err := st.GetRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("run not found: %s", opts.RunID), nil)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		runs = []store.Run{r}
	} else {
		runs, err = st.ListRuns(ctx, 0)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	result := ReplayResult{
		Runs:     make([]ReplayRunResult, 0, len(runs)),
		Total:    len(runs),
		AllMatch: true,
	}

	if len(runs) == 0 {
		if formatter.JSON() {
			return outputReplayJSON(formatter, result)
		}
		fmt.Fprintln(formatter.Writer, "No runs found in database.")
		return nil
	}

	for _, r := range runs {
		rr := replayRun(r)
		result.Runs = append(result.Runs, rr)
		if !rr.Match {
			result.AllMatch = false
			result.Drifted++
		}
	}

	if formatter.JSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

// replayRun re-evaluates one recorded run.
func replayRun(r store.Run) ReplayRunResult {
	rr := ReplayRunResult{
		ID:       r.ID,
		Seq:      r.Seq,
		Expr:     r.Expr,
		Recorded: r.Outcome,
	}

	prog, err := program.Load(r.Sources...)
	if err == nil {
		err = prog.Fatal()
	}
	if err != nil {
		rr.Replayed = "load_error"
		rr.Reason = err.Error()
		return rr
	}

	req := program.Request{
		MaxSteps: int(r.MaxSteps),
		Depth:    r.Depth,
		Logger:   slog.Default(),
	}
	if r.Entry != "" {
		req.Entry = r.Entry
	} else {
		req.Expr = r.Expr
	}

	out, err := prog.Eval(req)
	if err != nil {
		rr.Replayed = "eval_error"
		rr.Reason = err.Error()
		return rr
	}
	rr.Replayed = out.Code()

	switch {
	case rr.Replayed != rr.Recorded:
		rr.Reason = fmt.Sprintf("outcome changed from %s to %s", rr.Recorded, rr.Replayed)
	case out.Digest != r.ResultDigest:
		rr.Reason = fmt.Sprintf("result changed from %s to %s", r.Result, out.Result)
	default:
		rr.Match = true
	}
	return rr
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.AllMatch {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDrift,
			Message: fmt.Sprintf("%d run(s) drifted", result.Drifted),
		}
	}

	if err := formatter.Encode(response); err != nil {
		return err
	}

	if !result.AllMatch {
		// Drift = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d run(s) drifted", result.Drifted))
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(formatter *OutputFormatter, result ReplayResult) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.Total)
	fmt.Fprintln(w)

	for _, r := range result.Runs {
		status := "✓"
		if !r.Match {
			status = "✗"
		}
		fmt.Fprintf(w, "%s #%d %s  %s\n", status, r.Seq, r.Expr, r.Replayed)
		if formatter.Verbose {
			fmt.Fprintf(w, "  ID: %s\n", r.ID)
		}
		if r.Reason != "" {
			fmt.Fprintf(w, "  %s\n", r.Reason)
		}
	}
	fmt.Fprintln(w)

	if result.AllMatch {
		fmt.Fprintln(w, "✓ All runs reproduced")
		return nil
	}

	fmt.Fprintf(w, "✗ %d run(s) drifted\n", result.Drifted)
	// Drift = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("%d run(s) drifted", result.Drifted))
}
