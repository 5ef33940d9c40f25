package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/glyph/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// HistoryEntry is one run in the history output.
type HistoryEntry struct {
	ID      string   `json:"id"`
	Seq     int64    `json:"seq"`
	Expr    string   `json:"expr"`
	Outcome string   `json:"outcome"`
	Result  string   `json:"result,omitempty"`
	Steps   int64    `json:"steps"`
	Sources []string `json:"sources,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the most recent runs recorded by "glyph eval --db", oldest first.

A header row is printed only when stdout is a terminal.

Examples:
  glyph history --db ./runs.db
  glyph history --db ./runs.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of runs to show (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	entries := make([]HistoryEntry, len(runs))
	for i, r := range runs {
		entries[i] = HistoryEntry{
			ID:      r.ID,
			Seq:     r.Seq,
			Expr:    r.Expr,
			Outcome: r.Outcome,
			Result:  r.Result,
			Steps:   r.Steps(),
			Sources: r.Sources,
		}
	}

	if formatter.JSON() {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	if isTerminal(formatter.Writer) {
		fmt.Fprintln(tw, "SEQ\tID\tEXPR\tOUTCOME\tRESULT\tSTEPS")
	}
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", e.Seq, e.ID, e.Expr, e.Outcome, e.Result, e.Steps)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	latest, err := st.LatestSeq(context.Background())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	if int(latest) > len(entries) {
		formatter.VerboseLog("showing %d of %d runs", len(entries), latest)
	}
	return nil
}

// openExistingStore opens a run log that must already exist, so a typo in
// --db does not silently create an empty database.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}
	return store.Open(path)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
