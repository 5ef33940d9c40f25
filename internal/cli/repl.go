package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/roach88/glyph/internal/ir"
	"github.com/roach88/glyph/internal/loader"
	"github.com/roach88/glyph/internal/program"
)

const (
	replPrompt = "glyph> "
	replHelp   = `Enter a term to reduce it, for example [$sum, 10] or [add, 2, 3].
  :let NAME TERM   define NAME for the rest of the session
  :defs            list definitions
  :help            show this help
  :quit            leave`
)

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	MaxSteps int
	Depth    int
	History  string
}

// lineReader is the part of liner.State a session uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl [files...]",
		Short: "Reduce terms interactively",
		Long: `Load definition documents and read terms from the terminal, printing
each observed value. Every term is reduced on a fresh graph.

Examples:
  glyph repl defs.yaml
  glyph repl defs.yaml --max-steps 1000000 --history ~/.glyph_history`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "bound on reduction steps per term (0 = unbounded)")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "read-back depth (0 = default)")
	cmd.Flags().StringVar(&opts.History, "history", "", "load and save line history in this file")

	return cmd
}

func runRepl(opts *ReplOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	prog, err := loadProgram(paths)
	if err != nil {
		return failLoad(formatter, err)
	}
	logFindings(prog)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if opts.History != "" {
		if f, err := os.Open(opts.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(opts.History)
			if err != nil {
				slog.Warn("could not save history", "path", opts.History, "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	fmt.Fprintf(formatter.Writer, "glyph %s (%d definitions). Type :help for commands.\n",
		ir.EngineVersion, len(prog.Document.Definitions))
	s := &session{prog: prog, opts: opts, w: formatter.Writer}
	return s.run(ln)
}

// session is one interactive run over a program that :let can extend.
type session struct {
	prog *program.Program
	opts *ReplOptions
	w    io.Writer
}

// run reads lines until EOF or :quit.
func (s *session) run(in lineReader) error {
	for {
		line, err := in.Prompt(replPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.w)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if quit := s.command(line); quit {
				return nil
			}
			continue
		}
		s.eval(line)
	}
}

// command runs a colon command and reports whether the session ends.
func (s *session) command(line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	switch name {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(s.w, replHelp)
	case ":defs":
		for _, def := range s.prog.Document.Definitions {
			fmt.Fprintf(s.w, "%s = %s\n", def.Name, def.Term)
		}
	case ":let":
		if err := s.define(strings.TrimSpace(rest)); err != nil {
			fmt.Fprintf(s.w, "Error: %v\n", err)
		}
	default:
		fmt.Fprintf(s.w, "unknown command %s. Type :help for commands.\n", name)
	}
	return false
}

// define adds "NAME TERM" to the session's program.
func (s *session) define(arg string) error {
	name, text, ok := strings.Cut(arg, " ")
	if !ok || strings.TrimSpace(text) == "" {
		return errors.New("usage: :let NAME TERM")
	}
	term, err := loader.ParseTerm(text)
	if err != nil {
		return err
	}

	doc := &loader.Document{Definitions: append(
		append([]loader.Definition(nil), s.prog.Document.Definitions...),
		loader.Definition{Name: name, Term: term},
	)}
	next := program.New(doc)
	if err := next.Fatal(); err != nil {
		return err
	}
	next.Sources = s.prog.Sources
	s.prog = next
	fmt.Fprintf(s.w, "%s = %s\n", name, term)
	return nil
}

func (s *session) eval(expr string) {
	out, err := s.prog.Eval(program.Request{
		Expr:     expr,
		MaxSteps: s.opts.MaxSteps,
		Depth:    s.opts.Depth,
		Logger:   slog.Default(),
	})
	if err != nil {
		fmt.Fprintf(s.w, "Error: %v\n", err)
		return
	}
	for _, p := range out.Problems {
		fmt.Fprintf(s.w, "warning: %s\n", p.Message)
	}
	if !out.OK() {
		fmt.Fprintf(s.w, "Error [%s]: %s\n", out.Err.Code, out.Err.Message)
		return
	}
	fmt.Fprintln(s.w, ir.Format(out.Value))
	if s.opts.Verbose {
		fmt.Fprintf(s.w, "  %d steps, %d allocations\n", out.Stats.Steps(), out.Stats.Allocations)
	}
}
