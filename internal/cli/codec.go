package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/glyph/internal/codec"
)

// CodecEntry pairs an integer with its linear encoding.
type CodecEntry struct {
	Value int64  `json:"value"`
	Bits  string `json:"bits"`
}

// NewModulateCommand creates the modulate command.
func NewModulateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "modulate <int>...",
		Short: "Encode integers as bit strings",
		Long: `Print the linear encoding of each integer: a two-bit sign prefix, the
nibble count in unary, then the magnitude in 4-bit groups. Put negative
numbers after "--" so they are not read as flags.

Examples:
  glyph modulate 0 1 256
  glyph modulate -- -1 -256`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			entries := make([]CodecEntry, len(args))
			for i, arg := range args {
				n, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return formatter.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("not an integer: %q", arg), nil)
				}
				entries[i] = CodecEntry{Value: n, Bits: codec.Encode(n)}
			}
			return outputCodec(formatter, entries, func(e CodecEntry) string { return e.Bits })
		},
	}
}

// NewDemodulateCommand creates the demodulate command.
func NewDemodulateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demodulate <bits>...",
		Short: "Decode bit strings to integers",
		Long: `Decode linear encodings produced by "glyph modulate" (or the mod
primitive). Input must be a complete encoding with no trailing bits.

Example:
  glyph demodulate 010 01100001`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			entries := make([]CodecEntry, len(args))
			for i, arg := range args {
				n, err := codec.Decode(arg)
				if err != nil {
					return formatter.Fail(ExitFailure, "MALFORMED_ENCODING", err.Error(), map[string]string{"input": arg})
				}
				entries[i] = CodecEntry{Value: n, Bits: arg}
			}
			return outputCodec(formatter, entries, func(e CodecEntry) string { return strconv.FormatInt(e.Value, 10) })
		},
	}
}

func outputCodec(formatter *OutputFormatter, entries []CodecEntry, text func(CodecEntry) string) error {
	if formatter.JSON() {
		return formatter.Success(entries)
	}
	for _, e := range entries {
		fmt.Fprintln(formatter.Writer, text(e))
	}
	return nil
}
