package cli

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ida/internal/bridge"
	"github.com/roach88/ida/internal/bytecode"
)

// AsmOptions holds flags for the asm and disasm commands.
type AsmOptions struct {
	*RootOptions
	Family       string
	File         string
	FirstImageID int
}

// AsmLine is one assembled or disassembled instruction.
type AsmLine struct {
	Source string `json:"source"`
	Code   string `json:"code"`
	Size   int    `json:"size"`
}

// NewAsmCommand creates the asm command.
func NewAsmCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AsmOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "asm [instruction...]",
		Short: "Assemble textual instructions into host bytecode",
		Long: `Assemble textual instructions into the host interpreter's bytecode.

Instructions are written as an opcode name or number followed by its
arguments, separated by spaces or commas. Strings are quoted. Without
arguments, instructions are read one per line from --file or stdin;
blank lines and lines starting with # are skipped.

Examples:
  ida asm SUICIDE
  ida asm --family move 'SAMPLE 12' 'WAIT_NB_SECOND 2'
  ida asm --family lifef --file conditions.txt --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsm(opts, args, cmd)
		},
	}
	addFamilyFlags(cmd, opts)
	cmd.Flags().IntVar(&opts.FirstImageID, "first-image-id", bridge.DefaultConfig().FirstImageID, "first mod image id; image arguments must stay below it")

	return cmd
}

// NewDisasmCommand creates the disasm command.
func NewDisasmCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AsmOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "disasm [hex...]",
		Short: "Disassemble host bytecode into instructions",
		Long: `Disassemble host bytecode into textual instructions.

Each argument (or each line of --file or stdin) is one hex-encoded buffer
as recorded in traces. Terminated families decode up to their terminator.

Examples:
  ida disasm 260b
  ida disasm --family move 0e0c0000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(opts, args, cmd)
		},
	}
	addFamilyFlags(cmd, opts)

	return cmd
}

func addFamilyFlags(cmd *cobra.Command, opts *AsmOptions) {
	cmd.Flags().StringVar(&opts.Family, "family", "life", "instruction family (life|lifef|move)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read input lines from file")
}

func runAsm(opts *AsmOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	table, lines, err := asmInput(opts, args, cmd)
	if err != nil {
		return err
	}

	limits := bytecode.Limits{MaxImageID: int64(opts.FirstImageID)}
	out := make([]AsmLine, 0, len(lines))
	for i, line := range lines {
		in, err := bytecode.Parse(table, line, limits)
		if err != nil {
			_ = formatter.Error("E_ASM", fmt.Sprintf("line %d: %v", i+1, err), line)
			return WrapExitError(ExitFailure, fmt.Sprintf("line %d", i+1), err)
		}
		code := in.Bytes()
		out = append(out, AsmLine{Source: in.String(), Code: hex.EncodeToString(code), Size: len(code)})
	}
	return outputAsm(formatter, out, func(l AsmLine) string { return l.Code })
}

func runDisasm(opts *AsmOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	table, lines, err := asmInput(opts, args, cmd)
	if err != nil {
		return err
	}

	var out []AsmLine
	for i, line := range lines {
		code, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("line %d: invalid hex", i+1), err)
		}
		ins, err := bytecode.Disassemble(table, code)
		if err != nil {
			_ = formatter.Error("E_DISASM", fmt.Sprintf("line %d: %v", i+1, err), line)
			return WrapExitError(ExitFailure, fmt.Sprintf("line %d", i+1), err)
		}
		for _, in := range ins {
			enc := in.Bytes()
			out = append(out, AsmLine{Source: in.String(), Code: hex.EncodeToString(enc), Size: len(enc)})
		}
	}
	return outputAsm(formatter, out, func(l AsmLine) string { return l.Source })
}

// asmInput resolves the family table and the input lines.
func asmInput(opts *AsmOptions, args []string, cmd *cobra.Command) (*bytecode.Table, []string, error) {
	table, ok := bytecode.FamilyNamed(opts.Family)
	if !ok {
		return nil, nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown family %q: must be one of life, lifef, move", opts.Family))
	}
	if len(args) > 0 {
		return table, args, nil
	}

	var r io.Reader = cmd.InOrStdin()
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open input", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to read input", err)
	}
	if len(lines) == 0 {
		return nil, nil, NewExitError(ExitCommandError, "no input")
	}
	return table, lines, nil
}

func outputAsm(formatter *OutputFormatter, out []AsmLine, text func(AsmLine) string) error {
	if formatter.JSON() {
		return formatter.Success(out)
	}
	for _, l := range out {
		fmt.Fprintln(formatter.Writer, text(l))
	}
	return nil
}
