// Package cli handles command line interface logic.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/options"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Handler runs the source generation for the parsed options.
type Handler func(ctx context.Context, opts options.Program) error

// BuildInfo contains the version details that the binary was built with.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var errMissingInput = errors.New("missing binary file to generate source for")

// NewRootCommand returns the root command that generates source for a
// binary file, with the info and version commands attached.
func NewRootCommand(info BuildInfo, handler Handler) *cobra.Command {
	opts := options.NewProgram()
	var loadAddress string
	executables := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "srcgen [flags] <binary file>",
		Short: "Retargetable 6502 family assembly source generator",
		Long: `srcgen generates assembly source for a binary image in the dialects of
several 6502 family assemblers. Every generated source file reassembles to
the exact input image. Code ranges, data formats, labels and comments of
the image are read from an optional JSON project description.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.Batch == "" {
				_ = cmd.Usage()
				return errMissingInput
			}
			if len(args) > 0 {
				opts.Input = args[0]
			}

			if err := finalizeOptions(&opts, loadAddress, executables); err != nil {
				return err
			}
			return handler(cmd.Context(), opts)
		},
	}

	readOptionFlags(cmd.Flags(), &opts, &loadAddress, executables)

	cmd.AddCommand(newInfoCommand(), newVersionCommand(info))
	return cmd
}

func readOptionFlags(flags *pflag.FlagSet, opts *options.Program, loadAddress *string, executables map[string]*string) {
	flags.StringSliceVarP(&opts.Assemblers, "assembler", "a", opts.Assemblers,
		"assembler dialects to generate source for ("+strings.Join(assembler.Dialects, "/")+")")
	flags.StringVarP(&opts.Project, "project", "p", "", "JSON project description of the binary file")
	flags.StringVarP(&opts.Output, "output", "o", "", "output directory, defaults to the directory of the binary file")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of files matching the given path and file mask, for example *.bin")
	flags.StringVar(&opts.CPU, "cpu", "", "cpu of binary files without project description (6502/65816)")
	flags.StringVar(loadAddress, "load-address", "$8000", "load address of binary files without project description")
	flags.BoolVar(&opts.Assemble, "assemble", false, "assemble the generated source using the installed assemblers")
	flags.BoolVar(&opts.Verify, "verify", false, "assemble the generated source and verify that it matches the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "perform operations quietly")

	flags.StringVar(&opts.LabelPlacement, "label-placement", opts.LabelPlacement,
		"placement of labels ("+options.PlacementInline+"/"+options.PlacementSplit+"/"+options.PlacementSeparate+")")
	flags.BoolVar(&opts.HeaderComment, "header", opts.HeaderComment, "output an identifying header comment")
	flags.IntVar(&opts.LabelWidth, "label-width", 0, "width of the label column, 0 selects the assembler default")
	flags.IntVar(&opts.OpcodeWidth, "opcode-width", 0, "width of the opcode column, 0 selects the assembler default")
	flags.IntVar(&opts.OperandWidth, "operand-width", 0, "width of the operand column, 0 selects the assembler default")

	for _, dialect := range assembler.Dialects {
		executables[dialect] = flags.String(dialect+"-path", "", "path of the "+dialect+" assembler executable")
	}
}

// finalizeOptions validates and normalizes the option values that can not
// be parsed directly by the flag set.
func finalizeOptions(opts *options.Program, loadAddress string, executables map[string]*string) error {
	if err := opts.NormalizeAssemblers(); err != nil {
		return err //nolint:wrapcheck
	}
	if _, err := opts.Settings(); err != nil {
		return err //nolint:wrapcheck
	}

	address, err := ParseAddress(loadAddress)
	if err != nil {
		return fmt.Errorf("parsing load address: %w", err)
	}
	opts.LoadAddress = address

	if opts.Verify {
		opts.Assemble = true
	}
	for dialect, path := range executables {
		if *path != "" {
			opts.Executables[dialect] = *path
		}
	}
	return nil
}

// ParseAddress parses an address in decimal or in hexadecimal with a '$'
// or '0x' prefix.
func ParseAddress(s string) (int, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		s, base = s[2:], 16
	}

	address, err := strconv.ParseUint(s, base, 24)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	return int(address), nil
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("version: %s\n", buildinfo.Version(info.Version, info.Commit, info.Date))
		},
	}
}
