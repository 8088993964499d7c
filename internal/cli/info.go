package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/config"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/options"
	"github.com/retroenv/srcgen/internal/pipeline"
	"github.com/retroenv/srcgen/internal/program"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// dialectInfo describes the output of a dialect for an assembler version.
type dialectInfo struct {
	Assembler  string
	Version    string
	Executable string
	Quirks     assembler.Quirks
	PseudoOps  map[string]string
}

// pseudoOpLister is implemented by generators that expose their pseudo-op table.
type pseudoOpLister interface {
	PseudoOps() assembler.PseudoOpNames
}

func newInfoCommand() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "info [assembler...]",
		Short: "Print the pseudo-ops and quirks of the assembler dialects",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := options.Flags{Assemblers: args}
			if len(args) == 0 {
				flags.Assemblers = assembler.Dialects
			}
			if err := flags.NormalizeAssemblers(); err != nil {
				return err //nolint:wrapcheck
			}

			v := assembler.NoVersion
			if version != "" {
				var err error
				if v, err = assembler.ParseVersion(version); err != nil {
					return fmt.Errorf("parsing assembler version: %w", err)
				}
			}

			printer := pp.New()
			printer.SetColoringEnabled(isTerminal(cmd.OutOrStdout()))
			for _, name := range flags.Assemblers {
				info, err := describeDialect(name, v)
				if err != nil {
					return err
				}
				printer.Fprintln(cmd.OutOrStdout(), info)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "assembler-version", "", "assembler version to describe, defaults to the assumed version")
	return cmd
}

// describeDialect configures the generator of the dialect for an empty
// program to resolve the version dependent tables.
func describeDialect(name string, version assembler.Version) (dialectInfo, error) {
	dialect := pipeline.Dialects()[name]
	gen := dialect.New(config.CreateLogger(false, true))

	cfg := assembler.Config{
		Program: program.New("info", []byte{0}, instruction.CPU6502),
		Version: version,
	}
	if err := gen.Configure(cfg); err != nil {
		return dialectInfo{}, fmt.Errorf("configuring %s generator: %w", name, err)
	}

	info := dialectInfo{
		Assembler:  name,
		Version:    "default",
		Executable: dialect.Tool.Executable,
		Quirks:     gen.Quirks(),
		PseudoOps:  map[string]string{},
	}
	if version.IsValid() {
		info.Version = version.String()
	}
	if lister, ok := gen.(pseudoOpLister); ok {
		names := lister.PseudoOps()
		for _, kind := range names.Kinds() {
			info.PseudoOps[kind.String()] = names.Name(kind)
		}
	}
	return info, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
