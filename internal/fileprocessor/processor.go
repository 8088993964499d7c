// Package fileprocessor handles file selection and processing operations.
package fileprocessor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/options"
	"github.com/retroenv/srcgen/internal/pipeline"
	"golang.org/x/term"
)

// ProcessFile runs the source generation for the input file of the options
// and logs the generated files of every dialect.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	p := pipeline.New(logger, opts.Executables)
	results, err := p.Execute(ctx, opts)
	if err != nil {
		return fmt.Errorf("generating source: %w", err)
	}

	for _, result := range results {
		logger.Info("Generated source",
			log.String("assembler", result.Dialect),
			log.String("files", strings.Join(result.Files, ", ")),
			log.Stringer("version", result.Version))
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options.
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch == "" {
		return []string{opts.Input}, nil
	}

	matches, err := filepath.Glob(opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("globbing batch pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match batch pattern '%s'", opts.Batch)
	}
	return matches, nil
}

// Interactive returns whether the file is connected to a terminal.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("srcgen", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
