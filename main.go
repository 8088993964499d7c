// Package main implements the main entry point for a retargetable 6502 family source generator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/cli"
	"github.com/retroenv/srcgen/internal/config"
	"github.com/retroenv/srcgen/internal/fileprocessor"
	"github.com/retroenv/srcgen/internal/options"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	cmd := cli.NewRootCommand(info, run)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger := config.CreateLogger(false, false)
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options.Program) error {
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if fileprocessor.Interactive(os.Stderr) {
		fileprocessor.PrintBanner(logger, opts, version, commit, date)
	}

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var failed int
	for _, file := range files {
		opts.Input = file

		if err := fileprocessor.ProcessFile(ctx, logger, opts); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return nil
			}
			logger.Error("Source generation failed", log.String("file", file), log.Err(err))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("source generation failed for %d of %d files", failed, len(files))
	}
	return nil
}
