// Package detector handles the detection of installed assembler versions.
package detector

import (
	"context"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/config"
	"github.com/retroenv/srcgen/internal/runner"
)

// Tool describes how an assembler executable is found and its version queried.
type Tool struct {
	Dialect    string
	Executable string // default executable name
	Query      runner.VersionQuery
}

// Result is the detected installation of an assembler.
type Result struct {
	Executable string            // resolved executable path, empty if not found
	Version    assembler.Version // detected version or NoVersion
}

// Detector looks up assembler executables and queries their versions.
type Detector struct {
	logger      *log.Logger
	executables map[string]string // configured executable paths by dialect
}

// New creates a new assembler detector.
func New(logger *log.Logger, executables map[string]string) *Detector {
	return &Detector{
		logger:      logger,
		executables: executables,
	}
}

// Detect returns the executable and version of the assembler of the tool.
// Missing executables and unparsable version outputs result in NoVersion,
// the generator then uses its default version.
func (d *Detector) Detect(ctx context.Context, tool Tool) Result {
	executable := config.LookupExecutable(tool.Dialect, d.executables[tool.Dialect], tool.Executable)
	if executable == "" {
		d.logger.Debug("Assembler executable not found",
			log.String("assembler", tool.Dialect),
			log.String("executable", tool.Executable))
		return Result{}
	}

	version := runner.QueryVersion(ctx, executable, tool.Query)
	if !version.IsValid() {
		d.logger.Warn("Assembler version could not be detected",
			log.String("assembler", tool.Dialect),
			log.String("executable", executable))
	} else {
		d.logger.Debug("Detected assembler version",
			log.String("assembler", tool.Dialect),
			log.String("executable", executable),
			log.Stringer("version", version))
	}

	return Result{
		Executable: executable,
		Version:    version,
	}
}
