package asm6

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/srcgen/internal/runner"
)

// Executable is the default name of the assembler executable.
const Executable = "asm6f"

// VersionQuery queries the version of the assembler, which prints its
// usage including the version when called without arguments.
var VersionQuery = runner.VersionQuery{
	Marker:     "asm6f ",
	Delimiters: " ",
}

// Command returns the invocation that assembles the source file to a
// binary file next to it.
func Command(executable, sourceFile string) runner.Command {
	output := strings.TrimSuffix(sourceFile, ".asm") + ".bin"
	return runner.Command{
		Executable: executable,
		Args:       []string{filepath.Base(sourceFile), filepath.Base(output)},
		Dir:        filepath.Dir(sourceFile),
		OutputFile: output,
	}
}
