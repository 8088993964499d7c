package merlin32

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/srcgen/internal/runner"
)

// Executable is the default name of the assembler executable.
const Executable = "Merlin32"

// VersionQuery queries the version of the assembler, which prints its
// usage including the version when called without arguments.
var VersionQuery = runner.VersionQuery{
	Marker:     "Merlin32 v",
	Delimiters: ",",
}

// Command returns the invocation that assembles the source file. The
// assembler writes the binary next to the source, named like the source
// without extension.
func Command(executable, sourceFile string) runner.Command {
	return runner.Command{
		Executable: executable,
		Args:       []string{".", filepath.Base(sourceFile)},
		Dir:        filepath.Dir(sourceFile),
		OutputFile: strings.TrimSuffix(sourceFile, ".S"),
	}
}
