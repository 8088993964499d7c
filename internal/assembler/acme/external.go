package acme

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/srcgen/internal/runner"
)

// Executable is the default name of the assembler executable.
const Executable = "acme"

// VersionQuery queries the version of the assembler.
var VersionQuery = runner.VersionQuery{
	Args:       []string{"--version"},
	Marker:     "ACME, release ",
	Delimiters: " (",
}

// Command returns the invocation that assembles the source file to a plain
// binary file next to it.
func Command(executable, sourceFile string) runner.Command {
	output := strings.TrimSuffix(sourceFile, ".S")
	return runner.Command{
		Executable: executable,
		Args: []string{
			"--format", "plain",
			"-o", filepath.Base(output),
			filepath.Base(sourceFile),
		},
		Dir:        filepath.Dir(sourceFile),
		OutputFile: output,
	}
}
