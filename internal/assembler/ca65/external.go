package ca65

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/srcgen/internal/runner"
)

// Executable is the default name of the assembler executable. The cl65
// driver assembles and links in a single step.
const Executable = "cl65"

// VersionQuery queries the version of the assembler.
var VersionQuery = runner.VersionQuery{
	Args:       []string{"--version"},
	Marker:     "cl65 V",
	Delimiters: " ",
}

// Command returns the invocation that assembles and links the source file
// using the linker config next to it.
func Command(executable, sourceFile string) runner.Command {
	output := strings.TrimSuffix(sourceFile, ".S")
	config := strings.TrimSuffix(sourceFile, FileSuffix) + ConfigFileSuffix
	return runner.Command{
		Executable: executable,
		Args: []string{
			"--target", "none",
			"-C", filepath.Base(config),
			"-o", filepath.Base(output),
			filepath.Base(sourceFile),
		},
		Dir:        filepath.Dir(sourceFile),
		OutputFile: output,
	}
}
