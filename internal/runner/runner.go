// Package runner queries the version of external assemblers and invokes
// them on generated source files.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/retroenv/srcgen/internal/assembler"
)

// VersionQuery describes how the version of an assembler is queried.
type VersionQuery struct {
	Args   []string // arguments that make the assembler print its version
	Marker string   // text that precedes the version in the output
	// Delimiters end the version token, the end of the line always ends it.
	Delimiters string
}

// Command is an assembler invocation.
type Command struct {
	Executable string
	Args       []string
	Dir        string   // working directory, empty for the current directory
	Env        []string // additional environment variables
	OutputFile string   // expected path of the assembled binary
}

// QueryVersion runs the executable with the query arguments and returns the
// version that follows the version marker. It returns assembler.NoVersion if
// no executable is configured, it can not be run or the output contains no
// parsable version.
func QueryVersion(ctx context.Context, executable string, query VersionQuery) assembler.Version {
	if executable == "" {
		return assembler.NoVersion
	}

	cmd := exec.CommandContext(ctx, executable, query.Args...)
	// assemblers that print their usage exit with an error code
	out, _ := cmd.CombinedOutput()
	return ParseVersionOutput(string(out), query)
}

// ParseVersionOutput extracts the version from the output of a version query.
func ParseVersionOutput(output string, query VersionQuery) assembler.Version {
	idx := strings.Index(output, query.Marker)
	if query.Marker == "" || idx < 0 {
		return assembler.NoVersion
	}

	token := output[idx+len(query.Marker):]
	if end := strings.IndexAny(token, query.Delimiters+"\r\n"); end >= 0 {
		token = token[:end]
	}
	version, err := assembler.ParseVersion(strings.TrimSpace(token))
	if err != nil {
		return assembler.NoVersion
	}
	return version
}

// Run executes the command and waits for it to finish. It returns nil if no
// executable is configured. The exit code and output are reported unchanged,
// a command that can not be started is reported with exit code -1.
func Run(ctx context.Context, command Command) *assembler.InvocationResult {
	if command.Executable == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, command.Executable, command.Args...)
	cmd.Dir = command.Dir
	if len(command.Env) > 0 {
		cmd.Env = append(os.Environ(), command.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := &assembler.InvocationResult{
		CommandLine: CommandLine(command),
		OutputFile:  command.OutputFile,
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		stderr.WriteString(err.Error())
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result
}

// CommandLine returns the command as it would be entered in a shell.
// Arguments containing whitespace or quotes are quoted.
func CommandLine(command Command) string {
	parts := make([]string, 0, len(command.Args)+1)
	for _, part := range append([]string{command.Executable}, command.Args...) {
		if part == "" || strings.ContainsAny(part, " \t\"'") {
			part = strconv.Quote(part)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
