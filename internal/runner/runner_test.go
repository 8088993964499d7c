package runner

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/srcgen/internal/assembler"
)

const helperEnv = "SRCGEN_WANT_HELPER_PROCESS=1"

// helperCommand returns a command that runs TestHelperProcess in a new
// process of the test binary, which acts as the named fake assembler.
func helperCommand(mode string) Command {
	return Command{
		Executable: os.Args[0],
		Args:       []string{"-test.run=TestHelperProcess", "--", mode},
		Env:        []string{helperEnv},
		OutputFile: "game.bin",
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("SRCGEN_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}

	switch args[1] {
	case "version":
		fmt.Println("cl65 V2.19 - Git 3f7d51d")
		os.Exit(0)
	case "usage":
		fmt.Fprintln(os.Stderr, "Merlin32 v1.1, (c) Brutal Deluxe 2011-2015")
		os.Exit(1)
	case "fail":
		fmt.Println("assembling")
		fmt.Fprintln(os.Stderr, "game.S(3): Error: Unknown opcode")
		os.Exit(3)
	default:
		os.Exit(0)
	}
}

func TestQueryVersion(t *testing.T) {
	t.Setenv("SRCGEN_WANT_HELPER_PROCESS", "1")
	ctx := context.Background()

	query := VersionQuery{Args: []string{"-test.run=TestHelperProcess", "--", "version"}, Marker: "cl65 V", Delimiters: " "}
	assert.Equal(t, assembler.NewVersion(2, 19, 0), QueryVersion(ctx, os.Args[0], query))

	query = VersionQuery{Args: []string{"-test.run=TestHelperProcess", "--", "usage"}, Marker: "Merlin32 v", Delimiters: ","}
	assert.Equal(t, assembler.NewVersion(1, 1, 0), QueryVersion(ctx, os.Args[0], query))

	query = VersionQuery{Args: []string{"-test.run=TestHelperProcess", "--", "version"}, Marker: "ACME, release "}
	assert.False(t, QueryVersion(ctx, os.Args[0], query).IsValid())

	assert.False(t, QueryVersion(ctx, "", query).IsValid())
	assert.False(t, QueryVersion(ctx, "/nonexistent/assembler", query).IsValid())
}

func TestParseVersionOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		query  VersionQuery
		want   assembler.Version
	}{
		{
			name:   "acme release",
			output: "This is ACME, release 0.97 (\"Zem\"), 21 Oct 2020\n",
			query:  VersionQuery{Marker: "ACME, release ", Delimiters: " ("},
			want:   assembler.NewVersion(0, 97, 0),
		},
		{
			name:   "asm6f",
			output: "asm6f 1.6 (modifications v1.6)\nUsage: asm6f [-options] sourcefile\n",
			query:  VersionQuery{Marker: "asm6f ", Delimiters: " "},
			want:   assembler.NewVersion(1, 6, 0),
		},
		{
			name:   "version at end of line",
			output: "cl65 V2.18\n",
			query:  VersionQuery{Marker: "cl65 V", Delimiters: " "},
			want:   assembler.NewVersion(2, 18, 0),
		},
		{
			name:   "missing marker",
			output: "command not found",
			query:  VersionQuery{Marker: "cl65 V"},
			want:   assembler.NoVersion,
		},
		{
			name:   "unparsable version",
			output: "cl65 Vx.y",
			query:  VersionQuery{Marker: "cl65 V"},
			want:   assembler.NoVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVersionOutput(tt.output, tt.query))
		})
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	result := Run(ctx, helperCommand("fail"))
	assert.NotNil(t, result)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "assembling\n", result.Stdout)
	assert.Contains(t, result.Stderr, "Unknown opcode")
	assert.Equal(t, "game.bin", result.OutputFile)
	assert.Contains(t, result.CommandLine, "-test.run=TestHelperProcess -- fail")

	result = Run(ctx, helperCommand("ok"))
	assert.Equal(t, 0, result.ExitCode)
	assert.Empty(t, result.Stderr)
}

func TestRun_NotConfigured(t *testing.T) {
	assert.Nil(t, Run(context.Background(), Command{}))
}

func TestRun_MissingExecutable(t *testing.T) {
	result := Run(context.Background(), Command{Executable: "/nonexistent/assembler"})
	assert.NotNil(t, result)
	assert.Equal(t, -1, result.ExitCode)
	assert.NotEmpty(t, result.Stderr)
}

func TestCommandLine(t *testing.T) {
	command := Command{
		Executable: "cl65",
		Args:       []string{"--target", "none", "-o", "out dir/game", "game_cc65.S"},
	}
	assert.Equal(t, `cl65 --target none -o "out dir/game" game_cc65.S`, CommandLine(command))
}
